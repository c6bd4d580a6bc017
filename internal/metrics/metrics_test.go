package metrics

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledIsNoOp(t *testing.T) {
	Init(Options{Enabled: false})
	_, ok := client.(*statsd.NoOpClient)
	assert.True(t, ok)

	Timing(InferLatency, time.Millisecond, nil)
	Incr(InferCount, []string{Tag(TagOutcome, "ok")})
}

func TestEnabledSendsToAgent(t *testing.T) {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer conn.Close()
	port := conn.LocalAddr().(*net.UDPAddr).Port

	Init(Options{Enabled: true, Host: "127.0.0.1", Port: port, SamplingRate: 1, Env: "test", Service: "seg-api"})
	defer Init(Options{})

	Incr(InferCount, []string{Tag(TagPredictor, "static")})
	require.NoError(t, client.Flush())

	buf := make([]byte, 8192)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var packet string
	for !strings.Contains(packet, InferCount) {
		n, _, err := conn.ReadFrom(buf)
		require.NoError(t, err)
		packet = string(buf[:n])
	}

	assert.Contains(t, packet, InferCount+":1|c")
	assert.Contains(t, packet, "predictor:static")
	assert.Contains(t, packet, "service:seg-api")
}
