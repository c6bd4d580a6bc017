package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var levels = map[string]zerolog.Level{
	"DEBUG":    zerolog.DebugLevel,
	"INFO":     zerolog.InfoLevel,
	"WARN":     zerolog.WarnLevel,
	"ERROR":    zerolog.ErrorLevel,
	"FATAL":    zerolog.FatalLevel,
	"PANIC":    zerolog.PanicLevel,
	"DISABLED": zerolog.Disabled,
}

func ParseLevel(name string) (zerolog.Level, error) {
	level, ok := levels[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return zerolog.NoLevel, fmt.Errorf("incorrect log level %q", name)
	}
	return level, nil
}

// Init sets the global level and output. Production environments log JSON,
// everything else a human readable console format.
func Init(level, appName, appEnv string) error {
	return initWith(os.Stdout, level, appName, appEnv)
}

func initWith(out io.Writer, level, appName, appEnv string) error {
	parsed, err := ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(parsed)

	writer := out
	if appEnv != "prod" && appEnv != "production" {
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(writer).With().Timestamp().Str("app", appName).Logger()
	log.Info().Str("level", parsed.String()).Msg("Logger initialized!")
	return nil
}
