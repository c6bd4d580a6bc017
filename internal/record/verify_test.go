package record

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestVerifyMissingFields(t *testing.T) {
	tests := []struct {
		name  string
		raw   Raw
		field string
	}{
		{"missing type", Raw{"name": "a", "value": 1}, "type"},
		{"missing name", Raw{"type": "int", "value": 1}, "name"},
		{"missing value", Raw{"name": "a", "type": "int"}, "value"},
		{"type checked before name", Raw{"value": 1}, "type"},
		{"empty record", Raw{}, "type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Verify([]Raw{tt.raw})
			var schemaErr *SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, tt.field, schemaErr.Field)
			assert.Contains(t, err.Error(), "'"+tt.field+"'")
			assert.ErrorIs(t, err, ErrInvalidRecord)
		})
	}
}

func TestVerifyUnsupportedType(t *testing.T) {
	for _, typ := range []any{"bool", "Image", "", 3, nil} {
		err := Verify([]Raw{{"name": "a", "type": typ, "value": "x"}})
		var unsupported *UnsupportedTypeError
		require.ErrorAs(t, err, &unsupported, "type %v", typ)
		assert.Equal(t, typ, unsupported.Type)
	}
}

func TestVerifyValues(t *testing.T) {
	valid := base64.StdEncoding.EncodeToString(pngHeader)
	tests := []struct {
		name    string
		kind    Kind
		value   any
		wantErr bool
	}{
		{"float accepts float", KindFloat, 0.5, false},
		{"float accepts int", KindFloat, 3, false},
		{"float accepts json int", KindFloat, json.Number("3"), false},
		{"float accepts json float", KindFloat, json.Number("3.5e2"), false},
		{"float rejects string", KindFloat, "0.5", true},
		{"float rejects bool", KindFloat, true, true},
		{"float rejects null", KindFloat, nil, true},
		{"int accepts int", KindInt, 10, false},
		{"int accepts int64", KindInt, int64(-4), false},
		{"int accepts json int", KindInt, json.Number("10"), false},
		{"int rejects integral float", KindInt, 3.0, true},
		{"int rejects json integral float", KindInt, json.Number("3.0"), true},
		{"int rejects json exponent", KindInt, json.Number("1e3"), true},
		{"int rejects overflowing uint", KindInt, uint64(1 << 63), true},
		{"string accepts string", KindString, "text", false},
		{"string accepts empty", KindString, "", false},
		{"string rejects int", KindString, 1, true},
		{"image accepts base64 string", KindImage, valid, false},
		{"image accepts base64 bytes", KindImage, []byte(valid), false},
		{"image rejects number", KindImage, 12, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Verify([]Raw{NewRaw("f", tt.kind, tt.value)})
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var mismatch *TypeMismatchError
			require.ErrorAs(t, err, &mismatch)
			assert.Equal(t, tt.kind, mismatch.Expected)
			assert.Equal(t, "f", mismatch.Name)
		})
	}
}

func TestVerifyImageEncoding(t *testing.T) {
	valid := base64.StdEncoding.EncodeToString(pngHeader)
	for _, bad := range []string{
		"not-valid-base64!!",
		strings.TrimRight(valid, "="),
		valid[:4] + "\n" + valid[4:],
		base64.URLEncoding.EncodeToString([]byte{0xfb, 0xff}),
	} {
		err := Verify([]Raw{NewRaw("image", KindImage, bad)})
		var encErr *EncodingError
		require.ErrorAs(t, err, &encErr, "value %q", bad)
		require.NotNil(t, errors.Unwrap(err))
		assert.Contains(t, err.Error(), errors.Unwrap(err).Error())
		assert.ErrorIs(t, err, ErrInvalidRecord)
	}
}

func TestVerifyFailsFast(t *testing.T) {
	err := Verify([]Raw{
		{"name": "first", "type": "int", "value": 1.5},
		{"name": "second", "type": "bogus", "value": 1},
	})
	var mismatch *TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 0, mismatch.Index)

	var unsupported *UnsupportedTypeError
	assert.False(t, errors.As(err, &unsupported))
}

func TestVerifyDoesNotModifyInput(t *testing.T) {
	in := []Raw{NewRaw("a", KindInt, json.Number("7")), NewRaw("b", KindString, "x")}
	snapshot := []Raw{NewRaw("a", KindInt, json.Number("7")), NewRaw("b", KindString, "x")}
	require.NoError(t, Verify(in))
	assert.Equal(t, snapshot, in)
}

func TestVerifyEmptySequence(t *testing.T) {
	assert.NoError(t, Verify(nil))
}
