package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTemplate(t *testing.T) {
	tmpl, err := NewTemplate([]Raw{
		NewRaw("image", KindImage, nil),
		NewRaw("ratio", KindFloat, 0.0),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, tmpl.Len())
	assert.Equal(t, []Raw{NewRaw("image", KindImage, nil), NewRaw("ratio", KindFloat, nil)}, tmpl.Wire())
}

func TestNewTemplateErrors(t *testing.T) {
	tests := []struct {
		name string
		raws []Raw
	}{
		{"empty", nil},
		{"missing type", []Raw{{"name": "a"}}},
		{"missing name", []Raw{{"type": "int"}}},
		{"unsupported type", []Raw{{"name": "a", "type": "tensor"}}},
		{"blank name", []Raw{{"name": "", "type": "int"}}},
		{"duplicate", []Raw{NewRaw("a", KindInt, nil), NewRaw("a", KindFloat, nil)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTemplate(tt.raws)
			assert.ErrorIs(t, err, ErrInvalidRecord)
		})
	}
}

func TestTemplateCloneIsolation(t *testing.T) {
	tmpl, err := NewTemplate([]Raw{NewRaw("out1", KindFloat, nil)})
	require.NoError(t, err)

	first := tmpl.Clone()
	first[0].Value = Float(1)
	second := tmpl.Clone()

	assert.Nil(t, second[0].Value)
	assert.Equal(t, []Raw{NewRaw("out1", KindFloat, nil)}, tmpl.Wire())
}
