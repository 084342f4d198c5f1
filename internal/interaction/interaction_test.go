package interaction

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "interactions-relay/internal/common/errors"
)

func TestClassify_Type(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Type
	}{
		{"ping", `{"type":1}`, TypePing},
		{"command", `{"type":2,"data":{"name":"hello"}}`, TypeApplicationCommand},
		{"component", `{"type":3}`, Type(3)},
		{"unknown large", `{"type":99}`, Type(99)},
		{"zero", `{"type":0}`, TypeUnknown},
		{"negative", `{"type":-1}`, Type(-1)},
		{"missing", `{"id":"1"}`, TypeUnknown},
		{"null", `{"type":null}`, TypeUnknown},
		{"string", `{"type":"1"}`, TypeUnknown},
		{"float", `{"type":1.0}`, TypeUnknown},
		{"exponent", `{"type":1e0}`, TypeUnknown},
		{"bool", `{"type":true}`, TypeUnknown},
		{"object", `{"type":{}}`, TypeUnknown},
		{"overflow", `{"type":99999999999999999999}`, TypeUnknown},
		{"empty object", `{}`, TypeUnknown},
		{"whitespace", " \n{ \"type\" : 2 }\t", TypeApplicationCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i, err := Classify([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, i.Type)
		})
	}
}

func TestClassify_Malformed(t *testing.T) {
	bodies := []string{
		``,
		`   `,
		`not json`,
		`null`,
		`[]`,
		`[{"type":1}]`,
		`"type"`,
		`1`,
		`true`,
		`{"type":1`,
		`{"type":1}{"type":2}`,
		`{"type":1,}`,
	}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			i, err := Classify([]byte(body))
			assert.Nil(t, i)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed))
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParse))
		})
	}
}

func TestInteraction_RawAndID(t *testing.T) {
	i, err := Classify([]byte(`{"type":2,"id":"123","guild_id":null,"data":{"name":"x"}}`))
	require.NoError(t, err)

	assert.Equal(t, "123", i.ID())

	_, ok := i.Raw("guild_id")
	assert.False(t, ok, "null fields are absent")

	raw, ok := i.Raw("data")
	require.True(t, ok)
	assert.JSONEq(t, `{"name":"x"}`, string(raw))

	numeric, err := Classify([]byte(`{"type":2,"id":123456789012345678}`))
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678", numeric.ID())
}

func TestType_String(t *testing.T) {
	assert.Equal(t, "ping", TypePing.String())
	assert.Equal(t, "application_command", TypeApplicationCommand.String())
	assert.Equal(t, "unknown(99)", Type(99).String())
}
