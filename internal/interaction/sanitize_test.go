package interaction

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullCommand = `{
	"type": 2,
	"id": "1111",
	"application_id": "2222",
	"token": "secret-token",
	"data": {"name": "hello", "options": [{"name": "who", "value": "world"}]},
	"guild_id": "3333",
	"channel_id": "4444",
	"member": {"user": {"id": "5555"}},
	"user": null,
	"locale": "en-US",
	"guild_locale": "en-GB",
	"version": 1,
	"app_permissions": "8"
}`

func mustClassify(t *testing.T, body string) *Interaction {
	t.Helper()
	i, err := Classify([]byte(body))
	require.NoError(t, err)
	return i
}

func TestSanitize_Projection(t *testing.T) {
	event := Sanitize(mustClassify(t, fullCommand))

	assert.Equal(t, TypeApplicationCommand, event.Type)
	assert.Equal(t, []string{
		"application_id", "channel_id", "data", "guild_id", "guild_locale",
		"id", "locale", "member", "type",
	}, event.Fields())

	body, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.NotContains(t, decoded, "token")
	assert.NotContains(t, decoded, "user")
	assert.NotContains(t, decoded, "version")
	assert.NotContains(t, decoded, "app_permissions")
	assert.Equal(t, "hello", decoded["data"].(map[string]interface{})["name"])
}

func TestSanitize_EmptyEventMarshalsToObject(t *testing.T) {
	body, err := json.Marshal(SanitizedEvent{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(body))
}

func TestSanitize_PreservesNestedValuesVerbatim(t *testing.T) {
	event := Sanitize(mustClassify(t, `{"type":2,"data":{"id":123456789012345678901,"name":"big"}}`))

	raw, ok := event.Raw("data")
	require.True(t, ok)
	assert.Contains(t, string(raw), "123456789012345678901")
}

func TestSanitize_NeverEmitsToken(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for n := 0; n < 200; n++ {
		payload := randomInteraction(rng)
		payload["token"] = fmt.Sprintf("tok-%d", n)

		body, err := json.Marshal(payload)
		require.NoError(t, err)

		out, err := json.Marshal(Sanitize(mustClassify(t, string(body))))
		require.NoError(t, err)

		var decoded map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(out, &decoded))
		assert.NotContains(t, decoded, "token")
		for k, v := range decoded {
			assert.NotEqual(t, "null", string(v), "field %s forwarded as null", k)
		}
	}
}

func TestSanitize_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for n := 0; n < 200; n++ {
		payload := randomInteraction(rng)

		body, err := json.Marshal(payload)
		require.NoError(t, err)

		i := mustClassify(t, string(body))
		if typ, ok := payload["type"].(int); ok {
			assert.Equal(t, Type(typ), i.Type)
		}

		event := Sanitize(i)
		for _, name := range AllowedFields {
			want, present := payload[name]
			raw, got := event.Raw(name)
			if !present || want == nil {
				assert.False(t, got, "%s should be omitted", name)
				continue
			}
			require.True(t, got, "%s should be kept", name)
			wantJSON, _ := json.Marshal(want)
			assert.JSONEq(t, string(wantJSON), string(raw))
		}
	}
}

func TestSanitizedEvent_Attributes(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.FixedZone("CET", 3600))
	event := Sanitize(mustClassify(t, fullCommand))

	assert.Equal(t, map[string]string{
		AttrInteractionID:    "1111",
		AttrInteractionType:  "2",
		AttrApplicationID:    "2222",
		AttrGuildID:          "3333",
		AttrChannelID:        "4444",
		AttrCommandName:      "hello",
		AttrPublishTimestamp: "2024-05-06T06:08:09Z",
	}, event.Attributes(now))
}

func TestSanitizedEvent_AttributesKeepEmptyKeys(t *testing.T) {
	now := time.Unix(0, 0)

	tests := []struct {
		name string
		body string
		want map[string]string
	}{
		{
			name: "direct message with empty command name",
			body: `{"type":2,"id":"1","application_id":"2","channel_id":"3","data":{"name":""}}`,
			want: map[string]string{
				AttrInteractionID:    "1",
				AttrInteractionType:  "2",
				AttrApplicationID:    "2",
				AttrGuildID:          "",
				AttrChannelID:        "3",
				AttrCommandName:      "",
				AttrPublishTimestamp: "1970-01-01T00:00:00Z",
			},
		},
		{
			name: "no data name",
			body: `{"type":2,"data":{"options":[]},"guild_id":""}`,
			want: map[string]string{
				AttrInteractionID:    "",
				AttrInteractionType:  "2",
				AttrApplicationID:    "",
				AttrGuildID:          "",
				AttrChannelID:        "",
				AttrPublishTimestamp: "1970-01-01T00:00:00Z",
			},
		},
		{
			name: "non string name and object ids are blank",
			body: `{"type":2,"id":{"x":1},"data":{"name":7}}`,
			want: map[string]string{
				AttrInteractionID:    "",
				AttrInteractionType:  "2",
				AttrApplicationID:    "",
				AttrGuildID:          "",
				AttrChannelID:        "",
				AttrPublishTimestamp: "1970-01-01T00:00:00Z",
			},
		},
		{
			name: "numeric snowflakes use their literal text",
			body: `{"type":2,"id":1234567890123456789,"guild_id":42}`,
			want: map[string]string{
				AttrInteractionID:    "1234567890123456789",
				AttrInteractionType:  "2",
				AttrApplicationID:    "",
				AttrGuildID:          "42",
				AttrChannelID:        "",
				AttrPublishTimestamp: "1970-01-01T00:00:00Z",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(mustClassify(t, tt.body)).Attributes(now))
		})
	}
}

func TestSanitizedEvent_CommandName(t *testing.T) {
	name, ok := Sanitize(mustClassify(t, `{"type":2,"data":{"name":""}}`)).CommandName()
	assert.True(t, ok)
	assert.Empty(t, name)

	_, ok = Sanitize(mustClassify(t, `{"type":2,"data":"hello"}`)).CommandName()
	assert.False(t, ok)

	_, ok = Sanitize(mustClassify(t, `{"type":2}`)).CommandName()
	assert.False(t, ok)
}

// randomInteraction builds a payload where each known field is randomly
// absent, null or populated, plus some unknown fields.
func randomInteraction(rng *rand.Rand) map[string]interface{} {
	payload := map[string]interface{}{}
	values := map[string]func() interface{}{
		"type":           func() interface{} { return rng.Intn(6) },
		"id":             func() interface{} { return fmt.Sprintf("%d", rng.Int63()) },
		"application_id": func() interface{} { return fmt.Sprintf("%d", rng.Int63()) },
		"data": func() interface{} {
			return map[string]interface{}{"name": fmt.Sprintf("cmd%d", rng.Intn(100)), "type": 1}
		},
		"guild_id":     func() interface{} { return fmt.Sprintf("%d", rng.Int63()) },
		"channel_id":   func() interface{} { return fmt.Sprintf("%d", rng.Int63()) },
		"member":       func() interface{} { return map[string]interface{}{"nick": "n", "roles": []string{"a", "b"}} },
		"user":         func() interface{} { return map[string]interface{}{"id": "9", "username": "u"} },
		"locale":       func() interface{} { return "en-US" },
		"guild_locale": func() interface{} { return "de" },
		"version":      func() interface{} { return 1 },
		"entitlements": func() interface{} { return []interface{}{} },
	}

	for name, gen := range values {
		switch rng.Intn(3) {
		case 0:
			// absent
		case 1:
			payload[name] = nil
		default:
			payload[name] = gen()
		}
	}
	return payload
}
