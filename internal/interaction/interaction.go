// Package interaction parses inbound interaction payloads, decides how each
// one is answered and derives the sanitized event that is published for
// application commands.
package interaction

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"strconv"

	"interactions-relay/internal/common/errors"
)

// Type is the numeric interaction type carried in the payload's "type" field.
type Type int

const (
	// TypeUnknown marks a payload whose type is missing, null or not an integer.
	TypeUnknown Type = 0
	// TypePing is the endpoint liveness check.
	TypePing Type = 1
	// TypeApplicationCommand is a slash command invocation.
	TypeApplicationCommand Type = 2
)

func (t Type) String() string {
	switch t {
	case TypePing:
		return "ping"
	case TypeApplicationCommand:
		return "application_command"
	default:
		return "unknown(" + strconv.Itoa(int(t)) + ")"
	}
}

// ErrMalformed is returned by Classify for bodies that are not a JSON object.
var ErrMalformed = stderrors.New("malformed interaction payload")

var jsonNull = []byte("null")

// Interaction is a parsed payload. The original field values are kept
// verbatim so they can be forwarded without re-encoding.
type Interaction struct {
	Type   Type
	fields map[string]json.RawMessage
}

// Classify parses body as a JSON object and reads its type. It performs no
// schema validation beyond that.
func Classify(body []byte) (*Interaction, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, errors.ParseError("invalid JSON", stderrors.Join(ErrMalformed, err))
	}
	// "null" decodes into a nil map without error
	if fields == nil {
		return nil, errors.ParseError("invalid JSON", ErrMalformed)
	}

	i := &Interaction{fields: fields}
	if raw, ok := fields["type"]; ok {
		var t int64
		if err := json.Unmarshal(raw, &t); err == nil {
			i.Type = Type(t)
		}
	}
	return i, nil
}

// Raw returns the verbatim JSON of a top level field. Null values are
// reported as absent.
func (i *Interaction) Raw(name string) (json.RawMessage, bool) {
	raw, ok := i.fields[name]
	if !ok || isNull(raw) {
		return nil, false
	}
	return raw, true
}

// ID returns the interaction id when it is a JSON string or number.
func (i *Interaction) ID() string {
	raw, ok := i.Raw("id")
	if !ok {
		return ""
	}
	s, _ := scalarString(raw)
	return s
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), jsonNull)
}

// scalarString renders a JSON string without quotes and a JSON number as
// its literal text. Any other value reports false.
func scalarString(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", false
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", false
		}
		return s, true
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return "", false
		}
		return n.String(), true
	default:
		return "", false
	}
}
