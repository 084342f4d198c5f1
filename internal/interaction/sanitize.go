package interaction

import (
	"encoding/json"
	"sort"
	"strconv"
	"time"
)

// AllowedFields are the only top level fields that leave the process.
// Anything else, the response token included, is dropped.
var AllowedFields = []string{
	"type",
	"id",
	"application_id",
	"data",
	"guild_id",
	"channel_id",
	"member",
	"user",
	"locale",
	"guild_locale",
}

// Attribute keys set on every published message.
const (
	AttrInteractionID    = "interaction_id"
	AttrInteractionType  = "interaction_type"
	AttrApplicationID    = "application_id"
	AttrGuildID          = "guild_id"
	AttrChannelID        = "channel_id"
	AttrPublishTimestamp = "publish_timestamp"
	AttrCommandName      = "command_name"
)

// SanitizedEvent is the allow-listed projection of an Interaction. It
// marshals to the published JSON body.
type SanitizedEvent struct {
	Type   Type
	fields map[string]json.RawMessage
}

// Sanitize copies the allow-listed, non-null fields of i.
func Sanitize(i *Interaction) SanitizedEvent {
	event := SanitizedEvent{
		Type:   i.Type,
		fields: make(map[string]json.RawMessage, len(AllowedFields)),
	}
	for _, name := range AllowedFields {
		if raw, ok := i.Raw(name); ok {
			event.fields[name] = raw
		}
	}
	return event
}

// MarshalJSON emits the projected fields with keys in sorted order.
func (e SanitizedEvent) MarshalJSON() ([]byte, error) {
	if e.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(e.fields)
}

// Fields returns the names of the fields present in the event, sorted.
func (e SanitizedEvent) Fields() []string {
	names := make([]string, 0, len(e.fields))
	for name := range e.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Raw returns the verbatim JSON of a projected field.
func (e SanitizedEvent) Raw(name string) (json.RawMessage, bool) {
	raw, ok := e.fields[name]
	return raw, ok
}

// ID returns the interaction id, or "" when absent.
func (e SanitizedEvent) ID() string {
	return e.scalar("id")
}

// CommandName returns data.name when it is a string.
func (e SanitizedEvent) CommandName() (string, bool) {
	raw, ok := e.fields["data"]
	if !ok {
		return "", false
	}
	var data struct {
		Name *string `json:"name"`
	}
	if err := json.Unmarshal(raw, &data); err != nil || data.Name == nil {
		return "", false
	}
	return *data.Name, true
}

// Attributes derives the routing attributes published alongside the body.
// The six base keys are always present, with "" for a missing identifier.
// command_name is set whenever data.name is a string, even an empty one.
func (e SanitizedEvent) Attributes(now time.Time) map[string]string {
	attrs := map[string]string{
		AttrInteractionID:    e.scalar("id"),
		AttrInteractionType:  strconv.Itoa(int(e.Type)),
		AttrApplicationID:    e.scalar("application_id"),
		AttrGuildID:          e.scalar("guild_id"),
		AttrChannelID:        e.scalar("channel_id"),
		AttrPublishTimestamp: now.UTC().Format(time.RFC3339),
	}
	if name, ok := e.CommandName(); ok {
		attrs[AttrCommandName] = name
	}
	return attrs
}

func (e SanitizedEvent) scalar(name string) string {
	raw, ok := e.fields[name]
	if !ok {
		return ""
	}
	s, _ := scalarString(raw)
	return s
}
