package base

import (
	"sort"
	"strconv"

	"interactions-relay/internal/brokers"
	"interactions-relay/internal/common/errors"
)

// ValidateMessage rejects messages that cannot be published.
func ValidateMessage(message *brokers.Message) error {
	if message == nil {
		return errors.ValidationError("message is required")
	}
	if len(message.Body) == 0 {
		return errors.ValidationError("message body is required")
	}
	return nil
}

// SortedAttributeKeys returns the attribute names in lexical
// order so backends that carry attributes as ordered lists stay stable.
func SortedAttributeKeys(attributes map[string]string) []string {
	keys := make([]string, 0, len(attributes))
	for k := range attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PrefixedAttributes copies attributes into a generic map with every key
// prefixed, for backends whose metadata shares a namespace with other fields.
func PrefixedAttributes(prefix string, attributes map[string]string) map[string]interface{} {
	result := make(map[string]interface{}, len(attributes))
	for k, v := range attributes {
		result[prefix+k] = v
	}
	return result
}

// UnixMillis renders the message timestamp the way stream backends store it.
func UnixMillis(message *brokers.Message) string {
	if message.Timestamp.IsZero() {
		return "0"
	}
	return strconv.FormatInt(message.Timestamp.UnixMilli(), 10)
}
