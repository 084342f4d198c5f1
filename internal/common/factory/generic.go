package factory

import (
	"fmt"

	"interactions-relay/internal/common/errors"
)

// Factory is a generic factory that creates instances of type T from config type C
type Factory[C any, T any] struct {
	typeName string
	creator  func(C) (T, error)
}

// NewFactory creates a new generic factory
func NewFactory[C any, T any](typeName string, creator func(C) (T, error)) *Factory[C, T] {
	return &Factory[C, T]{
		typeName: typeName,
		creator:  creator,
	}
}

// Create creates an instance of T from the provided config
func (f *Factory[C, T]) Create(config interface{}) (T, error) {
	var zero T

	typed, ok := config.(C)
	if !ok {
		return zero, errors.ConfigError(fmt.Sprintf("invalid config type for %s, expected %T but got %T", f.typeName, typed, config))
	}

	return f.creator(typed)
}

// GetType returns the type name of this factory
func (f *Factory[C, T]) GetType() string {
	return f.typeName
}
