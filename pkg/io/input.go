package io

import (
	"github.com/matzehuels/codecity/pkg/city"
	"github.com/matzehuels/codecity/pkg/errors"
)

// Input is a decoded entity list.
type Input struct {
	Separator string
	Entities  []city.Entity
}

// Build creates the entity tree rooted at [city.RootName].
func (in *Input) Build() (*city.Group, error) {
	root, err := city.Build(in.Entities, in.Separator)
	if err != nil {
		return nil, errors.Classify(err)
	}
	return root, nil
}

// Normalize fills in the default separator, validates every name and
// coerces degenerate sizes.
func (in *Input) Normalize() error {
	if in.Separator == "" {
		in.Separator = city.DefaultSeparator
	}
	if err := errors.ValidateSeparator(in.Separator); err != nil {
		return err
	}
	for i := range in.Entities {
		e := &in.Entities[i]
		if err := errors.ValidateEntityName(e.Name, in.Separator); err != nil {
			return errors.New(errors.GetCode(err), "entity %d: %s", i, errors.UserMessage(err))
		}
		e.Metrics = e.Metrics.Coerce()
	}
	return nil
}

// Option configures the readers.
type Option func(*readOptions)

type readOptions struct {
	separator string
}

// WithSeparator sets the separator used when a document does not name one.
// Without it such documents use [city.DefaultSeparator].
func WithSeparator(sep string) Option {
	return func(o *readOptions) { o.separator = sep }
}

func newReadOptions(opts []Option) readOptions {
	var o readOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
