package parser

// Option configures a parse call.
type Option func(*options)

type options struct {
	annotationScope bool
}

// WithAnnotationScope widens each statement's hole-consistency scope to the
// terminals inside type annotations.
func WithAnnotationScope(enabled bool) Option {
	return func(o *options) {
		o.annotationScope = enabled
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
