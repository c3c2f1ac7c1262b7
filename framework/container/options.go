package container

// settings collects per-call options.
type settings struct {
	tag string
}

// Option configures a registration or resolution call.
type Option func(*settings)

// WithTag selects a tagged key. Tags let several registrations of the same
// type live side by side; the default is the untagged key.
func WithTag(tag string) Option {
	return func(s *settings) {
		s.tag = tag
	}
}

func apply(opts []Option) settings {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
