package filterq

type options struct {
	finder   Finder
	logger   *Logger
	anchored bool
}

// Option configures FilterQ constructor behavior.
type Option func(*options)

// WithFinder attaches a backend for Find/Count. Use Local for an in-process
// store.Repository or a client.Client for a remote service.
func WithFinder(f Finder) Option {
	return func(o *options) { o.finder = f }
}

// WithLogger replaces the default logger. Pass NoopLogger() to disable
// logging entirely.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithAnchoredCoercion requires numeric and boolean literals to match a
// term's whole raw value during coercion, instead of any substring of it.
// The default is unanchored ("retrue" coerces to true).
func WithAnchoredCoercion() Option {
	return func(o *options) { o.anchored = true }
}

func applyOptions(opts []Option) options {
	o := options{logger: NoopLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
