package local

import "os"

// DefaultPerm is the mode given to files created by Create.
const DefaultPerm os.FileMode = 0644

// Option configures Open, Create and Provider.
type Option func(*options)

type options struct {
	readOnly bool
	perm     os.FileMode
}

func newOptions(opts []Option) options {
	o := options{perm: DefaultPerm}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ReadOnly opens files without write access. Writes through such a handle
// fail with an IOException, and Create is refused.
func ReadOnly() Option {
	return func(o *options) {
		o.readOnly = true
	}
}

// WithPerm sets the mode used when Create makes a new file.
func WithPerm(perm os.FileMode) Option {
	return func(o *options) {
		o.perm = perm & os.ModePerm
	}
}
