package sink

import "github.com/takanori-w/lifeplan-navigator/pkg/audit"

// LocatorOption is a function that configures a Locator
type LocatorOption func(*Locator)

// WithSink registers a sink with the given name
func WithSink(name string, s audit.Sink) LocatorOption {
	return func(l *Locator) {
		if l.sinks == nil {
			l.sinks = make(map[string]audit.Sink)
		}
		l.sinks[name] = s
	}
}
