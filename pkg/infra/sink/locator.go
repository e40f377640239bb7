package sink

import (
	"fmt"

	"github.com/takanori-w/lifeplan-navigator/pkg/audit"
)

// Spec describes a requested sink by name plus its free-form settings.
type Spec struct {
	Name     string
	Settings map[string]interface{}
}

type Locator struct {
	sinks map[string]audit.Sink
}

func NewLocator(opts ...LocatorOption) *Locator {
	l := &Locator{
		sinks: make(map[string]audit.Sink),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Locator) GetSink(spec Spec) (audit.Sink, error) {
	base, ok := l.sinks[spec.Name]
	if !ok {
		return nil, fmt.Errorf("unknown sink: %s", spec.Name)
	}
	if err := base.ValidateConfig(spec.Settings); err != nil {
		return nil, err
	}
	s, err := base.WithSettings(spec.Settings)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (l *Locator) ValidateSink(spec Spec) error {
	base, ok := l.sinks[spec.Name]
	if !ok {
		return fmt.Errorf("unknown sink: %s", spec.Name)
	}
	return base.ValidateConfig(spec.Settings)
}
