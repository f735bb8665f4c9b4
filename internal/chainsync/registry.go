package chainsync

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnregisteredDefault is returned by NewRegistry when the default
	// strategy's mode is absent from the candidate set. Fatal at startup.
	ErrUnregisteredDefault = errors.New("default sync strategy not registered")

	// ErrAmbiguousStrategy is returned by Resolve when two or more
	// registered strategies match the configured mode. This signals a
	// registration defect, not user error.
	ErrAmbiguousStrategy = errors.New("ambiguous sync strategy")
)

// Registry holds the candidate strategies and the configured default. It is
// assembled once at configuration time.
type Registry struct {
	strategies      []Strategy
	defaultStrategy Strategy
}

// NewRegistry validates that the default strategy's mode is registered among
// the candidates and returns the registry.
func NewRegistry(strategies []Strategy, defaultStrategy Strategy) (*Registry, error) {
	found := false
	for _, s := range strategies {
		if s.Mode() == defaultStrategy.Mode() {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: mode %q not among candidates (%s)",
			ErrUnregisteredDefault, defaultStrategy.Mode(), strings.Join(modes(strategies), ", "))
	}

	return &Registry{
		strategies:      strategies,
		defaultStrategy: defaultStrategy,
	}, nil
}

// DefaultRegistry returns a registry of the built-in strategies with full
// sync as the default. Used by the CLI to derive the --sync-mode choice set.
func DefaultRegistry(strategies []Strategy) (*Registry, error) {
	for _, s := range strategies {
		if s.Mode() == ModeFull {
			return NewRegistry(strategies, s)
		}
	}
	return nil, fmt.Errorf("no strategy registered for mode %q", ModeFull)
}

// Modes returns the registered mode identifiers, in registration order.
func (r *Registry) Modes() []string {
	return modes(r.strategies)
}

// DefaultMode returns the configured default strategy's mode.
func (r *Registry) DefaultMode() string {
	return r.defaultStrategy.Mode()
}

// Resolve matches the configured mode, case-insensitively, against every
// candidate. Exactly one match returns that strategy. Two or more matches
// is a registration defect and returns an error. Zero matches returns
// (nil, nil): the caller is expected to log and run without synchronization.
func (r *Registry) Resolve(configuredMode string) (Strategy, error) {
	var active Strategy
	for _, s := range r.strategies {
		if !strings.EqualFold(s.Mode(), configuredMode) {
			continue
		}
		if active != nil {
			return nil, fmt.Errorf("%w: both %q and %q match mode %q",
				ErrAmbiguousStrategy, active.Mode(), s.Mode(), configuredMode)
		}
		active = s
	}
	return active, nil
}

func modes(strategies []Strategy) []string {
	out := make([]string, len(strategies))
	for i, s := range strategies {
		out[i] = s.Mode()
	}
	return out
}
