package indicator

import (
	"maps"
	"slices"
	"sync"

	"github.com/rxtech-lab/argo-insight/internal/types"
	"github.com/rxtech-lab/argo-insight/pkg/errors"
)

// Registry holds the configured indicator of each type. The calculator reads
// it on every Calculate call, so a Configure applies to later frames only.
// A Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[types.IndicatorType]Indicator
}

// NewRegistry creates a registry holding the given indicators.
// Two indicators with the same name are a configuration error.
func NewRegistry(indicators ...Indicator) (*Registry, error) {
	r := &Registry{entries: make(map[types.IndicatorType]Indicator, len(indicators))}

	for _, ind := range indicators {
		if _, exists := r.entries[ind.Name()]; exists {
			return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "indicator %s registered twice", ind.Name())
		}

		r.entries[ind.Name()] = ind
	}

	return r, nil
}

// Get returns the indicator registered under name.
func (r *Registry) Get(name types.IndicatorType) (Indicator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ind, ok := r.entries[name]

	return ind, ok
}

// Configure passes params to the Config method of the indicator named name.
func (r *Registry) Configure(name types.IndicatorType, params ...any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ind, ok := r.entries[name]
	if !ok {
		return errors.Newf(errors.ErrCodeDataNotFound, "indicator %s is not registered", name)
	}

	if err := ind.Config(params...); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to configure %s", name)
	}

	return nil
}

// Names returns the registered indicator names in lexical order.
func (r *Registry) Names() []types.IndicatorType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.entries))
}

// WarmUp returns the longest warm-up among the registered indicators.
func (r *Registry) WarmUp() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	longest := 0
	for _, ind := range r.entries {
		longest = max(longest, ind.WarmUp())
	}

	return longest
}
