package wizard

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrStepNotFound is returned for a slug that is not registered
	ErrStepNotFound = errors.New("wizard step not found")
	// ErrDuplicateStep is returned when a slug is registered twice
	ErrDuplicateStep = errors.New("wizard step already registered")
)

// Registry holds wizard steps in registration order
type Registry struct {
	mu    sync.RWMutex
	steps map[string]Step
	order []string
}

// NewRegistry creates an empty step registry
func NewRegistry() *Registry {
	return &Registry{
		steps: make(map[string]Step),
		order: make([]string, 0),
	}
}

// NewRegistryFromSteps registers steps in order after passing them through filter.
// A nil filter keeps the list unchanged.
func NewRegistryFromSteps(steps []Step, filter StepsFilter) (*Registry, error) {
	if filter != nil {
		steps = filter(append([]Step(nil), steps...))
	}

	r := NewRegistry()
	for _, step := range steps {
		if err := r.Register(step); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register appends a step to the progression
func (r *Registry) Register(step Step) error {
	if step.Slug == "" {
		return fmt.Errorf("step slug cannot be empty")
	}
	if step.View == nil {
		return fmt.Errorf("step %s has no view", step.Slug)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.steps[step.Slug]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateStep, step.Slug)
	}

	r.steps[step.Slug] = step
	r.order = append(r.order, step.Slug)
	return nil
}

// Get retrieves a step by slug
func (r *Registry) Get(slug string) (Step, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	step, exists := r.steps[slug]
	if !exists {
		return Step{}, fmt.Errorf("%w: %s", ErrStepNotFound, slug)
	}
	return step, nil
}

// Has checks if a step is registered
func (r *Registry) Has(slug string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.steps[slug]
	return exists
}

// List returns all steps in progression order
func (r *Registry) List() []Step {
	r.mu.RLock()
	defer r.mu.RUnlock()

	steps := make([]Step, 0, len(r.order))
	for _, slug := range r.order {
		steps = append(steps, r.steps[slug])
	}
	return steps
}

// Slugs returns all step slugs in progression order
func (r *Registry) Slugs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slugs := make([]string, len(r.order))
	copy(slugs, r.order)
	return slugs
}

// Index returns the position of slug in the progression, or -1
func (r *Registry) Index(slug string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i, s := range r.order {
		if s == slug {
			return i
		}
	}
	return -1
}

// First returns the first step
func (r *Registry) First() (Step, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.order) == 0 {
		return Step{}, false
	}
	return r.steps[r.order[0]], true
}

// Last returns the final step
func (r *Registry) Last() (Step, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.order) == 0 {
		return Step{}, false
	}
	return r.steps[r.order[len(r.order)-1]], true
}

// Count returns the number of registered steps
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// Clone returns an independent copy of the registry
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c := NewRegistry()
	for _, slug := range r.order {
		c.steps[slug] = r.steps[slug]
		c.order = append(c.order, slug)
	}
	return c
}

// next returns the slug following slug. found is false for an unknown slug, last for the final step.
func (r *Registry) next(slug string) (next string, found bool, last bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i, s := range r.order {
		if s != slug {
			continue
		}
		if i == len(r.order)-1 {
			return "", true, true
		}
		return r.order[i+1], true, false
	}
	return "", false, false
}
