package simulation

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownFamily is returned when a model family name has no registry
// entry. Callers treat it as a configuration error.
var ErrUnknownFamily = errors.New("unknown model family")

// Family describes one registered model family: its parameter labels, the
// base point of its parameter space (log10 values), and the builder that
// maps a sampled parameter vector to a Model.
type Family struct {
	Name        string
	Description string
	Labels      []string
	Base        []float64
	// Build constructs a model from one sampled parameter vector.
	Build func(params []float64, mode Mode) (*Model, error)
}

// Dim returns the dimensionality of the family's parameter space.
func (f *Family) Dim() int { return len(f.Base) }

// Registry holds registered model families.
type Registry struct {
	mu       sync.RWMutex
	families map[string]*Family
}

// NewRegistry creates an empty model family registry.
func NewRegistry() *Registry {
	return &Registry{families: make(map[string]*Family)}
}

// Register adds a family to the registry. An existing family with the same
// name is replaced.
func (r *Registry) Register(f *Family) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.families[f.Name] = f
}

// Get retrieves a family by name. It returns ErrUnknownFamily if no family
// with that name is registered.
func (r *Registry) Get(name string) (*Family, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.families[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, name)
	}
	return f, nil
}

// List returns the registered family names sorted alphabetically.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.families))
	for name := range r.families {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry pre-loaded with the built-in model
// families.
func DefaultRegistry() *Registry {
	reg := NewRegistry()

	reg.Register(&Family{
		Name:        "simple",
		Description: "Single protein state with linear synthesis and decay.",
		Labels:      []string{"k", "gamma", "severity"},
		Base:        []float64{0, -3, -1},
		Build:       buildSimple,
	})

	reg.Register(&Family{
		Name:        "linear",
		Description: "Gene, transcript and protein states with linear propensities.",
		Labels:      []string{"k_0", "k_1", "k_2", "gamma_0", "gamma_1", "gamma_2", "severity"},
		Base:        []float64{0, 0, 0, 0, -2, -3, -1},
		Build:       buildLinear,
	})

	reg.Register(&Family{
		Name:        "hill",
		Description: "Transcript and protein states with Hill-type transcription kinetics.",
		Labels:      []string{"H", "k_R", "k_P", "gamma_R", "gamma_P", "severity"},
		Base:        []float64{0, 0, 0, -2, -3, -1},
		Build:       buildHill,
	})

	reg.Register(&Family{
		Name:        "twostate",
		Description: "Two-state gene activation with transcript and protein states.",
		Labels:      []string{"k_G", "k_R", "k_P", "gamma_G", "gamma_R", "gamma_P", "severity"},
		Base:        []float64{0, 0, 0, -1, -2, -3, -1},
		Build:       buildTwoState,
	})

	return reg
}

func checkDim(family string, params []float64, want int) error {
	if len(params) != want {
		return fmt.Errorf("family %q expects %d parameters, got %d", family, want, len(params))
	}
	return nil
}

// buildSimple maps (k, gamma, severity) to a single-species model.
func buildSimple(p []float64, mode Mode) (*Model, error) {
	if err := checkDim("simple", p, 3); err != nil {
		return nil, err
	}
	k, g, severity := p[0], p[1], p[2]

	m := &Model{Family: "simple", Species: []string{"X"}}
	m.addDecay("X", g)

	switch mode {
	case ModePromoters:
		m.addPromoter("X", k, false)
		m.addPromoter("X", k*severity, true)
	case ModeRepressors:
		m.addActivation("X", k)
		m.addFeedback("X", severity*g, true)
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
	return m, nil
}

// buildLinear maps (k0..k2, g0..g2, severity) to a gene/transcript/protein
// cascade with linear propensities.
func buildLinear(p []float64, mode Mode) (*Model, error) {
	if err := checkDim("linear", p, 7); err != nil {
		return nil, err
	}
	k0, k1, k2 := p[0], p[1], p[2]
	g0, g1, g2 := p[3], p[4], p[5]
	severity := p[6]

	m := &Model{Family: "linear", Species: []string{"G", "R", "P"}}
	m.addDecay("G", g0)
	m.addDecay("R", g1)
	m.addDecay("P", g2)

	switch mode {
	case ModePromoters:
		for _, s := range []struct {
			target string
			rate   float64
		}{{"G", k0}, {"R", k1}, {"P", k2}} {
			m.addPromoter(s.target, s.rate, false)
			m.addPromoter(s.target, s.rate*severity, true)
		}
	case ModeRepressors:
		m.addActivation("G", k0)
		m.addActivation("R", k1)
		m.addActivation("P", k2)
		m.addFeedback("G", severity*g0, true)
		m.addFeedback("R", severity*g1, true)
		m.addFeedback("P", severity*g2, true)
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
	return m, nil
}

// buildHill maps (H, kR, kP, gR, gP, severity) to a transcript/protein
// model with Hill-type transcription. Repressor mode has no defined
// feedback topology for this family.
func buildHill(p []float64, mode Mode) (*Model, error) {
	if err := checkDim("hill", p, 6); err != nil {
		return nil, err
	}
	h, kR, kP := p[0], p[1], p[2]
	gR, gP := p[3], p[4]
	severity := p[5]

	m := &Model{Family: "hill", Species: []string{"R", "P"}}
	m.addDecay("R", gR)
	m.addDecay("P", gP)

	switch mode {
	case ModePromoters:
		m.addHillPromoter("R", kR, h, false)
		m.addHillPromoter("R", kR*severity, h, true)
		m.addPromoter("P", kP, false)
		m.addPromoter("P", kP*severity, true)
	case ModeRepressors:
		return nil, fmt.Errorf("family %q does not support mode %q", "hill", mode)
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
	return m, nil
}

// buildTwoState maps (kG, kR, kP, gG, gR, gP, severity) to a two-state
// gene activation model.
func buildTwoState(p []float64, mode Mode) (*Model, error) {
	if err := checkDim("twostate", p, 7); err != nil {
		return nil, err
	}
	kG, kR, kP := p[0], p[1], p[2]
	gG, gR, gP := p[3], p[4], p[5]
	severity := p[6]

	m := &Model{Family: "twostate", Species: []string{"G", "R", "P"}}
	m.addDecay("G", gG)
	m.addDecay("R", gR)
	m.addDecay("P", gP)

	switch mode {
	case ModePromoters:
		for _, s := range []struct {
			target string
			rate   float64
		}{{"G", kG}, {"R", kR}, {"P", kP}} {
			m.addPromoter(s.target, s.rate, false)
			m.addPromoter(s.target, s.rate*severity, true)
		}
	case ModeRepressors:
		m.addActivation("G", kG)
		m.addActivation("R", kR)
		m.addActivation("P", kP)
		m.addFeedback("G", severity*gG, true)
		m.addFeedback("R", severity*gR, true)
		m.addFeedback("P", severity*gP, true)
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
	return m, nil
}
