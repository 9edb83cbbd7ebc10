// Package simulation defines the contract between the sweep engine and the
// external stochastic simulation runner: model descriptors, serialized
// simulation units, and the comparison outcome shapes read back during
// aggregation. The trajectory integration itself happens out of process.
package simulation

// Mode selects how a model family wires its perturbation-sensitive
// elements.
type Mode string

const (
	// ModePromoters duplicates each promoter set and scales the perturbed
	// copy by the severity parameter.
	ModePromoters Mode = "promoters"

	// ModeRepressors adds perturbation-sensitive negative feedback scaled
	// by the severity parameter.
	ModeRepressors Mode = "repressors"
)

// Reaction is one kinetic step in a model's reaction network. Kind is one
// of "decay", "activation", "promoter", or "feedback"; Perturbed marks
// reactions whose rate is sensitive to the simulated perturbation. A
// non-zero Hill order tells the runner to use Hill kinetics for the step.
type Reaction struct {
	Kind      string  `json:"kind"`
	Target    string  `json:"target"`
	Rate      float64 `json:"rate"`
	Hill      float64 `json:"hill,omitempty"`
	Perturbed bool    `json:"perturbed"`
}

// Model is the reaction-network descriptor handed to the external runner.
// The sweep engine treats it as opaque beyond construction.
type Model struct {
	Family    string     `json:"family"`
	Species   []string   `json:"species"`
	Reactions []Reaction `json:"reactions"`
}

func (m *Model) addDecay(target string, rate float64) {
	m.Reactions = append(m.Reactions, Reaction{Kind: "decay", Target: target, Rate: rate})
}

func (m *Model) addActivation(target string, rate float64) {
	m.Reactions = append(m.Reactions, Reaction{Kind: "activation", Target: target, Rate: rate})
}

func (m *Model) addPromoter(target string, rate float64, perturbed bool) {
	m.Reactions = append(m.Reactions, Reaction{Kind: "promoter", Target: target, Rate: rate, Perturbed: perturbed})
}

func (m *Model) addHillPromoter(target string, rate, order float64, perturbed bool) {
	m.Reactions = append(m.Reactions, Reaction{Kind: "promoter", Target: target, Rate: rate, Hill: order, Perturbed: perturbed})
}

func (m *Model) addFeedback(target string, rate float64, perturbed bool) {
	m.Reactions = append(m.Reactions, Reaction{Kind: "feedback", Target: target, Rate: rate, Perturbed: perturbed})
}
