package nba

// Archetype is a discrete resilience pattern. Closed set: extended only by
// design change, never at runtime.
type Archetype string

const (
	ArchetypeStableElite      Archetype = "stable_elite"
	ArchetypeVolatileElite    Archetype = "volatile_elite"
	ArchetypeRoleDependent    Archetype = "role_dependent"
	ArchetypeFragile          Archetype = "fragile"
	ArchetypeLatentCandidate  Archetype = "latent_candidate"
	ArchetypeInsufficientData Archetype = "insufficient_data"
)

// ArchetypeCatalog enumerates every valid archetype in declaration order.
var ArchetypeCatalog = []Archetype{
	ArchetypeStableElite,
	ArchetypeVolatileElite,
	ArchetypeRoleDependent,
	ArchetypeFragile,
	ArchetypeLatentCandidate,
	ArchetypeInsufficientData,
}

// ValidArchetype reports whether a belongs to the catalog.
func ValidArchetype(a Archetype) bool {
	for _, c := range ArchetypeCatalog {
		if c == a {
			return true
		}
	}
	return false
}

// GateState is the evaluated outcome of one deterministic gate.
type GateState struct {
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
	Passed    bool    `json:"passed"`
	Missing   bool    `json:"missing"`
}

// ArchetypePrediction is the predictor's output for one player-season:
// the assigned archetype, the continuous model score that produced it, the
// score margin to the nearest rule boundary, and the gate states that
// contributed.
type ArchetypePrediction struct {
	Archetype  Archetype   `json:"archetype"`
	Score      float64     `json:"score"`
	Confidence float64     `json:"confidence"`
	Dependence float64     `json:"dependence"`
	Gates      []GateState `json:"gates"`
}
