package predictor

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/hirememorey/resilience-basketball-sub004/internal/nba"
	"github.com/hirememorey/resilience-basketball-sub004/pkg/config"
)

// gateNames are the vector sub-features evaluated as hard gates, in
// evaluation order. The soft indicators saturate at 1.0 exactly when the
// underlying value clears its config threshold, so "passed" is value >= 1.
var gateNames = []string{"gates.minutes_gate", "gates.usage_gate", "gates.volume_gate"}

// dependenceFeature is the composite score consumed by the rule table and
// the risk matrix.
const dependenceFeature = "dependence.score"

// Predictor assigns each player-season a discrete archetype: evaluate
// gates, short-circuit to InsufficientData on any missing requirement,
// score with the trained model, then walk the ordered rule table — first
// matching rule wins, and that ordering is the contract.
type Predictor struct {
	cfg    *config.Config
	model  *nba.TrainedModel
	logger *logrus.Logger
}

func NewPredictor(cfg *config.Config, model *nba.TrainedModel, logger *logrus.Logger) *Predictor {
	return &Predictor{cfg: cfg, model: model, logger: logger}
}

// Predict runs the archetype state machine for one player-season. The
// player-season must already carry its stress vector.
func (p *Predictor) Predict(ps *nba.PlayerSeason) (*nba.ArchetypePrediction, error) {
	if p.model == nil {
		return nil, nba.ErrNoPrimaryModel
	}
	if ps.Vector == nil {
		return nil, &nba.MissingDataError{PlayerID: ps.PlayerID, SeasonID: ps.SeasonID, Field: "stress vector"}
	}

	flat := ps.Vector.Flatten()

	gates, gatesOK, err := p.evaluateGates(flat)
	if err != nil {
		return nil, err
	}
	if !gatesOK {
		return insufficient(gates), nil
	}

	sub, err := nba.Subset(flat, p.model.Features)
	if err != nil {
		return nil, err
	}
	values, err := nba.Values(sub)
	if err != nil {
		if nba.IsMissingData(err) {
			// A required model input is absent; guessing here would be
			// worse than admitting it.
			return insufficient(gates), nil
		}
		return nil, err
	}

	score, err := p.model.Score(values)
	if err != nil {
		return nil, err
	}

	dep, err := nba.Subset(flat, []string{dependenceFeature})
	if err != nil {
		return nil, err
	}
	if dep[0].Missing {
		return insufficient(gates), nil
	}
	dependence := dep[0].Value

	archetype := p.applyRules(score, dependence, gates)
	return &nba.ArchetypePrediction{
		Archetype:  archetype,
		Score:      score,
		Confidence: p.confidence(score),
		Dependence: dependence,
		Gates:      gates,
	}, nil
}

// evaluateGates reads the gate indicators off the flattened vector. Any
// missing gate feature forces the InsufficientData short-circuit
// regardless of what the model would have said.
func (p *Predictor) evaluateGates(flat []nba.FeatureValue) ([]nba.GateState, bool, error) {
	sub, err := nba.Subset(flat, gateNames)
	if err != nil {
		return nil, false, err
	}

	thresholds := map[string]float64{
		"gates.minutes_gate": p.cfg.MinSeasonMinutes,
		"gates.usage_gate":   p.cfg.EliteUsageRate,
		"gates.volume_gate":  p.cfg.MinSeasonPossessions,
	}

	states := make([]nba.GateState, 0, len(sub))
	complete := true
	for _, f := range sub {
		state := nba.GateState{
			Name:      f.Name,
			Value:     f.Value,
			Threshold: thresholds[f.Name],
			Missing:   f.Missing,
			Passed:    !f.Missing && f.Value >= 1,
		}
		if f.Missing {
			complete = false
		}
		states = append(states, state)
	}
	return states, complete, nil
}

// applyRules is the ordered archetype rule table.
func (p *Predictor) applyRules(score, dependence float64, gates []nba.GateState) nba.Archetype {
	eliteEligible := true
	for _, g := range gates {
		if !g.Passed {
			eliteEligible = false
			break
		}
	}

	switch {
	case eliteEligible && score >= p.cfg.EliteScoreMin && dependence <= p.cfg.DependenceCeiling:
		return nba.ArchetypeStableElite
	case eliteEligible && score >= p.cfg.EliteScoreMin:
		return nba.ArchetypeVolatileElite
	case !eliteEligible && score >= p.cfg.LatentScoreMin:
		return nba.ArchetypeLatentCandidate
	case score < p.cfg.FragileScoreMax:
		return nba.ArchetypeFragile
	default:
		return nba.ArchetypeRoleDependent
	}
}

// confidence is the score margin to the nearest rule boundary.
func (p *Predictor) confidence(score float64) float64 {
	margin := math.Inf(1)
	for _, boundary := range []float64{p.cfg.EliteScoreMin, p.cfg.LatentScoreMin, p.cfg.FragileScoreMax} {
		margin = math.Min(margin, math.Abs(score-boundary))
	}
	return margin
}

func insufficient(gates []nba.GateState) *nba.ArchetypePrediction {
	return &nba.ArchetypePrediction{
		Archetype: nba.ArchetypeInsufficientData,
		Gates:     gates,
	}
}
