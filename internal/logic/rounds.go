package logic

import (
	"github.com/patrickwarner/openmediate/internal/models"
	"github.com/patrickwarner/openmediate/internal/schema"
)

// FilterRounds intersects each round's adapter lists with the adapters the
// requesting SDK actually ships. A round survives only if at least one of its
// waterfall demands survives; rounds reduced to zero demands are dropped
// rather than emitted empty. Order is preserved on both axes: rounds keep the
// configuration order and each demand list keeps its original order.
func FilterRounds(rounds []models.Round, adapters schema.Adapters) []models.Round {
	out := make([]models.Round, 0, len(rounds))
	for _, round := range rounds {
		demands := intersect(round.Demands, adapters)
		if len(demands) == 0 {
			continue
		}
		round.Demands = demands
		round.Bidding = intersect(round.Bidding, adapters)
		out = append(out, round)
	}
	return out
}

// intersect keeps the names the SDK declared, preserving input order.
func intersect(names []string, adapters schema.Adapters) []string {
	var out []string
	for _, name := range names {
		if adapters.Has(name) {
			out = append(out, name)
		}
	}
	return out
}
