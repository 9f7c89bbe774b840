// Package matching scores property/buyer pairs and produces the matches
// worth persisting. The generator never mutates matches that already exist;
// it only decides which new pairs to create.
package matching

import (
	"go.uber.org/zap"

	"github.com/nadlan-crm/brokerctl/internal/crm"
)

// Result describes one generation run.
type Result struct {
	Pairs    int
	Existing int
	Created  *crm.Matches
}

// Generate scores every (property, buyer) pair not present in existing and
// returns the pairs scoring at least MinScore. The existing set is extended
// in place as pairs are accepted, so no pair is produced twice even within
// the same run. Iteration order follows the input slices, which makes the
// output deterministic for identical inputs.
func Generate(properties *crm.Properties, buyers *crm.Buyers, existing crm.PairKeySet, logger *zap.Logger) *Result {
	return generate(properties, buyers, existing, logger, func(p *crm.Property, b *crm.Buyer) (int, bool) {
		score := Score(p, b)
		return score, score >= MinScore
	})
}

// GenerateStrict is the stricter variant used by the alerting flow: every
// criterion must hold exactly and the score is fixed at StrictScore.
func GenerateStrict(properties *crm.Properties, buyers *crm.Buyers, existing crm.PairKeySet, logger *zap.Logger) *Result {
	return generate(properties, buyers, existing, logger, func(p *crm.Property, b *crm.Buyer) (int, bool) {
		return StrictScore, strictEligible(p, b)
	})
}

func generate(properties *crm.Properties, buyers *crm.Buyers, existing crm.PairKeySet, logger *zap.Logger, score func(*crm.Property, *crm.Buyer) (int, bool)) *Result {
	result := &Result{Created: &crm.Matches{}}

	for _, buyer := range buyers.Items {
		for _, property := range properties.Items {
			result.Pairs++

			key := crm.PairKey(property.ID, buyer.ID)
			if existing.Has(key) {
				result.Existing++
				continue
			}

			points, eligible := score(property, buyer)
			if !eligible {
				continue
			}

			result.Created.Items = append(result.Created.Items, &crm.Match{
				PropertyID: property.ID,
				BuyerID:    buyer.ID,
				MatchScore: points,
				Status:     crm.StatusMatched,
			})
			existing.Add(key)

			logger.Debug("pair accepted",
				zap.Int("property_id", property.ID),
				zap.Int("buyer_id", buyer.ID),
				zap.Int("score", points),
			)
		}
	}

	return result
}
