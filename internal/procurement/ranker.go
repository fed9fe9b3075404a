// internal/procurement/ranker.go
package procurement

import (
	"sort"

	"github.com/andresuchdata/supplyplan/internal/domain"
)

// RankWeights blends the four supplier metrics into one score. Lower score
// is better.
type RankWeights struct {
	Price       float64
	LeadTime    float64
	Reliability float64
	Risk        float64
}

// DefaultRankWeights balances price, lead time and reliability.
func DefaultRankWeights() RankWeights {
	return RankWeights{Price: 0.30, LeadTime: 0.30, Reliability: 0.30, Risk: 0.10}
}

// EmergencyRankWeights shifts emphasis to lead time and reliability when
// sourcing under a shortage.
func EmergencyRankWeights() RankWeights {
	return RankWeights{Price: 0.10, LeadTime: 0.40, Reliability: 0.40, Risk: 0.10}
}

// Rank scores and orders a supplier pool. Each metric is normalized to
// [0,1] by its maximum across the pool: price, lead time plus lead-time
// variability, unreliability (1 - reliability) and risk score. Pure
// function; the input slice is not modified.
func Rank(offers []domain.SupplierOffer, w RankWeights) []domain.RankedSupplier {
	if len(offers) == 0 {
		return nil
	}

	var maxPrice, maxLead, maxUnrel, maxRisk float64
	for _, o := range offers {
		maxPrice = maxf(maxPrice, o.PricePerUnit)
		maxLead = maxf(maxLead, o.LeadTimeDays+o.LeadTimeStd)
		maxUnrel = maxf(maxUnrel, 1-o.ReliabilityScore)
		maxRisk = maxf(maxRisk, o.RiskScore)
	}

	ranked := make([]domain.RankedSupplier, 0, len(offers))
	for _, o := range offers {
		score := w.Price*norm(o.PricePerUnit, maxPrice) +
			w.LeadTime*norm(o.LeadTimeDays+o.LeadTimeStd, maxLead) +
			w.Reliability*norm(1-o.ReliabilityScore, maxUnrel) +
			w.Risk*norm(o.RiskScore, maxRisk)
		ranked = append(ranked, domain.RankedSupplier{SupplierOffer: o, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score < ranked[j].Score
		}
		return ranked[i].SupplierID < ranked[j].SupplierID
	})

	// Dense rank: equal scores share a rank, the next distinct score takes
	// the following rank.
	rank := 0
	for i := range ranked {
		if i == 0 || ranked[i].Score > ranked[i-1].Score {
			rank++
		}
		ranked[i].Rank = rank
	}

	return ranked
}

func norm(v, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return v / max
}

func maxf(a, b float64) float64 {
	if b > a {
		return b
	}
	return a
}
