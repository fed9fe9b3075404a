package procurement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/supplyplan/internal/domain"
)

func offer(id string, price, lead, rel float64) domain.SupplierOffer {
	return domain.SupplierOffer{
		SupplierID:        id,
		SupplierName:      "Supplier " + id,
		PricePerUnit:      price,
		LeadTimeDays:      lead,
		ReliabilityScore:  rel,
		CapacityPerPeriod: 10000,
	}
}

func TestRank_DominantSupplierFirst(t *testing.T) {
	offers := []domain.SupplierOffer{
		offer("S2", 5, 10, 0.80),
		offer("S1", 1, 2, 0.99),
		offer("S3", 8, 15, 0.70),
	}

	ranked := Rank(offers, DefaultRankWeights())
	require.Len(t, ranked, 3)

	assert.Equal(t, "S1", ranked[0].SupplierID)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "S3", ranked[2].SupplierID)
	assert.Less(t, ranked[0].Score, ranked[1].Score)
	assert.Less(t, ranked[1].Score, ranked[2].Score)
}

func TestRank_DenseRankOnTies(t *testing.T) {
	offers := []domain.SupplierOffer{
		offer("S2", 3, 5, 0.9),
		offer("S1", 3, 5, 0.9),
		offer("S3", 9, 20, 0.5),
	}

	ranked := Rank(offers, DefaultRankWeights())
	require.Len(t, ranked, 3)

	// Identical offers share rank 1, id breaks the ordering tie.
	assert.Equal(t, "S1", ranked[0].SupplierID)
	assert.Equal(t, "S2", ranked[1].SupplierID)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 1, ranked[1].Rank)
	assert.Equal(t, 2, ranked[2].Rank)
}

func TestRank_EmergencyWeightsFlipOrdering(t *testing.T) {
	// Cheap-but-slow beats fast-but-expensive on price emphasis, and loses
	// once lead time and reliability dominate.
	cheapSlow := offer("CHEAP", 1, 10, 0.85)
	fastPricey := offer("FAST", 10, 8, 0.90)
	offers := []domain.SupplierOffer{cheapSlow, fastPricey}

	normal := Rank(offers, DefaultRankWeights())
	assert.Equal(t, "CHEAP", normal[0].SupplierID)

	emergency := Rank(offers, EmergencyRankWeights())
	assert.Equal(t, "FAST", emergency[0].SupplierID)
}

func TestRank_LeadTimeVariabilityCounts(t *testing.T) {
	steady := offer("STEADY", 5, 10, 0.9)
	jittery := offer("JITTERY", 5, 10, 0.9)
	jittery.LeadTimeStd = 6

	ranked := Rank([]domain.SupplierOffer{jittery, steady}, DefaultRankWeights())
	assert.Equal(t, "STEADY", ranked[0].SupplierID)
}

func TestRank_EmptyPool(t *testing.T) {
	assert.Nil(t, Rank(nil, DefaultRankWeights()))
}
