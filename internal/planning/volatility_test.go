package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andresuchdata/supplyplan/internal/domain"
)

func TestClassifyVolatility(t *testing.T) {
	t.Run("constant demand is smooth", func(t *testing.T) {
		res := ClassifyVolatility(makeSeries(t, 100, 100, 100, 100))
		assert.Equal(t, domain.VolatilitySmooth, res.Class)
		assert.InDelta(t, 0, res.CV, 1e-9)
	})

	t.Run("moderate variation is seasonal", func(t *testing.T) {
		// mean 15, sample std ~7.07, cv ~0.47
		res := ClassifyVolatility(makeSeries(t, 10, 20))
		assert.Equal(t, domain.VolatilitySeasonal, res.Class)
		assert.InDelta(t, 0.4714, res.CV, 1e-3)
	})

	t.Run("wild variation is erratic", func(t *testing.T) {
		// mean 15, sample std ~21.2, cv ~1.41
		res := ClassifyVolatility(makeSeries(t, 0, 30))
		assert.Equal(t, domain.VolatilityErratic, res.Class)
	})

	t.Run("zero mean is unknown", func(t *testing.T) {
		res := ClassifyVolatility(makeSeries(t, 0, 0, 0))
		assert.Equal(t, domain.VolatilityUnknown, res.Class)
	})

	t.Run("empty series is unknown", func(t *testing.T) {
		res := ClassifyVolatility(domain.DemandSeries{Key: domain.Key{Facility: "DC1", Item: "X"}})
		assert.Equal(t, domain.VolatilityUnknown, res.Class)
	})
}
