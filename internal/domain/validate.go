package domain

import (
	"fmt"
	"math"
)

// Validate checks the DemandSeries invariants: strictly increasing dates and
// non-negative quantities. Negative forecasts are a data-quality problem
// upstream and are rejected here rather than silently clamped.
func (s DemandSeries) Validate() error {
	for i, p := range s.Points {
		if p.Quantity < 0 {
			return fmt.Errorf("demand series %s/%s: negative quantity %.2f at %s",
				s.Key.Facility, s.Key.Item, p.Quantity, p.Date.Format("2006-01-02"))
		}
		if i > 0 && !s.Points[i-1].Date.Before(p.Date) {
			return fmt.Errorf("demand series %s/%s: dates not strictly increasing at index %d",
				s.Key.Facility, s.Key.Item, i)
		}
	}
	return nil
}

// Mean returns the average forecast quantity, 0 for an empty series.
func (s DemandSeries) Mean() float64 {
	if len(s.Points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range s.Points {
		sum += p.Quantity
	}
	return sum / float64(len(s.Points))
}

// StdDev returns the sample standard deviation (n-1 denominator) of the
// forecast quantities, 0 when the series has one point or fewer. The sample
// form matches the upstream forecaster's statistics.
func (s DemandSeries) StdDev() float64 {
	n := len(s.Points)
	if n <= 1 {
		return 0
	}
	mean := s.Mean()
	var ss float64
	for _, p := range s.Points {
		d := p.Quantity - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}
