// internal/procurement/policy.go
package procurement

// Mode selects which optimization policy applies.
type Mode string

const (
	ModeNormal    Mode = "normal"
	ModeEmergency Mode = "emergency"
)

// Policy is the tagged configuration the optimizer runs under. Normal and
// emergency are the same model with different weights, never separate
// optimizer implementations.
type Policy struct {
	Mode Mode

	// MaxShare caps any single supplier at this fraction of the required
	// quantity (concentration control).
	MaxShare float64

	ShortagePenaltyPerUnit float64
	ExpiryPenaltyRate      float64

	WeightProcurement float64
	WeightExpiry      float64
	WeightShortage    float64
}

// NormalPolicy is the price-sensitive default.
func NormalPolicy() Policy {
	return Policy{
		Mode:                   ModeNormal,
		MaxShare:               0.70,
		ShortagePenaltyPerUnit: 5.0,
		ExpiryPenaltyRate:      0.25,
		WeightProcurement:      1.0,
		WeightExpiry:           1.0,
		WeightShortage:         1.0,
	}
}

// EmergencyPolicy trades cost and waste for speed of fulfillment: a much
// higher shortage penalty, a tighter exposure cap and a downweighted expiry
// term.
func EmergencyPolicy() Policy {
	return Policy{
		Mode:                   ModeEmergency,
		MaxShare:               0.50,
		ShortagePenaltyPerUnit: 50.0,
		ExpiryPenaltyRate:      0.10,
		WeightProcurement:      0.6,
		WeightExpiry:           0.3,
		WeightShortage:         3.0,
	}
}

// PolicyFor returns the policy for a mode, defaulting to normal.
func PolicyFor(mode Mode) Policy {
	if mode == ModeEmergency {
		return EmergencyPolicy()
	}
	return NormalPolicy()
}
