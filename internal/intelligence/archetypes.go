package intelligence

import "Voxmill/internal/domain/models"

// dimRange is an inclusive ideal range on one fingerprint dimension. A value
// inside the range scores a perfect fit of 1; outside, the fit decays
// linearly with distance measured in range widths.
type dimRange struct {
	Lo, Hi float64
}

func (r dimRange) fit(v float64) float64 {
	if v >= r.Lo && v <= r.Hi {
		return 1
	}
	width := r.Hi - r.Lo
	if width <= 0 {
		width = 1
	}
	var dist float64
	if v < r.Lo {
		dist = r.Lo - v
	} else {
		dist = v - r.Hi
	}
	f := 1 - dist/width
	if f < 0 {
		return 0
	}
	return f
}

// Archetype is one behavioral template agents are classified against.
type Archetype struct {
	Name        string
	Description string

	Initiation dimRange // initiation rate, 0..1
	Speed      dimRange // avg response days
	Magnitude  dimRange // magnitude aggressiveness ratio
	Premium    dimRange // premium positioning, % vs market

	// Reliability is how predictable agents of this archetype have
	// historically been, used as the base for prediction_reliability.
	Reliability float64

	// BaseDistribution is the unadjusted probability over response
	// actions for a neutral scenario. Sums to 1.
	BaseDistribution map[models.ResponseAction]float64
}

// Dimension weights for the fit score. Sum to 1.
const (
	weightInitiation = 0.30
	weightSpeed      = 0.25
	weightMagnitude  = 0.25
	weightPremium    = 0.20
)

// Fit scores a fingerprint against the archetype, 0..1.
func (a Archetype) Fit(fp models.FeatureVector) float64 {
	return weightInitiation*a.Initiation.fit(fp.InitiationRate) +
		weightSpeed*a.Speed.fit(fp.AvgResponseDays) +
		weightMagnitude*a.Magnitude.fit(fp.MagnitudeAggressiveness) +
		weightPremium*a.Premium.fit(fp.PremiumPositioning)
}

// Catalog returns the eight behavioral archetypes in canonical order. The
// ranges and reliabilities are production calibrations and are not tunable
// at runtime.
func Catalog() []Archetype {
	return []Archetype{
		{
			Name:        "market_leader",
			Description: "initiates market-wide moves, others follow",
			Initiation:  dimRange{0.6, 1.0},
			Speed:       dimRange{0, 15},
			Magnitude:   dimRange{1.0, 2.0},
			Premium:     dimRange{-5, 10},
			Reliability: 0.72,
			BaseDistribution: map[models.ResponseAction]float64{
				models.ActionNone:       0.30,
				models.ActionMinimal:    0.15,
				models.ActionMatch:      0.20,
				models.ActionAggressive: 0.35,
			},
		},
		{
			Name:        "momentum_follower",
			Description: "waits for the market to move, then matches it",
			Initiation:  dimRange{0, 0.3},
			Speed:       dimRange{7, 14},
			Magnitude:   dimRange{0.7, 1.1},
			Premium:     dimRange{-5, 5},
			Reliability: 0.85,
			BaseDistribution: map[models.ResponseAction]float64{
				models.ActionNone:       0.15,
				models.ActionMinimal:    0.15,
				models.ActionMatch:      0.55,
				models.ActionAggressive: 0.15,
			},
		},
		{
			Name:        "premium_holder",
			Description: "holds above-market pricing, rarely reacts",
			Initiation:  dimRange{0, 0.4},
			Speed:       dimRange{21, 45},
			Magnitude:   dimRange{0.2, 0.6},
			Premium:     dimRange{8, 20},
			Reliability: 0.91,
			BaseDistribution: map[models.ResponseAction]float64{
				models.ActionNone:       0.60,
				models.ActionMinimal:    0.25,
				models.ActionMatch:      0.10,
				models.ActionAggressive: 0.05,
			},
		},
		{
			Name:        "opportunist",
			Description: "undercuts fast when movement creates an opening",
			Initiation:  dimRange{0.3, 0.7},
			Speed:       dimRange{3, 10},
			Magnitude:   dimRange{1.1, 1.8},
			Premium:     dimRange{-15, 0},
			Reliability: 0.68,
			BaseDistribution: map[models.ResponseAction]float64{
				models.ActionNone:       0.10,
				models.ActionMinimal:    0.10,
				models.ActionMatch:      0.30,
				models.ActionAggressive: 0.50,
			},
		},
		{
			Name:        "institutional",
			Description: "large, slow, policy-driven repricing cycles",
			Initiation:  dimRange{0.1, 0.5},
			Speed:       dimRange{30, 90},
			Magnitude:   dimRange{0.5, 0.9},
			Premium:     dimRange{-3, 8},
			Reliability: 0.88,
			BaseDistribution: map[models.ResponseAction]float64{
				models.ActionNone:       0.35,
				models.ActionMinimal:    0.30,
				models.ActionMatch:      0.30,
				models.ActionAggressive: 0.05,
			},
		},
		{
			Name:        "stable_operator",
			Description: "measured mid-market moves, low variance",
			Initiation:  dimRange{0.2, 0.6},
			Speed:       dimRange{10, 25},
			Magnitude:   dimRange{0.6, 1.0},
			Premium:     dimRange{-2, 6},
			Reliability: 0.80,
			BaseDistribution: map[models.ResponseAction]float64{
				models.ActionNone:       0.30,
				models.ActionMinimal:    0.30,
				models.ActionMatch:      0.35,
				models.ActionAggressive: 0.05,
			},
		},
		{
			Name:        "tactical_opportunist",
			Description: "sharp, fast, oversized strikes with erratic timing",
			Initiation:  dimRange{0.4, 0.8},
			Speed:       dimRange{2, 8},
			Magnitude:   dimRange{1.2, 2.5},
			Premium:     dimRange{-10, 5},
			Reliability: 0.64,
			BaseDistribution: map[models.ResponseAction]float64{
				models.ActionNone:       0.10,
				models.ActionMinimal:    0.15,
				models.ActionMatch:      0.30,
				models.ActionAggressive: 0.45,
			},
		},
		{
			Name:        "defensive_discounter",
			Description: "discounts below market to defend inventory turnover",
			Initiation:  dimRange{0, 0.3},
			Speed:       dimRange{5, 20},
			Magnitude:   dimRange{0.8, 1.3},
			Premium:     dimRange{-12, -2},
			Reliability: 0.74,
			BaseDistribution: map[models.ResponseAction]float64{
				models.ActionNone:       0.20,
				models.ActionMinimal:    0.35,
				models.ActionMatch:      0.35,
				models.ActionAggressive: 0.10,
			},
		},
	}
}

// ArchetypeByName looks up a catalog entry, second result false when absent.
func ArchetypeByName(name string) (Archetype, bool) {
	for _, a := range Catalog() {
		if a.Name == name {
			return a, true
		}
	}
	return Archetype{}, false
}
