package revenue

// Multiplier bounds. A contributor's payout weight never drops to zero and
// never exceeds 1.5x, regardless of score or penalty count.
const (
	MinMultiplier = 0.1
	MaxMultiplier = 1.5

	baseMultiplier    = 0.5
	correctionPenalty = 0.05
	disputePenalty    = 0.10
)

// IntegrityMultiplier converts a reputation score and the period's penalty
// counts into the payout weight applied to raw reads:
//
//	clamp(0.5 + score/100 - 0.05*corrections - 0.10*disputes, 0.1, 1.5)
//
// Corrections are published corrections on the contributor's in-period
// articles; disputes are those upheld against them.
func IntegrityMultiplier(score float64, corrections, disputes int) float64 {
	m := baseMultiplier + score/100 -
		correctionPenalty*float64(corrections) -
		disputePenalty*float64(disputes)
	if m < MinMultiplier {
		return MinMultiplier
	}
	if m > MaxMultiplier {
		return MaxMultiplier
	}
	return m
}
