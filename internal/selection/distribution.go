package selection

import (
	"math/rand"

	"learnitalian/internal/domain"
)

// Slot share bounds for the target level, expressed in tenths of the batch.
// A learner with thin coverage gets almost the whole batch at the target
// level; as mastery rises the batch widens, and a top-level learner gets a
// deliberately broad spread to force review.
const (
	lowCoverageShareMin = 8 // 8-9 of 10 when target coverage is still low
	lowCoverageShareMax = 9
	highMasteryShareMin = 5 // 5-6 of 10 once mastery has risen
	highMasteryShareMax = 6
	topLearnerShareMin  = 3 // 3-6 of 10 for a top-level learner
	topLearnerShareMax  = 6
	defaultShare        = 7

	lowCoverageCutoff = 0.5
	highMasteryCutoff = 0.5
)

// levelShare is one spill destination with its share of the remainder.
type levelShare struct {
	level domain.Level
	ratio float64
}

// spillTable routes the non-target remainder to neighboring levels, with a
// bias toward the review level below the target.
var spillTable = map[domain.Level][]levelShare{
	domain.LevelA1: {{domain.LevelA2, 1.0}},
	domain.LevelA2: {{domain.LevelA1, 0.6}, {domain.LevelB1, 0.4}},
	domain.LevelB1: {{domain.LevelA2, 0.6}, {domain.LevelB2, 0.4}},
	domain.LevelB2: {{domain.LevelB1, 0.6}, {domain.LevelC1, 0.4}},
	domain.LevelC1: {{domain.LevelB2, 0.6}, {domain.LevelB1, 0.4}},
}

// fallbackTable lists the adjacent levels used to backfill a short batch,
// keyed by target level.
var fallbackTable = map[domain.Level][]domain.Level{
	domain.LevelA1: {domain.LevelA2},
	domain.LevelA2: {domain.LevelA1, domain.LevelB1},
	domain.LevelB1: {domain.LevelA2, domain.LevelB2},
	domain.LevelB2: {domain.LevelB1, domain.LevelC1},
	domain.LevelC1: {domain.LevelB2, domain.LevelB1},
}

// levelDistribution splits n slots between the target level and its
// neighbors based on the learner's standing at the target level.
func levelDistribution(target, estimated domain.Level, coverage, mastery float64, n int, rng *rand.Rand) map[domain.Level]int {
	dist := make(map[domain.Level]int)
	if n <= 0 {
		return dist
	}

	var tenths int
	switch {
	case estimated == domain.LevelC1:
		tenths = topLearnerShareMin + rng.Intn(topLearnerShareMax-topLearnerShareMin+1)
	case coverage < lowCoverageCutoff:
		tenths = lowCoverageShareMin + rng.Intn(lowCoverageShareMax-lowCoverageShareMin+1)
	case mastery >= highMasteryCutoff:
		tenths = highMasteryShareMin + rng.Intn(highMasteryShareMax-highMasteryShareMin+1)
	default:
		tenths = defaultShare
	}

	targetSlots := (n*tenths + 5) / 10
	if targetSlots < 1 {
		targetSlots = 1
	}
	if targetSlots > n {
		targetSlots = n
	}
	dist[target] = targetSlots

	remainder := n - targetSlots
	if remainder == 0 {
		return dist
	}

	shares := spillTable[target]
	assigned := 0
	for _, sh := range shares {
		slots := int(float64(remainder) * sh.ratio)
		if slots > 0 {
			dist[sh.level] += slots
			assigned += slots
		}
	}
	// Rounding leftovers go to the first spill destination.
	if leftover := remainder - assigned; leftover > 0 && len(shares) > 0 {
		dist[shares[0].level] += leftover
	}
	return dist
}
