// Package reward sizes token rewards from level-gated multiplier tiers.
package reward

import (
	"math"
	"sort"

	"github.com/wearedood/base-gaming-sdk-unity/models"
)

// Calculator is immutable after construction and safe for concurrent use.
type Calculator struct {
	tiers            []models.RewardTier // ascending MinLevel
	globalMultiplier float64
}

func NewCalculator(tiers []models.RewardTier, globalMultiplier float64) *Calculator {
	sorted := make([]models.RewardTier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinLevel < sorted[j].MinLevel
	})

	return &Calculator{tiers: sorted, globalMultiplier: globalMultiplier}
}

// TierFor returns the qualifying tier with the greatest MinLevel.
func (c *Calculator) TierFor(level int) (models.RewardTier, bool) {
	for i := len(c.tiers) - 1; i >= 0; i-- {
		if c.tiers[i].MinLevel <= level {
			return c.tiers[i], true
		}
	}
	return models.RewardTier{}, false
}

// CalculateReward applies the level's tier multiplier and the global
// multiplier to baseAmount, truncating toward zero. reason is not part of
// the numeric result.
func (c *Calculator) CalculateReward(baseAmount int64, playerLevel int, reason string) int64 {
	multiplier := 1.0
	if tier, ok := c.TierFor(playerLevel); ok {
		multiplier = tier.Multiplier
	}

	return Scale(baseAmount, multiplier, c.globalMultiplier)
}

// Scale multiplies amount by factors and truncates toward zero. Products
// that land a few ulps under a whole number, like 100 * 1.15, count as that
// whole number. Results beyond the int64 range saturate.
func Scale(amount int64, factors ...float64) int64 {
	x := float64(amount)
	for _, f := range factors {
		x *= f
	}

	x += math.Abs(x) * 1e-12
	x = math.Trunc(x)
	switch {
	case x >= math.MaxInt64:
		return math.MaxInt64
	case x <= math.MinInt64:
		return math.MinInt64
	}
	return int64(x)
}

func (c *Calculator) GlobalMultiplier() float64 {
	return c.globalMultiplier
}

func (c *Calculator) Tiers() []models.RewardTier {
	out := make([]models.RewardTier, len(c.tiers))
	copy(out, c.tiers)
	return out
}
