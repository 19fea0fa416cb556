package reward

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wearedood/base-gaming-sdk-unity/models"
)

func testTiers() []models.RewardTier {
	return []models.RewardTier{
		{ID: "gold", MinLevel: 20, Multiplier: 2.0},
		{ID: "bronze", MinLevel: 1, Multiplier: 1.0},
		{ID: "silver", MinLevel: 10, Multiplier: 1.5},
	}
}

func TestCalculateRewardSelectsHighestQualifyingTier(t *testing.T) {
	c := NewCalculator(testTiers(), 1.0)

	assert.Equal(t, int64(1000), c.CalculateReward(1000, 1, "quest"))
	assert.Equal(t, int64(1000), c.CalculateReward(1000, 9, "quest"))
	assert.Equal(t, int64(1500), c.CalculateReward(1000, 10, "quest"))
	assert.Equal(t, int64(1500), c.CalculateReward(1000, 19, "quest"))
	assert.Equal(t, int64(2000), c.CalculateReward(1000, 50, "quest"))
}

func TestCalculateRewardNoQualifyingTier(t *testing.T) {
	c := NewCalculator([]models.RewardTier{{ID: "vip", MinLevel: 5, Multiplier: 3}}, 1.0)
	assert.Equal(t, int64(700), c.CalculateReward(700, 2, "login"))

	empty := NewCalculator(nil, 1.0)
	assert.Equal(t, int64(700), empty.CalculateReward(700, 99, "login"))
}

func TestCalculateRewardTruncates(t *testing.T) {
	c := NewCalculator([]models.RewardTier{{ID: "t", MinLevel: 1, Multiplier: 1.5}}, 1.1)
	// 333 * 1.5 * 1.1 = 549.45
	assert.Equal(t, int64(549), c.CalculateReward(333, 1, "quest"))
}

func TestCalculateRewardExactProducts(t *testing.T) {
	c := NewCalculator([]models.RewardTier{{ID: "t", MinLevel: 1, Multiplier: 1.15}}, 1.0)
	// 100 * 1.15 is 114.99999999999999 in binary floating point
	assert.Equal(t, int64(115), c.CalculateReward(100, 1, "quest"))

	c = NewCalculator([]models.RewardTier{{ID: "t", MinLevel: 1, Multiplier: 1.1}}, 1.1)
	assert.Equal(t, int64(121), c.CalculateReward(100, 1, "quest"))
	assert.Equal(t, int64(0), c.CalculateReward(0, 1, "quest"))
}

func TestScale(t *testing.T) {
	assert.Equal(t, int64(115), Scale(100, 1.15))
	assert.Equal(t, int64(57), Scale(50, 1.15))
	assert.Equal(t, int64(549), Scale(333, 1.5, 1.1))
	assert.Equal(t, int64(1000), Scale(1000))
	assert.Equal(t, int64(math.MaxInt64), Scale(math.MaxInt64, 4))
}

func TestCalculateRewardIgnoresReasonAndIsDeterministic(t *testing.T) {
	c := NewCalculator(testTiers(), 1.25)

	first := c.CalculateReward(400, 12, "quest")
	assert.Equal(t, first, c.CalculateReward(400, 12, "quest"))
	assert.Equal(t, first, c.CalculateReward(400, 12, "pvp_win"))
	assert.Equal(t, int64(750), first)
}

func TestTierForDuplicateMinLevelKeepsLast(t *testing.T) {
	c := NewCalculator([]models.RewardTier{
		{ID: "a", MinLevel: 3, Multiplier: 1.2},
		{ID: "b", MinLevel: 3, Multiplier: 1.4},
	}, 1.0)

	tier, ok := c.TierFor(3)
	assert.True(t, ok)
	assert.Equal(t, "b", tier.ID)
}
