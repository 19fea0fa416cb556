package ledger

import (
	"time"

	"github.com/wearedood/base-gaming-sdk-unity/models"
)

const daysPerYear = 365

// StakingReward is the reward accrued by pos between its start time and
// now: staked * APY * elapsedDays / (365 * 100), truncated. Elapsed days
// are fractional.
func StakingReward(pos models.StakingPosition, now time.Time) int64 {
	if pos.StakedAmount <= 0 || pos.APY <= 0 {
		return 0
	}

	elapsed := now.Sub(pos.StakeStartTime)
	if elapsed <= 0 {
		return 0
	}

	days := elapsed.Hours() / 24
	return int64(float64(pos.StakedAmount) * pos.APY * days / (daysPerYear * 100))
}
