package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wearedood/base-gaming-sdk-unity/models"
)

func TestStakingReward(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	pos := models.StakingPosition{StakedAmount: 1000, StakeStartTime: start, APY: 12.0}

	assert.Equal(t, int64(0), StakingReward(pos, start))
	assert.Equal(t, int64(0), StakingReward(pos, start.Add(-time.Hour)))
	assert.Equal(t, int64(120), StakingReward(pos, start.Add(365*24*time.Hour)))
	// 1000 * 12 * 0.5 / 36500 truncates to 0
	assert.Equal(t, int64(0), StakingReward(pos, start.Add(12*time.Hour)))
	assert.Equal(t, int64(60), StakingReward(pos, start.Add(time.Duration(182.5*24*float64(time.Hour)))))
}

func TestStakeClaimUnstake(t *testing.T) {
	l := newLedger(t, "p1")
	_, err := l.Credit("p1", 1000)
	require.NoError(t, err)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	err = l.Update([]string{"p1"}, func(tx *Txn) error {
		_, err := tx.Stake("p1", 2000, 12.0, start)
		return err
	})
	assert.ErrorIs(t, err, models.ErrInsufficientBalance)

	err = l.Update([]string{"p1"}, func(tx *Txn) error {
		_, err := tx.Stake("p1", 1000, 12.0, start)
		return err
	})
	require.NoError(t, err)

	pos, ok := l.StakingPosition("p1")
	require.True(t, ok)
	assert.Equal(t, int64(1000), pos.StakedAmount)

	yearLater := start.Add(365 * 24 * time.Hour)
	var rewards int64
	err = l.Update([]string{"p1"}, func(tx *Txn) error {
		rewards, err = tx.Claim("p1", yearLater)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(120), rewards)

	p, _ := l.Snapshot("p1")
	assert.Equal(t, int64(120), p.TokenBalance)
	assert.Equal(t, int64(120), p.Staking.AccumulatedRewards)
	assert.Equal(t, yearLater, p.Staking.StakeStartTime)

	var principal int64
	err = l.Update([]string{"p1"}, func(tx *Txn) error {
		principal, rewards, err = tx.Unstake("p1", yearLater)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), principal)
	assert.Equal(t, int64(0), rewards)

	p, _ = l.Snapshot("p1")
	assert.Equal(t, int64(1120), p.TokenBalance)
	assert.Equal(t, int64(0), p.Staking.StakedAmount)
}

func TestClaimWithNothingStaked(t *testing.T) {
	l := newLedger(t, "p1")
	err := l.Update([]string{"p1"}, func(tx *Txn) error {
		rewards, err := tx.Claim("p1", time.Now())
		assert.Equal(t, int64(0), rewards)
		return err
	})
	assert.NoError(t, err)
}
