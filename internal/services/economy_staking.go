package services

import (
	"go.uber.org/zap"

	"github.com/wearedood/base-gaming-sdk-unity/internal/services/ledger"
	"github.com/wearedood/base-gaming-sdk-unity/models"
)

// StakeTokens moves amount into the player's staking position. The whole
// position restarts its accrual clock and takes the current global APY, so
// rewards accrued before a top-up must be claimed first or are lost.
func (e *EconomyEngine) StakeTokens(playerID string, amount int64) (models.StakingPosition, error) {
	if err := e.ready(OpStakeTokens, playerID); err != nil {
		return models.StakingPosition{}, err
	}

	var pos models.StakingPosition
	var balance int64
	err := e.ledger.Update([]string{playerID}, func(tx *ledger.Txn) error {
		var err error
		if pos, err = tx.Stake(playerID, amount, e.config.StakingAPY, e.now()); err != nil {
			return err
		}
		p, err := tx.Player(playerID)
		if err != nil {
			return err
		}
		balance = p.TokenBalance
		return nil
	})
	if err != nil {
		return models.StakingPosition{}, e.fail(OpStakeTokens, playerID, err)
	}

	e.logger.Info("Tokens staked",
		zap.String("player_id", playerID),
		zap.Int64("amount", amount),
		zap.Int64("staked", pos.StakedAmount),
		zap.Float64("apy", pos.APY))

	e.emit(models.EconomyEvent{
		Type:         models.EventStakingUpdated,
		PlayerID:     playerID,
		Amount:       amount,
		Balance:      balance,
		StakedAmount: pos.StakedAmount,
		Operation:    "stake",
	})
	return pos, nil
}

// ClaimStakingRewards credits the rewards accrued since the position's
// start and restarts its clock. A player with nothing staked gets 0.
func (e *EconomyEngine) ClaimStakingRewards(playerID string) (int64, error) {
	if err := e.ready(OpClaimStaking, playerID); err != nil {
		return 0, err
	}

	var rewards, balance, staked int64
	err := e.ledger.Update([]string{playerID}, func(tx *ledger.Txn) error {
		var err error
		if rewards, err = tx.Claim(playerID, e.now()); err != nil {
			return err
		}
		p, err := tx.Player(playerID)
		if err != nil {
			return err
		}
		balance, staked = p.TokenBalance, p.Staking.StakedAmount
		return nil
	})
	if err != nil {
		return 0, e.fail(OpClaimStaking, playerID, err)
	}

	if rewards > 0 {
		e.logger.Info("Staking rewards claimed",
			zap.String("player_id", playerID),
			zap.Int64("rewards", rewards),
			zap.Int64("staked", staked))
	}

	e.emit(models.EconomyEvent{
		Type:         models.EventStakingReward,
		PlayerID:     playerID,
		Amount:       rewards,
		Balance:      balance,
		StakedAmount: staked,
	})
	return rewards, nil
}

// UnstakeTokens claims outstanding rewards and returns the principal to
// the balance.
func (e *EconomyEngine) UnstakeTokens(playerID string) (principal, rewards int64, err error) {
	if err := e.ready(OpUnstakeTokens, playerID); err != nil {
		return 0, 0, err
	}

	var balance int64
	err = e.ledger.Update([]string{playerID}, func(tx *ledger.Txn) error {
		var err error
		if principal, rewards, err = tx.Unstake(playerID, e.now()); err != nil {
			return err
		}
		p, err := tx.Player(playerID)
		if err != nil {
			return err
		}
		balance = p.TokenBalance
		return nil
	})
	if err != nil {
		return 0, 0, e.fail(OpUnstakeTokens, playerID, err)
	}

	e.logger.Info("Tokens unstaked",
		zap.String("player_id", playerID),
		zap.Int64("principal", principal),
		zap.Int64("rewards", rewards))

	e.emit(models.EconomyEvent{
		Type:         models.EventStakingUpdated,
		PlayerID:     playerID,
		Amount:       principal + rewards,
		Balance:      balance,
		StakedAmount: 0,
		Operation:    "unstake",
	})
	return principal, rewards, nil
}
