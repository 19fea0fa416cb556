package ledger

import (
	"fmt"
	"math"
	"time"

	"github.com/wearedood/base-gaming-sdk-unity/models"
)

// Txn is the working set of one Update call. It is only valid inside the
// callback that received it.
type Txn struct {
	ledger  *Ledger
	records map[string]*models.PlayerEconomyData

	added   map[models.NFTKey]string
	removed map[models.NFTKey]string
}

// Player returns the working copy of a locked player's record. Direct
// changes are checked against the ledger invariants on commit.
func (t *Txn) Player(playerID string) (*models.PlayerEconomyData, error) {
	p, ok := t.records[playerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s not locked by this update", models.ErrPlayerUnknown, playerID)
	}
	return p, nil
}

func (t *Txn) Credit(playerID string, amount int64) (int64, error) {
	p, err := t.Player(playerID)
	if err != nil {
		return 0, err
	}
	if amount < 0 || amount > math.MaxInt64-p.TokenBalance || amount > math.MaxInt64-p.TotalEarned {
		return p.TokenBalance, models.ErrInvalidAmount
	}

	p.TokenBalance += amount
	p.TotalEarned += amount
	return p.TokenBalance, nil
}

func (t *Txn) Debit(playerID string, amount int64) (int64, error) {
	p, err := t.Player(playerID)
	if err != nil {
		return 0, err
	}
	if amount < 0 {
		return p.TokenBalance, models.ErrInvalidAmount
	}
	if p.TokenBalance < amount {
		return p.TokenBalance, models.ErrInsufficientBalance
	}

	p.TokenBalance -= amount
	p.TotalSpent += amount
	return p.TokenBalance, nil
}

// Refund reverses an earlier Debit of amount.
func (t *Txn) Refund(playerID string, amount int64) (int64, error) {
	p, err := t.Player(playerID)
	if err != nil {
		return 0, err
	}
	if amount < 0 || amount > p.TotalSpent {
		return p.TokenBalance, models.ErrInvalidAmount
	}

	p.TokenBalance += amount
	p.TotalSpent -= amount
	return p.TokenBalance, nil
}

// Revoke reverses an earlier Credit of amount.
func (t *Txn) Revoke(playerID string, amount int64) (int64, error) {
	p, err := t.Player(playerID)
	if err != nil {
		return 0, err
	}
	if amount < 0 || amount > p.TotalEarned {
		return p.TokenBalance, models.ErrInvalidAmount
	}
	if p.TokenBalance < amount {
		return p.TokenBalance, models.ErrInsufficientBalance
	}

	p.TokenBalance -= amount
	p.TotalEarned -= amount
	return p.TokenBalance, nil
}

func (t *Txn) AddNFT(playerID string, nft models.OwnedNFT) error {
	p, err := t.Player(playerID)
	if err != nil {
		return err
	}

	key := nft.Key()
	if _, ok := t.added[key]; ok {
		return models.ErrNFTAlreadyOwned
	}
	if _, moving := t.removed[key]; !moving && t.ledger.owned(key) {
		return models.ErrNFTAlreadyOwned
	}

	nft.Metadata = nft.Metadata.Clone()
	p.OwnedNFTs = append(p.OwnedNFTs, nft)
	t.added[key] = playerID
	return nil
}

func (t *Txn) RemoveNFT(playerID string, tokenID uint64) (models.OwnedNFT, error) {
	p, err := t.Player(playerID)
	if err != nil {
		return models.OwnedNFT{}, err
	}

	i := p.FindNFT(tokenID)
	if i < 0 {
		return models.OwnedNFT{}, models.ErrNFTNotFound
	}

	nft := p.OwnedNFTs[i]
	p.OwnedNFTs = append(p.OwnedNFTs[:i], p.OwnedNFTs[i+1:]...)

	key := nft.Key()
	if _, ok := t.added[key]; ok {
		delete(t.added, key)
	} else {
		t.removed[key] = playerID
	}
	return nft, nil
}

// AddItems changes the quantity held of a non-NFT catalog item.
func (t *Txn) AddItems(playerID, itemID string, quantity int64) (int64, error) {
	p, err := t.Player(playerID)
	if err != nil {
		return 0, err
	}
	if p.Items[itemID]+quantity < 0 {
		return p.Items[itemID], models.ErrInvalidAmount
	}
	if p.Items == nil {
		p.Items = make(map[string]int64)
	}

	p.Items[itemID] += quantity
	if p.Items[itemID] == 0 {
		delete(p.Items, itemID)
	}
	return p.Items[itemID], nil
}

// Stake moves amount from the balance into the player's position. The
// start time of the whole position moves to now and the APY to apy.
func (t *Txn) Stake(playerID string, amount int64, apy float64, now time.Time) (models.StakingPosition, error) {
	p, err := t.Player(playerID)
	if err != nil {
		return models.StakingPosition{}, err
	}
	if amount <= 0 {
		return p.Staking, models.ErrInvalidAmount
	}
	if p.TokenBalance < amount {
		return p.Staking, models.ErrInsufficientBalance
	}

	p.TokenBalance -= amount
	p.Staking.StakedAmount += amount
	p.Staking.StakeStartTime = now
	p.Staking.APY = apy
	return p.Staking, nil
}

// Claim credits the rewards accrued since the position's start time and
// restarts the clock. A player with nothing staked receives 0.
func (t *Txn) Claim(playerID string, now time.Time) (int64, error) {
	p, err := t.Player(playerID)
	if err != nil {
		return 0, err
	}
	if p.Staking.StakedAmount == 0 {
		return 0, nil
	}

	rewards := StakingReward(p.Staking, now)
	p.TokenBalance += rewards
	p.TotalEarned += rewards
	p.Staking.AccumulatedRewards += rewards
	p.Staking.StakeStartTime = now
	return rewards, nil
}

// Unstake claims outstanding rewards and returns the principal to the
// balance.
func (t *Txn) Unstake(playerID string, now time.Time) (principal, rewards int64, err error) {
	rewards, err = t.Claim(playerID, now)
	if err != nil {
		return 0, 0, err
	}

	p := t.records[playerID]
	principal = p.Staking.StakedAmount
	p.TokenBalance += principal
	p.Staking.StakedAmount = 0
	p.Staking.StakeStartTime = time.Time{}
	return principal, rewards, nil
}

func (t *Txn) SetLevel(playerID string, level int) error {
	p, err := t.Player(playerID)
	if err != nil {
		return err
	}
	if level < 1 {
		return models.ErrInvalidAmount
	}

	p.Level = level
	return nil
}

func (t *Txn) AdjustReputation(playerID string, delta int64) (int64, error) {
	p, err := t.Player(playerID)
	if err != nil {
		return 0, err
	}

	p.Reputation += delta
	return p.Reputation, nil
}

func (t *Txn) MarkRewardClaim(playerID string, at time.Time) error {
	p, err := t.Player(playerID)
	if err != nil {
		return err
	}

	p.LastRewardClaim = at
	return nil
}

func (t *Txn) verify() error {
	seen := make(map[models.NFTKey]string)
	for id, p := range t.records {
		if err := checkRecord(p); err != nil {
			return err
		}

		for _, nft := range p.OwnedNFTs {
			key := nft.Key()
			if owner, ok := seen[key]; ok {
				return fmt.Errorf("%w: nft %d held by %s and %s", models.ErrInternalInvariantViolation, nft.TokenID, owner, id)
			}
			seen[key] = id
		}
	}
	return nil
}
