// Package ledger is the sole owner of player balances, NFT inventories and
// staking positions. Every mutation runs inside a per-player critical
// section; operations spanning several players take the locks in
// lexicographic order of player id.
package ledger

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/wearedood/base-gaming-sdk-unity/models"
)

var ErrEmptyPlayerID = errors.New("player id is empty")

type account struct {
	mu   sync.Mutex
	data *models.PlayerEconomyData
}

type Ledger struct {
	mu       sync.RWMutex
	accounts map[string]*account

	ownersMu sync.Mutex
	owners   map[models.NFTKey]string
}

func New() *Ledger {
	return &Ledger{
		accounts: make(map[string]*account),
		owners:   make(map[models.NFTKey]string),
	}
}

// Register creates a zeroed record for playerID if none exists. It reports
// whether a record was created.
func (l *Ledger) Register(playerID string) (bool, error) {
	if playerID == "" {
		return false, ErrEmptyPlayerID
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.accounts[playerID]; ok {
		return false, nil
	}

	l.accounts[playerID] = &account{data: models.NewPlayerEconomyData(playerID)}
	return true, nil
}

func (l *Ledger) Exists(playerID string) bool {
	_, ok := l.account(playerID)
	return ok
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.accounts)
}

func (l *Ledger) account(playerID string) (*account, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	a, ok := l.accounts[playerID]
	return a, ok
}

// Update runs fn as one critical section over every player in playerIDs.
// fn works on copies; they replace the stored records only when fn returns
// nil and the result passes the ledger invariants. On any error nothing is
// applied.
func (l *Ledger) Update(playerIDs []string, fn func(tx *Txn) error) error {
	ids := lockOrder(playerIDs)
	if len(ids) == 0 {
		return ErrEmptyPlayerID
	}

	accounts := make([]*account, len(ids))
	for i, id := range ids {
		a, ok := l.account(id)
		if !ok {
			return fmt.Errorf("%w: %s", models.ErrPlayerUnknown, id)
		}
		accounts[i] = a
	}

	for _, a := range accounts {
		a.mu.Lock()
	}
	defer func() {
		for i := len(accounts) - 1; i >= 0; i-- {
			accounts[i].mu.Unlock()
		}
	}()

	tx := &Txn{
		ledger:  l,
		records: make(map[string]*models.PlayerEconomyData, len(ids)),
		added:   make(map[models.NFTKey]string),
		removed: make(map[models.NFTKey]string),
	}
	for i, id := range ids {
		tx.records[id] = accounts[i].data.Clone()
	}

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.verify(); err != nil {
		return err
	}

	if err := l.commitOwnership(tx); err != nil {
		return err
	}

	for i, id := range ids {
		accounts[i].data = tx.records[id]
	}
	return nil
}

func lockOrder(playerIDs []string) []string {
	seen := make(map[string]struct{}, len(playerIDs))
	ids := make([]string, 0, len(playerIDs))
	for _, id := range playerIDs {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	sort.Strings(ids)
	return ids
}

func (l *Ledger) owned(key models.NFTKey) bool {
	l.ownersMu.Lock()
	defer l.ownersMu.Unlock()
	_, ok := l.owners[key]
	return ok
}

// OwnerOf returns the player holding the NFT.
func (l *Ledger) OwnerOf(key models.NFTKey) (string, bool) {
	l.ownersMu.Lock()
	defer l.ownersMu.Unlock()
	owner, ok := l.owners[key]
	return owner, ok
}

func (l *Ledger) commitOwnership(tx *Txn) error {
	l.ownersMu.Lock()
	defer l.ownersMu.Unlock()

	for key, from := range tx.removed {
		if owner, ok := l.owners[key]; !ok || owner != from {
			return fmt.Errorf("%w: nft %d of %s not indexed to %s", models.ErrInternalInvariantViolation, key.TokenID, key.ContractAddress, from)
		}
	}

	for key := range tx.added {
		if _, ok := l.owners[key]; !ok {
			continue
		}
		if _, moving := tx.removed[key]; !moving {
			return models.ErrNFTAlreadyOwned
		}
	}

	for key := range tx.removed {
		delete(l.owners, key)
	}
	for key, to := range tx.added {
		l.owners[key] = to
	}
	return nil
}

// Snapshot returns a copy of the player's record.
func (l *Ledger) Snapshot(playerID string) (*models.PlayerEconomyData, bool) {
	a, ok := l.account(playerID)
	if !ok {
		return nil, false
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.data.Clone(), true
}

// Snapshots copies every record, ordered by player id. Each record is
// consistent on its own; the set is not a point-in-time view.
func (l *Ledger) Snapshots() []*models.PlayerEconomyData {
	l.mu.RLock()
	ids := make([]string, 0, len(l.accounts))
	for id := range l.accounts {
		ids = append(ids, id)
	}
	l.mu.RUnlock()

	sort.Strings(ids)
	out := make([]*models.PlayerEconomyData, 0, len(ids))
	for _, id := range ids {
		if snapshot, ok := l.Snapshot(id); ok {
			out = append(out, snapshot)
		}
	}
	return out
}

// Restore replaces the whole ledger with records. It must run before the
// ledger is shared with other goroutines.
func (l *Ledger) Restore(records []*models.PlayerEconomyData) error {
	accounts := make(map[string]*account, len(records))
	owners := make(map[models.NFTKey]string)

	for _, record := range records {
		if record == nil || record.PlayerID == "" {
			return ErrEmptyPlayerID
		}
		if _, ok := accounts[record.PlayerID]; ok {
			return fmt.Errorf("duplicate player record %s", record.PlayerID)
		}
		if err := checkRecord(record); err != nil {
			return err
		}

		data := record.Clone()
		if data.Level < 1 {
			data.Level = 1
		}
		for _, nft := range data.OwnedNFTs {
			if owner, ok := owners[nft.Key()]; ok {
				return fmt.Errorf("%w: nft %d held by %s and %s", models.ErrNFTAlreadyOwned, nft.TokenID, owner, data.PlayerID)
			}
			owners[nft.Key()] = data.PlayerID
		}
		accounts[data.PlayerID] = &account{data: data}
	}

	l.mu.Lock()
	l.ownersMu.Lock()
	l.accounts = accounts
	l.owners = owners
	l.ownersMu.Unlock()
	l.mu.Unlock()
	return nil
}

func checkRecord(p *models.PlayerEconomyData) error {
	switch {
	case p.TokenBalance < 0:
		return fmt.Errorf("%w: negative balance %d for %s", models.ErrInternalInvariantViolation, p.TokenBalance, p.PlayerID)
	case p.Staking.StakedAmount < 0:
		return fmt.Errorf("%w: negative stake %d for %s", models.ErrInternalInvariantViolation, p.Staking.StakedAmount, p.PlayerID)
	case p.TotalEarned < 0 || p.TotalSpent < 0:
		return fmt.Errorf("%w: negative totals for %s", models.ErrInternalInvariantViolation, p.PlayerID)
	}

	for itemID, quantity := range p.Items {
		if quantity < 0 {
			return fmt.Errorf("%w: negative quantity of %s for %s", models.ErrInternalInvariantViolation, itemID, p.PlayerID)
		}
	}
	return nil
}

// Single-player helpers. Each is one critical section.

func (l *Ledger) Credit(playerID string, amount int64) (int64, error) {
	var balance int64
	err := l.Update([]string{playerID}, func(tx *Txn) error {
		var err error
		balance, err = tx.Credit(playerID, amount)
		return err
	})
	return balance, err
}

func (l *Ledger) Debit(playerID string, amount int64) (int64, error) {
	var balance int64
	err := l.Update([]string{playerID}, func(tx *Txn) error {
		var err error
		balance, err = tx.Debit(playerID, amount)
		return err
	})
	return balance, err
}

func (l *Ledger) AddNFT(playerID string, nft models.OwnedNFT) error {
	return l.Update([]string{playerID}, func(tx *Txn) error {
		return tx.AddNFT(playerID, nft)
	})
}

func (l *Ledger) RemoveNFT(playerID string, tokenID uint64) (models.OwnedNFT, error) {
	var removed models.OwnedNFT
	err := l.Update([]string{playerID}, func(tx *Txn) error {
		var err error
		removed, err = tx.RemoveNFT(playerID, tokenID)
		return err
	})
	return removed, err
}

func (l *Ledger) SetLevel(playerID string, level int) error {
	return l.Update([]string{playerID}, func(tx *Txn) error {
		return tx.SetLevel(playerID, level)
	})
}

func (l *Ledger) AdjustReputation(playerID string, delta int64) (int64, error) {
	var reputation int64
	err := l.Update([]string{playerID}, func(tx *Txn) error {
		var err error
		reputation, err = tx.AdjustReputation(playerID, delta)
		return err
	})
	return reputation, err
}

func (l *Ledger) StakingPosition(playerID string) (models.StakingPosition, bool) {
	snapshot, ok := l.Snapshot(playerID)
	if !ok {
		return models.StakingPosition{}, false
	}
	return snapshot.Staking, true
}
