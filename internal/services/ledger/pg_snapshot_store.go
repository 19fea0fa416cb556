package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wearedood/base-gaming-sdk-unity/common/data"
	"github.com/wearedood/base-gaming-sdk-unity/models"
)

// SnapshotStore is the persistence boundary of the ledger.
type SnapshotStore interface {
	SaveSnapshots(ctx context.Context, records []*models.PlayerEconomyData) error
	LoadSnapshots(ctx context.Context) ([]*models.PlayerEconomyData, error)
}

type PgSnapshotStore struct {
	db data.DBPool
}

func NewPgSnapshotStore(db data.DBPool) *PgSnapshotStore {
	return &PgSnapshotStore{db: db}
}

// SaveSnapshots upserts every record and rewrites the NFT ownership table
// in one transaction.
func (s *PgSnapshotStore) SaveSnapshots(ctx context.Context, records []*models.PlayerEconomyData) error {
	return data.WithTransaction(ctx, s.db, func(tx data.QueryRunner) error {
		if _, err := tx.Exec(ctx, "DELETE FROM player_nfts"); err != nil {
			return fmt.Errorf("failed to clear nfts: %w", err)
		}

		for _, p := range records {
			items, err := json.Marshal(p.Items)
			if err != nil {
				return fmt.Errorf("failed to encode items of %s: %w", p.PlayerID, err)
			}

			query := `
				INSERT INTO player_economy (player_id, token_balance, total_earned, total_spent, staked_amount,
					stake_start_time, accumulated_rewards, apy, last_reward_claim, level, reputation, items, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
				ON CONFLICT (player_id) DO UPDATE SET
					token_balance = EXCLUDED.token_balance,
					total_earned = EXCLUDED.total_earned,
					total_spent = EXCLUDED.total_spent,
					staked_amount = EXCLUDED.staked_amount,
					stake_start_time = EXCLUDED.stake_start_time,
					accumulated_rewards = EXCLUDED.accumulated_rewards,
					apy = EXCLUDED.apy,
					last_reward_claim = EXCLUDED.last_reward_claim,
					level = EXCLUDED.level,
					reputation = EXCLUDED.reputation,
					items = EXCLUDED.items,
					updated_at = NOW()
			`
			if _, err := tx.Exec(ctx, query,
				p.PlayerID, p.TokenBalance, p.TotalEarned, p.TotalSpent, p.Staking.StakedAmount,
				p.Staking.StakeStartTime, p.Staking.AccumulatedRewards, p.Staking.APY, p.LastRewardClaim,
				p.Level, p.Reputation, items); err != nil {
				return fmt.Errorf("failed to save player %s: %w", p.PlayerID, err)
			}

			for _, nft := range p.OwnedNFTs {
				metadata, err := json.Marshal(nft.Metadata)
				if err != nil {
					return fmt.Errorf("failed to encode metadata of nft %d: %w", nft.TokenID, err)
				}

				query := `
					INSERT INTO player_nfts (contract_address, token_id, player_id, metadata_uri, rarity, metadata, acquired_at, purchase_price)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				`
				if _, err := tx.Exec(ctx, query,
					nft.ContractAddress, int64(nft.TokenID), p.PlayerID, nft.MetadataURI, nft.Rarity,
					metadata, nft.AcquiredAt, nft.PurchasePrice); err != nil {
					return fmt.Errorf("failed to save nft %d: %w", nft.TokenID, err)
				}
			}
		}

		return nil
	})
}

func (s *PgSnapshotStore) LoadSnapshots(ctx context.Context) ([]*models.PlayerEconomyData, error) {
	query := `
		SELECT player_id, token_balance, total_earned, total_spent, staked_amount, stake_start_time,
			accumulated_rewards, apy, last_reward_claim, level, reputation, items
		FROM player_economy
		ORDER BY player_id
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var records []*models.PlayerEconomyData
	byID := make(map[string]*models.PlayerEconomyData)
	for rows.Next() {
		p := models.NewPlayerEconomyData("")
		var items []byte
		if err := rows.Scan(&p.PlayerID, &p.TokenBalance, &p.TotalEarned, &p.TotalSpent,
			&p.Staking.StakedAmount, &p.Staking.StakeStartTime, &p.Staking.AccumulatedRewards,
			&p.Staking.APY, &p.LastRewardClaim, &p.Level, &p.Reputation, &items); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}

		if len(items) > 0 {
			if err := json.Unmarshal(items, &p.Items); err != nil {
				return nil, fmt.Errorf("failed to decode items of %s: %w", p.PlayerID, err)
			}
		}
		if p.Items == nil {
			p.Items = make(map[string]int64)
		}

		records = append(records, p)
		byID[p.PlayerID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadNFTs(ctx, byID); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *PgSnapshotStore) loadNFTs(ctx context.Context, byID map[string]*models.PlayerEconomyData) error {
	query := `
		SELECT player_id, contract_address, token_id, metadata_uri, rarity, metadata, acquired_at, purchase_price
		FROM player_nfts
		ORDER BY player_id, acquired_at, token_id
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query nfts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var playerID string
		var tokenID int64
		var metadata []byte
		var nft models.OwnedNFT
		if err := rows.Scan(&playerID, &nft.ContractAddress, &tokenID, &nft.MetadataURI, &nft.Rarity,
			&metadata, &nft.AcquiredAt, &nft.PurchasePrice); err != nil {
			return fmt.Errorf("failed to scan nft: %w", err)
		}

		nft.TokenID = uint64(tokenID)
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &nft.Metadata); err != nil {
				return fmt.Errorf("failed to decode metadata of nft %d: %w", nft.TokenID, err)
			}
		}

		p, ok := byID[playerID]
		if !ok {
			return fmt.Errorf("nft %d references unknown player %s", nft.TokenID, playerID)
		}
		p.OwnedNFTs = append(p.OwnedNFTs, nft)
	}

	return rows.Err()
}
