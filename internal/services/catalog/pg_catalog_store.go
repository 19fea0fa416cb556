package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/wearedood/base-gaming-sdk-unity/common/data"
	"github.com/wearedood/base-gaming-sdk-unity/models"
)

type PgCatalogStore struct {
	db data.DBPool
}

func NewPgCatalogStore(db data.DBPool) *PgCatalogStore {
	return &PgCatalogStore{db: db}
}

func (s *PgCatalogStore) LoadItems(ctx context.Context) ([]models.GameItem, error) {
	query := `
		SELECT id, name, item_type, base_price, demand_multiplier, is_nft, rarity, attributes
		FROM game_items
		ORDER BY id
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query game items: %w", err)
	}
	defer rows.Close()

	var items []models.GameItem
	for rows.Next() {
		var item models.GameItem
		var attributes []byte
		if err := rows.Scan(&item.ID, &item.Name, &item.Type, &item.BasePrice,
			&item.DemandMultiplier, &item.IsNFT, &item.Rarity, &attributes); err != nil {
			return nil, fmt.Errorf("failed to scan game item: %w", err)
		}

		if len(attributes) > 0 {
			if err := json.Unmarshal(attributes, &item.Attributes); err != nil {
				return nil, fmt.Errorf("failed to decode attributes of %s: %w", item.ID, err)
			}
		}

		items = append(items, item)
	}

	return items, rows.Err()
}

func (s *PgCatalogStore) LoadRewardTiers(ctx context.Context) ([]models.RewardTier, error) {
	query := `
		SELECT id, min_level, multiplier, daily_bonus, unlocked_item_ids
		FROM reward_tiers
		ORDER BY min_level
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query reward tiers: %w", err)
	}
	defer rows.Close()

	var tiers []models.RewardTier
	for rows.Next() {
		var tier models.RewardTier
		if err := rows.Scan(&tier.ID, &tier.MinLevel, &tier.Multiplier, &tier.DailyBonus, &tier.UnlockedItemIDs); err != nil {
			return nil, fmt.Errorf("failed to scan reward tier: %w", err)
		}
		tiers = append(tiers, tier)
	}

	return tiers, rows.Err()
}

// SaveDemandMultipliers writes the live demand multipliers back so that
// prices survive a restart.
func (s *PgCatalogStore) SaveDemandMultipliers(ctx context.Context, multipliers map[string]float64) error {
	ids := make([]string, 0, len(multipliers))
	for id := range multipliers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return data.WithTransaction(ctx, s.db, func(tx data.QueryRunner) error {
		for _, id := range ids {
			if _, err := tx.Exec(ctx, "UPDATE game_items SET demand_multiplier = $1 WHERE id = $2", multipliers[id], id); err != nil {
				return fmt.Errorf("failed to update demand of %s: %w", id, err)
			}
		}
		return nil
	})
}
