package catalog

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wearedood/base-gaming-sdk-unity/models"
)

func TestPgCatalogStoreLoadItems(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"id", "name", "item_type", "base_price", "demand_multiplier", "is_nft", "rarity", "attributes"}).
		AddRow("potion", "Potion", models.ItemTypeConsumable, int64(25), 0.1, false, models.RarityCommon, []byte(`{"heal":50,"stackable":true}`)).
		AddRow("sword", "Sword", models.ItemTypeWeapon, int64(100), 0.0, true, models.RarityRare, []byte(nil))

	mock.ExpectQuery("SELECT id, name, item_type, base_price, demand_multiplier, is_nft, rarity, attributes FROM game_items").
		WillReturnRows(rows)

	store := NewPgCatalogStore(mock)
	items, err := store.LoadItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "potion", items[0].ID)
	assert.Equal(t, 0.1, items[0].DemandMultiplier)
	assert.Equal(t, models.NumberAttr(50), items[0].Attributes["heal"])
	assert.Equal(t, models.BoolAttr(true), items[0].Attributes["stackable"])
	assert.True(t, items[1].IsNFT)
	assert.Nil(t, items[1].Attributes)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgCatalogStoreLoadRewardTiers(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"id", "min_level", "multiplier", "daily_bonus", "unlocked_item_ids"}).
		AddRow("bronze", 1, 1.0, int64(50), []string{}).
		AddRow("silver", 10, 1.25, int64(100), []string{"sword"})

	mock.ExpectQuery("SELECT id, min_level, multiplier, daily_bonus, unlocked_item_ids FROM reward_tiers").
		WillReturnRows(rows)

	tiers, err := NewPgCatalogStore(mock).LoadRewardTiers(context.Background())
	require.NoError(t, err)
	require.Len(t, tiers, 2)
	assert.Equal(t, []string{"sword"}, tiers[1].UnlockedItemIDs)
	assert.Equal(t, 1.25, tiers[1].Multiplier)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgCatalogStoreSaveDemandMultipliers(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE game_items SET demand_multiplier = \\$1 WHERE id = \\$2").
		WithArgs(0.02, "potion").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE game_items SET demand_multiplier = \\$1 WHERE id = \\$2").
		WithArgs(0.1, "sword").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err = NewPgCatalogStore(mock).SaveDemandMultipliers(context.Background(), map[string]float64{"sword": 0.1, "potion": 0.02})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
