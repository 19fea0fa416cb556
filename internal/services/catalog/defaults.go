package catalog

import (
	"context"

	"github.com/wearedood/base-gaming-sdk-unity/models"
)

// DefaultLoader serves a built-in starter catalog for deployments without
// a database.
type DefaultLoader struct{}

func (DefaultLoader) LoadItems(ctx context.Context) ([]models.GameItem, error) {
	return []models.GameItem{
		{
			ID: "sword_basic", Name: "Basic Sword", Type: models.ItemTypeWeapon, BasePrice: 100,
			Rarity:     models.RarityCommon,
			Attributes: models.Attributes{"damage": models.NumberAttr(10)},
		},
		{
			ID: "sword_flame", Name: "Flame Sword", Type: models.ItemTypeWeapon, BasePrice: 1500,
			IsNFT: true, Rarity: models.RarityEpic,
			Attributes: models.Attributes{"damage": models.NumberAttr(45), "element": models.StringAttr("fire")},
		},
		{
			ID: "armor_leather", Name: "Leather Armor", Type: models.ItemTypeArmor, BasePrice: 150,
			Rarity:     models.RarityCommon,
			Attributes: models.Attributes{"defense": models.NumberAttr(8)},
		},
		{
			ID: "potion_health", Name: "Health Potion", Type: models.ItemTypeConsumable, BasePrice: 25,
			Rarity:     models.RarityCommon,
			Attributes: models.Attributes{"heal": models.NumberAttr(50), "stackable": models.BoolAttr(true)},
		},
		{
			ID: "skin_golden", Name: "Golden Skin", Type: models.ItemTypeCosmetic, BasePrice: 800,
			IsNFT: true, Rarity: models.RarityRare,
		},
		{
			ID: "land_plot", Name: "Land Plot", Type: models.ItemTypeLand, BasePrice: 10000,
			IsNFT: true, Rarity: models.RarityLegendary,
			Attributes: models.Attributes{"size": models.NumberAttr(64)},
		},
	}, nil
}

func (DefaultLoader) LoadRewardTiers(ctx context.Context) ([]models.RewardTier, error) {
	return []models.RewardTier{
		{ID: "bronze", MinLevel: 1, Multiplier: 1.0, DailyBonus: 50},
		{ID: "silver", MinLevel: 10, Multiplier: 1.25, DailyBonus: 100, UnlockedItemIDs: []string{"sword_flame"}},
		{ID: "gold", MinLevel: 25, Multiplier: 1.5, DailyBonus: 250, UnlockedItemIDs: []string{"skin_golden"}},
		{ID: "platinum", MinLevel: 50, Multiplier: 2.0, DailyBonus: 500, UnlockedItemIDs: []string{"land_plot"}},
	}, nil
}
