package models

type ItemType int16

const (
	ItemTypeWeapon ItemType = iota
	ItemTypeArmor
	ItemTypeConsumable
	ItemTypeCosmetic
	ItemTypeUtility
	ItemTypeLand
	ItemTypeCharacter
)

func (t ItemType) String() string {
	switch t {
	case ItemTypeWeapon:
		return "weapon"
	case ItemTypeArmor:
		return "armor"
	case ItemTypeConsumable:
		return "consumable"
	case ItemTypeCosmetic:
		return "cosmetic"
	case ItemTypeUtility:
		return "utility"
	case ItemTypeLand:
		return "land"
	case ItemTypeCharacter:
		return "character"
	default:
		return "unknown"
	}
}

type Rarity int16

const (
	RarityCommon Rarity = iota
	RarityUncommon
	RarityRare
	RarityEpic
	RarityLegendary
)

func (r Rarity) String() string {
	switch r {
	case RarityCommon:
		return "common"
	case RarityUncommon:
		return "uncommon"
	case RarityRare:
		return "rare"
	case RarityEpic:
		return "epic"
	case RarityLegendary:
		return "legendary"
	default:
		return "unknown"
	}
}

// GameItem is a catalog entry. Demand is the only state that changes after
// load: DemandSteps counts 0.01 increments and DemandMultiplier mirrors it
// for display and storage.
type GameItem struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Type             ItemType   `json:"type"`
	BasePrice        int64      `json:"base_price"`
	DemandMultiplier float64    `json:"demand_multiplier"`
	DemandSteps      int64      `json:"-"`
	IsNFT            bool       `json:"is_nft"`
	Rarity           Rarity     `json:"rarity"`
	Attributes       Attributes `json:"attributes,omitempty"`
}

// PriceQuote is the price of a quantity of an item at the current demand.
type PriceQuote struct {
	ItemID        string  `json:"item_id"`
	Quantity      int64   `json:"quantity"`
	TotalPrice    int64   `json:"total_price"`
	TokenPriceUSD float64 `json:"token_price_usd"`
	TotalUSD      float64 `json:"total_usd"`
}
