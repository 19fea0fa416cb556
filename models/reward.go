package models

type RewardTier struct {
	ID              string   `json:"id"`
	MinLevel        int      `json:"min_level"`
	Multiplier      float64  `json:"multiplier"`
	DailyBonus      int64    `json:"daily_bonus"`
	UnlockedItemIDs []string `json:"unlocked_item_ids,omitempty"`
}
