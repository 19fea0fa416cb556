package models

// TokenAwardMessage is published by game servers to credit players for
// match results, quests and similar.
type TokenAwardMessage struct {
	Awards []PlayerAward `json:"awards"`
}

type PlayerAward struct {
	PlayerID string `json:"player_id"`
	Amount   int64  `json:"amount"`
	Reason   string `json:"reason"`
}

type LevelUpdateMessage struct {
	PlayerID string `json:"player_id"`
	Level    int    `json:"level"`
}
