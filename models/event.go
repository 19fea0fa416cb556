package models

import "time"

type EventType string

const (
	EventTokensEarned   EventType = "tokens_earned"
	EventTokensSpent    EventType = "tokens_spent"
	EventNFTMinted      EventType = "nft_minted"
	EventNFTTraded      EventType = "nft_traded"
	EventStakingUpdated EventType = "staking_updated"
	EventStakingReward  EventType = "staking_reward"
	EventEconomyError   EventType = "economy_error"
)

// EconomyEvent is the outcome notification of an engine operation. It
// carries enough state for a UI to refresh without querying the ledger.
type EconomyEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	PlayerID  string    `json:"player_id"`
	Timestamp time.Time `json:"timestamp"`

	Amount  int64  `json:"amount,omitempty"`
	Balance int64  `json:"balance"`
	Reason  string `json:"reason,omitempty"`
	ItemID  string `json:"item_id,omitempty"`

	TokenID             uint64 `json:"token_id,omitempty"`
	CounterpartyID      string `json:"counterparty_id,omitempty"`
	CounterpartyBalance int64  `json:"counterparty_balance,omitempty"`
	Fee                 int64  `json:"fee,omitempty"`
	TransactionID       string `json:"transaction_id,omitempty"`
	StakedAmount        int64  `json:"staked_amount,omitempty"`
	Operation           string `json:"operation,omitempty"`
	Error               string `json:"error,omitempty"`
	ContractAddress     string `json:"contract_address,omitempty"`
}
