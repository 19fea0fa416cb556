package models

import "time"

type OwnedNFT struct {
	TokenID         uint64     `json:"token_id"`
	ContractAddress string     `json:"contract_address"`
	MetadataURI     string     `json:"metadata_uri,omitempty"`
	Rarity          Rarity     `json:"rarity"`
	Metadata        Attributes `json:"metadata,omitempty"`
	AcquiredAt      time.Time  `json:"acquired_at"`
	PurchasePrice   int64      `json:"purchase_price"`
}

// NFTKey identifies an NFT across contracts.
type NFTKey struct {
	ContractAddress string
	TokenID         uint64
}

func (n OwnedNFT) Key() NFTKey {
	return NFTKey{ContractAddress: n.ContractAddress, TokenID: n.TokenID}
}

type StakingPosition struct {
	StakedAmount       int64     `json:"staked_amount"`
	StakeStartTime     time.Time `json:"stake_start_time"`
	AccumulatedRewards int64     `json:"accumulated_rewards"`
	APY                float64   `json:"apy"`
}

type PlayerEconomyData struct {
	PlayerID        string           `json:"player_id"`
	TokenBalance    int64            `json:"token_balance"`
	TotalEarned     int64            `json:"total_earned"`
	TotalSpent      int64            `json:"total_spent"`
	OwnedNFTs       []OwnedNFT       `json:"owned_nfts"`
	Items           map[string]int64 `json:"items,omitempty"`
	Staking         StakingPosition  `json:"staking"`
	LastRewardClaim time.Time        `json:"last_reward_claim"`
	Level           int              `json:"level"`
	Reputation      int64            `json:"reputation"`
}

func NewPlayerEconomyData(playerID string) *PlayerEconomyData {
	return &PlayerEconomyData{
		PlayerID:  playerID,
		OwnedNFTs: []OwnedNFT{},
		Items:     make(map[string]int64),
		Level:     1,
	}
}

// Clone returns a deep copy.
func (p *PlayerEconomyData) Clone() *PlayerEconomyData {
	out := *p
	out.OwnedNFTs = make([]OwnedNFT, len(p.OwnedNFTs))
	for i, nft := range p.OwnedNFTs {
		nft.Metadata = nft.Metadata.Clone()
		out.OwnedNFTs[i] = nft
	}

	out.Items = make(map[string]int64, len(p.Items))
	for k, v := range p.Items {
		out.Items[k] = v
	}

	return &out
}

// FindNFT returns the index of tokenID in the inventory or -1.
func (p *PlayerEconomyData) FindNFT(tokenID uint64) int {
	for i, nft := range p.OwnedNFTs {
		if nft.TokenID == tokenID {
			return i
		}
	}
	return -1
}
