package models

import "time"

type Config struct {
	DatabaseURL   string
	DatabaseName  string
	MqURL         string
	CacheURL      string
	ElasticUrl    string
	JWTSecret     string
	ServiceName   string
	ServerPort    string
	ServerToken   string
	IPFSGateway   string
	// hosts besides the IPFS gateway that NFT metadata may be read from
	MetadataHosts []string
	Economy       EconomyConfig
}

// EconomyConfig holds the tunables of the economy engine.
type EconomyConfig struct {
	DynamicPricing         bool
	GlobalRewardMultiplier float64
	StakingAPY             float64
	MarketplaceFeeBps      int64
	ContractCallTimeout    time.Duration
	NFTEnabled             bool
	NFTContractAddress     string
	TokenContractAddress   string
	TokenPriceUSD          float64
}

func DefaultEconomyConfig() EconomyConfig {
	return EconomyConfig{
		DynamicPricing:         true,
		GlobalRewardMultiplier: 1.0,
		StakingAPY:             12.0,
		MarketplaceFeeBps:      250,
		ContractCallTimeout:    30 * time.Second,
		NFTEnabled:             true,
	}
}
