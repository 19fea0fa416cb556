package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/wearedood/base-gaming-sdk-unity/models"
)

// MinJWTSecretLength is the shortest HS256 signing key accepted.
const MinJWTSecretLength = 32

// LoadEnvironment reads the configuration from the environment. A .env
// file in the working directory is loaded first when present.
func LoadEnvironment() (*models.Config, error) {
	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if len(secret) < MinJWTSecretLength {
		return nil, fmt.Errorf("JWT_SECRET must be at least %d bytes", MinJWTSecretLength)
	}

	economy, err := loadEconomy()
	if err != nil {
		return nil, err
	}

	return &models.Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DatabaseName:  os.Getenv("DATABASE_NAME"),
		MqURL:         os.Getenv("MQ_URL"),
		CacheURL:      os.Getenv("CACHE_URL"),
		ElasticUrl:    os.Getenv("ELASTIC_URL"),
		JWTSecret:     secret,
		ServiceName:   getEnv("SERVICE_NAME", "economy"),
		ServerPort:    getEnv("PORT", "8080"),
		ServerToken:   os.Getenv("SERVER_TOKEN"),
		IPFSGateway:   getEnv("IPFS_GATEWAY", "https://ipfs.io"),
		MetadataHosts: getList("METADATA_ALLOWED_HOSTS"),
		Economy:       economy,
	}, nil
}

func loadEconomy() (models.EconomyConfig, error) {
	cfg := models.DefaultEconomyConfig()
	cfg.NFTContractAddress = os.Getenv("NFT_CONTRACT_ADDRESS")
	cfg.TokenContractAddress = os.Getenv("TOKEN_CONTRACT_ADDRESS")

	var err error
	if cfg.DynamicPricing, err = getBool("DYNAMIC_PRICING", cfg.DynamicPricing); err != nil {
		return cfg, err
	}
	if cfg.NFTEnabled, err = getBool("NFT_ENABLED", cfg.NFTEnabled); err != nil {
		return cfg, err
	}
	if cfg.GlobalRewardMultiplier, err = getFloat("GLOBAL_REWARD_MULTIPLIER", cfg.GlobalRewardMultiplier); err != nil {
		return cfg, err
	}
	if cfg.StakingAPY, err = getFloat("STAKING_APY", cfg.StakingAPY); err != nil {
		return cfg, err
	}
	if cfg.TokenPriceUSD, err = getFloat("TOKEN_PRICE_USD", cfg.TokenPriceUSD); err != nil {
		return cfg, err
	}
	if cfg.MarketplaceFeeBps, err = getInt("MARKETPLACE_FEE_BPS", cfg.MarketplaceFeeBps); err != nil {
		return cfg, err
	}
	if cfg.ContractCallTimeout, err = getDuration("CONTRACT_CALL_TIMEOUT", cfg.ContractCallTimeout); err != nil {
		return cfg, err
	}

	switch {
	case cfg.GlobalRewardMultiplier < 0:
		return cfg, fmt.Errorf("GLOBAL_REWARD_MULTIPLIER must not be negative")
	case cfg.StakingAPY < 0:
		return cfg, fmt.Errorf("STAKING_APY must not be negative")
	case cfg.MarketplaceFeeBps < 0 || cfg.MarketplaceFeeBps > 10000:
		return cfg, fmt.Errorf("MARKETPLACE_FEE_BPS must be between 0 and 10000")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getInt(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s: %w", key, err)
	}
	return i, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
