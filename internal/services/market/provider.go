// Package market provides token prices for pricing decisions.
package market

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/wearedood/base-gaming-sdk-unity/common/cache"
)

var ErrPriceUnavailable = errors.New("market: price unavailable")

// DataProvider is a token price oracle keyed by asset contract address.
type DataProvider interface {
	GetTokenPrice(ctx context.Context, assetAddress string) (float64, error)
}

// StaticProvider serves configured prices. Unknown assets get the default
// price, or ErrPriceUnavailable when the default is zero.
type StaticProvider struct {
	mu           sync.RWMutex
	prices       map[string]float64
	defaultPrice float64
}

func NewStaticProvider(defaultPrice float64, prices map[string]float64) *StaticProvider {
	p := &StaticProvider{prices: make(map[string]float64, len(prices)), defaultPrice: defaultPrice}
	for addr, price := range prices {
		p.prices[normalize(addr)] = price
	}
	return p
}

func (p *StaticProvider) SetPrice(assetAddress string, price float64) {
	p.mu.Lock()
	p.prices[normalize(assetAddress)] = price
	p.mu.Unlock()
}

func (p *StaticProvider) GetTokenPrice(ctx context.Context, assetAddress string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	p.mu.RLock()
	price, ok := p.prices[normalize(assetAddress)]
	p.mu.RUnlock()
	if ok {
		return price, nil
	}

	if p.defaultPrice > 0 {
		return p.defaultPrice, nil
	}
	return 0, ErrPriceUnavailable
}

// CachedProvider keeps prices from an upstream provider for ttl.
type CachedProvider struct {
	upstream DataProvider
	cache    cache.Cache[float64]
	ttl      time.Duration
}

func NewCachedProvider(upstream DataProvider, c cache.Cache[float64], ttl time.Duration) *CachedProvider {
	return &CachedProvider{upstream: upstream, cache: c, ttl: ttl}
}

func (p *CachedProvider) GetTokenPrice(ctx context.Context, assetAddress string) (float64, error) {
	key := "price:" + normalize(assetAddress)
	if price, err := p.cache.Get(key); err == nil {
		return price, nil
	}

	price, err := p.upstream.GetTokenPrice(ctx, assetAddress)
	if err != nil {
		return 0, err
	}

	_ = p.cache.Set(key, price, p.ttl)
	return price, nil
}

func normalize(address string) string {
	return strings.ToLower(address)
}
