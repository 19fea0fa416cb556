package market

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/wearedood/base-gaming-sdk-unity/common/cache"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) GetTokenPrice(ctx context.Context, assetAddress string) (float64, error) {
	args := m.Called(ctx, assetAddress)
	return args.Get(0).(float64), args.Error(1)
}

func TestStaticProvider(t *testing.T) {
	p := NewStaticProvider(0, map[string]float64{"0xABC": 0.25})
	ctx := context.Background()

	price, err := p.GetTokenPrice(ctx, "0xabc")
	assert.NoError(t, err)
	assert.Equal(t, 0.25, price)

	_, err = p.GetTokenPrice(ctx, "0xdef")
	assert.ErrorIs(t, err, ErrPriceUnavailable)

	p.SetPrice("0xDEF", 3)
	price, err = p.GetTokenPrice(ctx, "0xdef")
	assert.NoError(t, err)
	assert.Equal(t, 3.0, price)
}

func TestStaticProviderDefault(t *testing.T) {
	p := NewStaticProvider(1.5, nil)
	price, err := p.GetTokenPrice(context.Background(), "0x1")
	assert.NoError(t, err)
	assert.Equal(t, 1.5, price)
}

func TestCachedProviderHitsUpstreamOnce(t *testing.T) {
	upstream := new(MockProvider)
	ctx := context.Background()
	upstream.On("GetTokenPrice", ctx, "0xAbC").Return(0.75, nil).Once()

	p := NewCachedProvider(upstream, cache.NewMemoryCache[float64](), time.Minute)

	for i := 0; i < 3; i++ {
		price, err := p.GetTokenPrice(ctx, "0xAbC")
		assert.NoError(t, err)
		assert.Equal(t, 0.75, price)
	}

	upstream.AssertExpectations(t)
}

func TestCachedProviderDoesNotCacheErrors(t *testing.T) {
	upstream := new(MockProvider)
	ctx := context.Background()
	upstream.On("GetTokenPrice", ctx, "0x1").Return(0.0, ErrPriceUnavailable).Twice()

	p := NewCachedProvider(upstream, cache.NewMemoryCache[float64](), time.Minute)
	_, err := p.GetTokenPrice(ctx, "0x1")
	assert.ErrorIs(t, err, ErrPriceUnavailable)
	_, err = p.GetTokenPrice(ctx, "0x1")
	assert.ErrorIs(t, err, ErrPriceUnavailable)

	upstream.AssertExpectations(t)
}
