package catalog

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wearedood/base-gaming-sdk-unity/models"
)

func TestPrice(t *testing.T) {
	cases := []struct {
		name     string
		base     int64
		steps    int64
		quantity int64
		dynamic  bool
		want     int64
	}{
		{"no demand", 100, 0, 2, true, 200},
		{"two steps", 100, 2, 2, true, 204},
		{"static pricing ignores demand", 100, 2, 2, false, 200},
		// 300 * 3 / 100 = 9
		{"surcharge", 100, 3, 3, true, 309},
		// 25 * 3 / 100 = 0.75 truncates to 0
		{"surcharge truncates", 25, 3, 1, true, 25},
		{"free item", 0, 50, 1000, true, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := models.GameItem{ID: "sword", BasePrice: tc.base, DemandSteps: tc.steps}
			got, err := Price(item, tc.quantity, tc.dynamic)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPriceRejectsOverflow(t *testing.T) {
	cases := []struct {
		name     string
		base     int64
		steps    int64
		quantity int64
	}{
		{"quantity wraps the base price", 100, 0, 184467440737095517},
		{"largest quantity", 2, 0, math.MaxInt64},
		{"surcharge product", math.MaxInt64 / 4, 10, 2},
		{"surcharge sum", math.MaxInt64 - 1, 1, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := models.GameItem{ID: "sword", BasePrice: tc.base, DemandSteps: tc.steps}
			_, err := Price(item, tc.quantity, true)
			assert.ErrorIs(t, err, models.ErrInvalidAmount)
		})
	}

	_, err := Price(models.GameItem{ID: "sword", BasePrice: 100}, 0, true)
	assert.ErrorIs(t, err, models.ErrInvalidAmount)
}

func TestPriceAtTheLimit(t *testing.T) {
	item := models.GameItem{ID: "sword", BasePrice: 1}

	got, err := Price(item, math.MaxInt64, true)

	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), got)
}

func TestRepeatedSalesPriceExactly(t *testing.T) {
	item := models.GameItem{ID: "sword", BasePrice: 100}

	for n := int64(0); n < 500; n++ {
		price, err := Price(item, 1, true)
		require.NoError(t, err)
		require.Equal(t, 100+n, price, "sale %d", n+1)
		require.NoError(t, RecordSale(&item, 1))
	}

	assert.Equal(t, int64(500), item.DemandSteps)
	assert.Equal(t, 5.0, item.DemandMultiplier)
}

func TestRecordSaleRejectsOverflow(t *testing.T) {
	item := models.GameItem{ID: "free", DemandSteps: math.MaxInt64 - 1}

	assert.ErrorIs(t, RecordSale(&item, 2), models.ErrInvalidAmount)
	assert.Equal(t, int64(math.MaxInt64-1), item.DemandSteps)
}

func TestDemandSteps(t *testing.T) {
	assert.Equal(t, int64(0), DemandSteps(0))
	assert.Equal(t, int64(0), DemandSteps(-0.5))
	assert.Equal(t, int64(7), DemandSteps(0.07))
	assert.Equal(t, int64(12), DemandSteps(0.11+0.01))
	assert.Equal(t, 0.12, DemandMultiplier(12))
}
