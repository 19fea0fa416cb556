package catalog

import (
	"fmt"
	"math"

	"github.com/wearedood/base-gaming-sdk-unity/models"
)

// DemandStep is the demand multiplier increase per unit sold. Demand is
// held as a whole number of steps so prices stay exact.
const DemandStep = 0.01

const stepsPerUnit = 100

// DemandSteps converts a stored multiplier to steps, rounding to the
// nearest step.
func DemandSteps(multiplier float64) int64 {
	if multiplier <= 0 {
		return 0
	}
	return int64(math.Round(multiplier * stepsPerUnit))
}

func DemandMultiplier(steps int64) float64 {
	return float64(steps) / stepsPerUnit
}

// Price is base*quantity, plus base*quantity*steps/100 when dynamic pricing
// is on. The demand surcharge is truncated. A total that does not fit in
// an int64 is rejected with ErrInvalidAmount.
func Price(item models.GameItem, quantity int64, dynamic bool) (int64, error) {
	if quantity < 1 || item.BasePrice < 0 {
		return 0, models.ErrInvalidAmount
	}
	if item.BasePrice > 0 && quantity > math.MaxInt64/item.BasePrice {
		return 0, overflow(item, quantity)
	}

	total := item.BasePrice * quantity
	if !dynamic || item.DemandSteps <= 0 || total == 0 {
		return total, nil
	}

	if total > math.MaxInt64/item.DemandSteps {
		return 0, overflow(item, quantity)
	}
	surcharge := total * item.DemandSteps / stepsPerUnit
	if surcharge > math.MaxInt64-total {
		return 0, overflow(item, quantity)
	}
	return total + surcharge, nil
}

// RecordSale raises the item's demand by one step per unit.
func RecordSale(item *models.GameItem, quantity int64) error {
	if quantity < 1 {
		return models.ErrInvalidAmount
	}
	if item.DemandSteps > math.MaxInt64-quantity {
		return overflow(*item, quantity)
	}

	item.DemandSteps += quantity
	item.DemandMultiplier = DemandMultiplier(item.DemandSteps)
	return nil
}

func overflow(item models.GameItem, quantity int64) error {
	return fmt.Errorf("%w: %d x %s exceeds the price range", models.ErrInvalidAmount, quantity, item.ID)
}
