package pricing

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestWeightedAverageCost(t *testing.T) {
	t.Run("blends existing stock with the purchase", func(t *testing.T) {
		got, err := WeightedAverageCost(10, d("2.00"), 10, d("4.00"))
		require.NoError(t, err)
		assert.Equal(t, 20, got.Stock)
		assert.True(t, got.AverageCost.Equal(d("3")), "got %s", got.AverageCost)
	})

	t.Run("empty stock takes the purchase cost", func(t *testing.T) {
		got, err := WeightedAverageCost(0, decimal.Zero, 7, d("12.5"))
		require.NoError(t, err)
		assert.Equal(t, 7, got.Stock)
		assert.True(t, got.AverageCost.Equal(d("12.5")))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := WeightedAverageCost(10, d("2"), 0, d("4"))
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		_, err = WeightedAverageCost(10, d("2"), -3, d("4"))
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("rejects stock that would overflow", func(t *testing.T) {
		_, err := WeightedAverageCost(math.MaxInt, d("1"), 1, d("1"))
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		_, err = WeightedAverageCost(math.MaxInt-10, d("1"), 11, d("1"))
		assert.ErrorIs(t, err, ErrQuantityTooLarge)

		got, err := WeightedAverageCost(math.MaxInt-10, d("1"), 10, d("1"))
		require.NoError(t, err)
		assert.Equal(t, math.MaxInt, got.Stock)
	})

	t.Run("rejects negative cost", func(t *testing.T) {
		_, err := WeightedAverageCost(10, d("2"), 1, d("-1"))
		assert.ErrorIs(t, err, ErrNegativeCost)
	})

	t.Run("result stays between old and new cost", func(t *testing.T) {
		cases := []struct {
			stock int
			avg   string
			qty   int
			cost  string
		}{
			{1, "1", 1, "100"},
			{3, "7.25", 11, "0.5"},
			{100, "4", 1, "4.0001"},
			{5, "9.99", 995, "10.01"},
			{0, "3", 2, "8"},
		}
		for _, tc := range cases {
			old, cost := d(tc.avg), d(tc.cost)
			got, err := WeightedAverageCost(tc.stock, old, tc.qty, cost)
			require.NoError(t, err)

			lo, hi := decimal.Min(old, cost), decimal.Max(old, cost)
			if tc.stock == 0 {
				lo, hi = cost, cost
			}
			assert.True(t, got.AverageCost.GreaterThanOrEqual(lo.Sub(d("0.0000000001"))), "%+v -> %s", tc, got.AverageCost)
			assert.True(t, got.AverageCost.LessThanOrEqual(hi.Add(d("0.0000000001"))), "%+v -> %s", tc, got.AverageCost)
		}
	})
}

func TestSuggestedPrice(t *testing.T) {
	a := Component{RawMaterialID: uuid.New(), Name: "A", Quantity: 2, AverageCost: d("3"), MarginPercent: d("50")}
	b := Component{RawMaterialID: uuid.New(), Name: "B", Quantity: 1, AverageCost: d("10"), MarginPercent: d("20")}

	t.Run("sums marked-up component costs", func(t *testing.T) {
		price := SuggestedPrice([]Component{a, b})
		assert.True(t, price.Equal(d("21")), "got %s", price)
	})

	t.Run("no components gives zero", func(t *testing.T) {
		assert.True(t, SuggestedPrice(nil).IsZero())
	})

	t.Run("doubling quantities doubles the price", func(t *testing.T) {
		odd := Component{RawMaterialID: uuid.New(), Name: "C", Quantity: 3, AverageCost: d("0.3333"), MarginPercent: d("17.5")}
		base := SuggestedPrice([]Component{a, b, odd})

		doubled := []Component{a, b, odd}
		for i := range doubled {
			doubled[i].Quantity *= 2
		}
		assert.True(t, SuggestedPrice(doubled).Equal(base.Mul(decimal.NewFromInt(2))))
	})
}

func TestPlanConsumption(t *testing.T) {
	x := Component{RawMaterialID: uuid.New(), Name: "Botella", Quantity: 2, Stock: 9}

	t.Run("rejects when stock is short", func(t *testing.T) {
		plan, shortages, err := PlanConsumption([]Component{x}, 5)
		require.NoError(t, err)
		assert.Nil(t, plan)
		require.Len(t, shortages, 1)
		assert.Equal(t, Shortage{RawMaterialID: x.RawMaterialID, Name: "Botella", Available: 9, Required: 10}, shortages[0])
	})

	t.Run("reports every short material and nothing else", func(t *testing.T) {
		ok := Component{RawMaterialID: uuid.New(), Name: "Tapa", Quantity: 1, Stock: 100}
		short := Component{RawMaterialID: uuid.New(), Name: "Etiqueta", Quantity: 3, Stock: 2}
		plan, shortages, err := PlanConsumption([]Component{ok, x, short}, 5)
		require.NoError(t, err)
		assert.Nil(t, plan)
		assert.Len(t, shortages, 2)
	})

	t.Run("plans every material when stock suffices", func(t *testing.T) {
		plan, shortages, err := PlanConsumption([]Component{x}, 4)
		require.NoError(t, err)
		assert.Empty(t, shortages)
		require.Len(t, plan, 1)
		assert.Equal(t, 8, plan[0].Required)
		assert.Equal(t, 1, plan[0].Remaining)
	})

	t.Run("sums repeated raw materials", func(t *testing.T) {
		again := x
		again.Quantity = 1
		plan, shortages, err := PlanConsumption([]Component{x, again}, 3)
		require.NoError(t, err)
		require.Len(t, plan, 1)
		assert.Equal(t, 9, plan[0].Required)
		assert.Equal(t, 0, plan[0].Remaining)

		_, shortages, err = PlanConsumption([]Component{x, again}, 4)
		require.NoError(t, err)
		require.Len(t, shortages, 1)
		assert.Equal(t, 12, shortages[0].Required)
	})

	t.Run("rejects requirements that overflow", func(t *testing.T) {
		huge := Component{RawMaterialID: uuid.New(), Name: "Sello", Quantity: 1 << 62, Stock: 5}
		for _, qty := range []int{2, 3, 4} {
			plan, shortages, err := PlanConsumption([]Component{huge}, qty)
			assert.ErrorIs(t, err, ErrInvalidQuantity, "qty %d", qty)
			assert.Nil(t, plan)
			assert.Nil(t, shortages)
		}

		half := Component{RawMaterialID: huge.RawMaterialID, Name: "Sello", Quantity: math.MaxInt / 2, Stock: 5}
		_, _, err := PlanConsumption([]Component{half, half, half}, 1)
		assert.ErrorIs(t, err, ErrQuantityTooLarge)
	})

	t.Run("product without components always passes", func(t *testing.T) {
		plan, shortages, err := PlanConsumption(nil, 50)
		require.NoError(t, err)
		assert.Empty(t, plan)
		assert.Empty(t, shortages)
	})

	t.Run("rejects non-positive quantity before checking stock", func(t *testing.T) {
		_, _, err := PlanConsumption([]Component{x}, 0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})
}

func TestTotal(t *testing.T) {
	total, err := Total([]Line{{UnitPrice: d("10"), Quantity: 2}, {UnitPrice: d("5"), Quantity: 3}})
	require.NoError(t, err)
	assert.True(t, total.Equal(d("35")))

	_, err = Total([]Line{{UnitPrice: d("10"), Quantity: 0}})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	total, err = Total(nil)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}
