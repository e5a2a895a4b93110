// Package pricing holds the inventory and pricing arithmetic: weighted-average
// costing on purchase, bill-of-materials price derivation, stock sufficiency
// for sales and quotation totals. Functions are pure; persistence is the
// caller's job.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrQuantityTooLarge = fmt.Errorf("%w and within range", ErrInvalidQuantity)
	ErrNegativeCost     = errors.New("unit cost cannot be negative")
	ErrNegativeStock    = errors.New("stock cannot be negative")
)

var hundred = decimal.NewFromInt(100)

// CostUpdate is the new state of a raw material after receiving a purchase line.
type CostUpdate struct {
	Stock       int
	AverageCost decimal.Decimal
}

// WeightedAverageCost blends qty units bought at unitCost into a stock of
// stock units valued at avgCost.
func WeightedAverageCost(stock int, avgCost decimal.Decimal, qty int, unitCost decimal.Decimal) (CostUpdate, error) {
	if qty <= 0 {
		return CostUpdate{}, ErrInvalidQuantity
	}
	if unitCost.IsNegative() {
		return CostUpdate{}, ErrNegativeCost
	}
	if stock < 0 {
		return CostUpdate{}, ErrNegativeStock
	}
	if stock > math.MaxInt-qty {
		return CostUpdate{}, ErrQuantityTooLarge
	}

	totalPrevious := decimal.NewFromInt(int64(stock)).Mul(avgCost)
	totalNew := decimal.NewFromInt(int64(qty)).Mul(unitCost)
	newStock := stock + qty

	return CostUpdate{
		Stock:       newStock,
		AverageCost: totalPrevious.Add(totalNew).Div(decimal.NewFromInt(int64(newStock))),
	}, nil
}

// Component is one bill-of-materials line resolved against its raw material.
type Component struct {
	RawMaterialID uuid.UUID
	Name          string
	Quantity      int // per unit of product
	AverageCost   decimal.Decimal
	MarginPercent decimal.Decimal
	Stock         int
}

// UnitPrice is the cost of one unit of the raw material marked up by its margin.
func (c Component) UnitPrice() decimal.Decimal {
	return c.AverageCost.Mul(decimal.NewFromInt(1).Add(c.MarginPercent.Div(hundred)))
}

// LinePrice is the contribution of the component to one unit of product.
func (c Component) LinePrice() decimal.Decimal {
	return decimal.NewFromInt(int64(c.Quantity)).Mul(c.UnitPrice())
}

// SuggestedPrice derives a product price from its bill of materials. The
// result is unrounded; callers round when storing.
func SuggestedPrice(components []Component) decimal.Decimal {
	total := decimal.Zero
	for _, c := range components {
		total = total.Add(c.LinePrice())
	}
	return total
}

// Consumption is how much of one raw material a sale takes.
type Consumption struct {
	RawMaterialID uuid.UUID `json:"raw_material_id"`
	Name          string    `json:"name"`
	Required      int       `json:"required"`
	Remaining     int       `json:"remaining"`
}

// Shortage reports a raw material that cannot cover a sale.
type Shortage struct {
	RawMaterialID uuid.UUID `json:"raw_material_id"`
	Name          string    `json:"name"`
	Available     int       `json:"available"`
	Required      int       `json:"required"`
}

func (s Shortage) String() string {
	return fmt.Sprintf("%s: available %d, required %d", s.Name, s.Available, s.Required)
}

// PlanConsumption checks every component against its stock for qty units of
// product. Components that repeat a raw material are summed. When any raw
// material is short the plan is nil and every shortage is returned, so
// nothing should be decremented. Results are ordered by raw material id.
func PlanConsumption(components []Component, qty int) ([]Consumption, []Shortage, error) {
	if qty <= 0 {
		return nil, nil, ErrInvalidQuantity
	}

	type need struct {
		name     string
		stock    int
		required int
	}
	needs := make(map[uuid.UUID]*need, len(components))
	ids := make([]uuid.UUID, 0, len(components))
	for _, c := range components {
		if c.Quantity <= 0 {
			return nil, nil, fmt.Errorf("component %s: %w", c.Name, ErrInvalidQuantity)
		}
		n, ok := needs[c.RawMaterialID]
		if !ok {
			n = &need{name: c.Name, stock: c.Stock}
			needs[c.RawMaterialID] = n
			ids = append(ids, c.RawMaterialID)
		}
		if c.Quantity > math.MaxInt/qty || n.required > math.MaxInt-c.Quantity*qty {
			return nil, nil, fmt.Errorf("component %s: %w", c.Name, ErrQuantityTooLarge)
		}
		n.required += c.Quantity * qty
	}
	SortIDs(ids)

	var shortages []Shortage
	plan := make([]Consumption, 0, len(ids))
	for _, id := range ids {
		n := needs[id]
		if n.stock < n.required {
			shortages = append(shortages, Shortage{RawMaterialID: id, Name: n.name, Available: n.stock, Required: n.required})
			continue
		}
		plan = append(plan, Consumption{RawMaterialID: id, Name: n.name, Required: n.required, Remaining: n.stock - n.required})
	}
	if len(shortages) > 0 {
		return nil, shortages, nil
	}
	return plan, nil, nil
}

// SortIDs orders ids so locks are always taken in the same sequence.
func SortIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
}

// Line is a priced quantity of a product.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Total sums line subtotals. Any non-positive quantity is rejected.
func Total(lines []Line) (decimal.Decimal, error) {
	total := decimal.Zero
	for i, l := range lines {
		if l.Quantity <= 0 {
			return decimal.Zero, fmt.Errorf("line %d: %w", i+1, ErrInvalidQuantity)
		}
		total = total.Add(l.Subtotal())
	}
	return total, nil
}
