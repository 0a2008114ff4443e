package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Projection extrapolates spend for a hypothetical steady workload.
// All figures are exact USD decimals derived purely from the rate table;
// there is no randomness and no dependence on recorded history.
type Projection struct {
	// OperationClass is the class the projection was computed for.
	OperationClass string

	// OpsPerDay is the assumed number of operations per day.
	OpsPerDay int64

	// UnitsPerOp is the assumed input and output unit count per operation.
	UnitsPerOp int64

	// CostPerOp is the cost of a single operation.
	CostPerOp decimal.Decimal

	// Daily is OpsPerDay * CostPerOp.
	Daily decimal.Decimal

	// Monthly is Daily * 30.
	Monthly decimal.Decimal

	// Yearly is Daily * 365.
	Yearly decimal.Decimal

	// YearlyAt10x and YearlyAt100x are scale scenarios for capacity
	// planning: the yearly figure at 10x and 100x the assumed volume.
	YearlyAt10x  decimal.Decimal
	YearlyAt100x decimal.Decimal
}

// Project computes a deterministic spend extrapolation for the given
// workload shape. unitsPerOp is applied to both the input and output
// dimension of the operation class.
func (t *Table) Project(opsPerDay, unitsPerOp int64, class string) (*Projection, error) {
	if opsPerDay < 0 || unitsPerOp < 0 {
		return nil, fmt.Errorf("projection volumes cannot be negative: ops=%d units=%d", opsPerDay, unitsPerOp)
	}

	costPerOp := t.Cost(class, unitsPerOp, unitsPerOp)
	daily := costPerOp.Mul(decimal.NewFromInt(opsPerDay))
	yearly := daily.Mul(decimal.NewFromInt(365))

	return &Projection{
		OperationClass: class,
		OpsPerDay:      opsPerDay,
		UnitsPerOp:     unitsPerOp,
		CostPerOp:      costPerOp,
		Daily:          daily,
		Monthly:        daily.Mul(decimal.NewFromInt(30)),
		Yearly:         yearly,
		YearlyAt10x:    yearly.Mul(decimal.NewFromInt(10)),
		YearlyAt100x:   yearly.Mul(decimal.NewFromInt(100)),
	}, nil
}
