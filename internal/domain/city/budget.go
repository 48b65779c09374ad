package city

import "fmt"

// Budget is the ordinal budget tier of a city.
type Budget string

// Budget tiers.
const (
	BudgetLow  Budget = "Budget"
	BudgetMid  Budget = "Mid-range"
	BudgetHigh Budget = "Luxury"
)

// IsValid checks if the tier is one of the supported values.
func (b Budget) IsValid() bool {
	return b == BudgetLow || b == BudgetMid || b == BudgetHigh
}

// Numeric returns the ordinal value (1-3) stored in the budget_numeric column.
func (b Budget) Numeric() float64 {
	switch b {
	case BudgetLow:
		return 1
	case BudgetHigh:
		return 3
	default:
		return 2
	}
}

// ParseBudget converts a budget label into a tier.
func ParseBudget(s string) (Budget, error) {
	b := Budget(s)
	if !b.IsValid() {
		return "", fmt.Errorf("invalid budget level: %q", s)
	}
	return b, nil
}
