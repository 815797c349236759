// Package calculator computes participant share amounts for bill splits.
package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Share is one participant's computed portion of a bill.
type Share struct {
	Name    string
	Percent decimal.Decimal // share of the total, 0..100
	Amount  decimal.Decimal
}

// PercentInput pairs a participant with their percentage of the total.
type PercentInput struct {
	Name    string
	Percent decimal.Decimal
}

// AmountInput pairs a participant with an explicit amount.
type AmountInput struct {
	Name   string
	Amount decimal.Decimal
}

var (
	hundred   = decimal.NewFromInt(100)
	tolerance = decimal.RequireFromString("0.01")
)

// EqualShares divides total evenly among the named participants. Each share
// is the difference of consecutive rounded running totals, so the amounts
// sum to exactly the total and no share can go negative however small the
// total is.
func EqualShares(total decimal.Decimal, names []string) ([]Share, error) {
	if !total.IsPositive() {
		return nil, fmt.Errorf("total must be positive")
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}

	n := decimal.NewFromInt(int64(len(names)))
	percent := hundred.DivRound(n, 4)

	shares := make([]Share, len(names))
	prev := decimal.Zero
	for i, name := range names {
		cum := total.Mul(decimal.NewFromInt(int64(i + 1))).DivRound(n, 2)
		shares[i] = Share{Name: name, Percent: percent, Amount: cum.Sub(prev)}
		prev = cum
	}
	return shares, nil
}

// PercentageShares converts percentages into amounts. The percentages must
// sum to 100 within a 0.01 tolerance. Amounts come from rounded running
// totals so the rounding error never concentrates in one share and no
// share can go negative.
func PercentageShares(total decimal.Decimal, inputs []PercentInput) ([]Share, error) {
	if !total.IsPositive() {
		return nil, fmt.Errorf("total must be positive")
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}

	sum := decimal.Zero
	for _, in := range inputs {
		if in.Percent.IsNegative() || in.Percent.GreaterThan(hundred) {
			return nil, fmt.Errorf("percentage for %q must be between 0 and 100", in.Name)
		}
		sum = sum.Add(in.Percent)
	}
	if sum.Sub(hundred).Abs().GreaterThan(tolerance) {
		return nil, fmt.Errorf("percentages sum to %s, want 100", sum)
	}

	shares := make([]Share, len(inputs))
	prev := decimal.Zero
	cumPercent := decimal.Zero
	for i, in := range inputs {
		cumPercent = cumPercent.Add(in.Percent)
		cum := total.Mul(cumPercent).DivRound(hundred, 2)
		shares[i] = Share{Name: in.Name, Percent: in.Percent, Amount: cum.Sub(prev)}
		prev = cum
	}
	return shares, nil
}

// CustomShares validates caller-provided amounts against the total, allowing
// a 0.01 tolerance, and derives each participant's percentage.
func CustomShares(total decimal.Decimal, inputs []AmountInput) ([]Share, error) {
	if !total.IsPositive() {
		return nil, fmt.Errorf("total must be positive")
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}

	sum := decimal.Zero
	for _, in := range inputs {
		if in.Amount.IsNegative() {
			return nil, fmt.Errorf("amount for %q cannot be negative", in.Name)
		}
		sum = sum.Add(in.Amount)
	}
	if sum.Sub(total).Abs().GreaterThan(tolerance) {
		return nil, fmt.Errorf("amounts sum to %s, want %s", sum, total)
	}

	shares := make([]Share, len(inputs))
	for i, in := range inputs {
		shares[i] = Share{
			Name:    in.Name,
			Percent: in.Amount.Mul(hundred).DivRound(total, 4),
			Amount:  in.Amount,
		}
	}
	return shares, nil
}
