package dashboard

import (
	"fmt"
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"etfDashboard/internal/catalog"
	"etfDashboard/internal/finance"
)

// MinimumInvestment is the smallest accepted contribution, in dollars.
const MinimumInvestment = 1000

// Projection is the final balance an amount would have reached in one instrument.
type Projection struct {
	Instrument     catalog.Instrument
	TotalReturnPct float64
	Amount         decimal.Decimal
	FinalBalance   decimal.Decimal
}

// FinalDisplay formats the final balance as dollars, e.g. "$1,210.00".
func (p Projection) FinalDisplay() string { return FormatUSD(p.FinalBalance) }

// AmountDisplay formats the invested amount as dollars.
func (p Projection) AmountDisplay() string { return FormatUSD(p.Amount) }

// Project computes amount * (1 + totalReturn/100) for every result, using the
// displayed (two-decimal) total return. Amounts below MinimumInvestment are rejected.
func Project(amount float64, results []Result) ([]Projection, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, ErrInvalidAmount
	}
	amt := decimal.NewFromFloat(amount)
	if amt.LessThan(decimal.NewFromInt(MinimumInvestment)) {
		return nil, fmt.Errorf("%w: %s", ErrBelowMinimum, amt.StringFixed(2))
	}
	hundred := decimal.NewFromInt(100)
	out := make([]Projection, 0, len(results))
	for _, r := range results {
		ret := finance.Round2(r.Metrics.TotalReturnPct)
		growth := decimal.NewFromInt(1).Add(decimal.NewFromFloat(ret).Div(hundred))
		out = append(out, Projection{
			Instrument:     r.Instrument,
			TotalReturnPct: ret,
			Amount:         amt,
			FinalBalance:   amt.Mul(growth).Round(2),
		})
	}
	return out, nil
}

// FormatUSD renders a dollar amount with thousands separators and cents.
func FormatUSD(d decimal.Decimal) string {
	return money.New(d.Shift(2).Round(0).IntPart(), money.USD).Display()
}
