package finance

import "math"

// TradingDaysPerYear is the annualization constant for daily returns.
const TradingDaysPerYear = 252.0

// TotalReturn is the percentage change from the first to the last close.
// The series must not be empty.
func TotalReturn(s PriceSeries) float64 {
	return (s.Last()/s.First() - 1) * 100
}

// DailyChanges returns the day-over-day fractional changes. The first
// observation has no predecessor and is dropped, so the result is one shorter
// than the series.
func DailyChanges(s PriceSeries) []float64 {
	if s.Len() < 2 {
		return nil
	}
	out := make([]float64, s.Len()-1)
	for i := 1; i < s.Len(); i++ {
		out[i-1] = s.Points[i].Close/s.Points[i-1].Close - 1
	}
	return out
}

// AnnualizedVolatility is the sample standard deviation of the daily changes
// scaled by sqrt(252), in percent. With fewer than two changes the deviation
// is undefined and 0 is returned.
func AnnualizedVolatility(s PriceSeries) float64 {
	return annualize(sampleStdDev(DailyChanges(s)))
}

// SharpeRatio returns the excess return over riskFree per unit of volatility.
// Return and volatility are percentages, riskFree is a decimal fraction.
// The ratio is undefined (nil) when volatility is zero.
func SharpeRatio(totalReturnPct, volatilityPct, riskFree float64) *float64 {
	if volatilityPct == 0 {
		return nil
	}
	r := (totalReturnPct/100 - riskFree) / (volatilityPct / 100)
	return &r
}

// Analyze reduces a non-empty series to its scalar metrics.
func Analyze(s PriceSeries) Metrics {
	return Metrics{
		TotalReturnPct:          TotalReturn(s),
		AnnualizedVolatilityPct: AnnualizedVolatility(s),
	}
}

// CumulativeReturnSeries gives, for every point, the percentage change relative
// to the first close. The first value is always 0.
func CumulativeReturnSeries(s PriceSeries) []SeriesPoint {
	if s.Empty() {
		return nil
	}
	first := s.First()
	out := make([]SeriesPoint, s.Len())
	for i, p := range s.Points {
		out[i] = SeriesPoint{Date: p.Date, Value: (p.Close/first - 1) * 100}
	}
	return out
}

// CumulativeVolatilitySeries is the expanding-window annualized volatility of
// the daily changes. A value exists once the window holds two changes, so the
// first point is dated at the third close.
func CumulativeVolatilitySeries(s PriceSeries) []SeriesPoint {
	changes := DailyChanges(s)
	if len(changes) < 2 {
		return nil
	}
	out := make([]SeriesPoint, 0, len(changes)-1)

	// Welford's running variance over the expanding window.
	var mean, m2 float64
	for i, x := range changes {
		n := float64(i + 1)
		delta := x - mean
		mean += delta / n
		m2 += delta * (x - mean)
		if i == 0 {
			continue
		}
		variance := m2 / (n - 1)
		if variance < 0 {
			variance = 0
		}
		out = append(out, SeriesPoint{
			Date:  s.Points[i+1].Date,
			Value: annualize(math.Sqrt(variance)),
		})
	}
	return out
}

// Round2 rounds to two decimals for display.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// sampleStdDev uses N-1 degrees of freedom.
func sampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	variance := 0.0
	for _, x := range xs {
		d := x - mean
		variance += d * d
	}
	variance /= float64(len(xs) - 1)
	return math.Sqrt(variance)
}

func annualize(dailyStdDev float64) float64 {
	return dailyStdDev * math.Sqrt(TradingDaysPerYear) * 100
}
