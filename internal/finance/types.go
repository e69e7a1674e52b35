package finance

import (
	"time"
)

// yahooChartResp mirrors Yahoo v8 chart response (trimmed to needed fields).
// Closes are pointers because Yahoo reports missing bars as null.
type yahooChartResp struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol               string `json:"symbol"`
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// PricePoint is one daily closing observation.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// PriceSeries is the chronologically ordered closing history of one symbol
// over one period. The first point is the period's opening observation.
type PriceSeries struct {
	Symbol string
	Points []PricePoint
}

func (s PriceSeries) Len() int    { return len(s.Points) }
func (s PriceSeries) Empty() bool { return len(s.Points) == 0 }

// First returns the opening close. The series must not be empty.
func (s PriceSeries) First() float64 { return s.Points[0].Close }

// Last returns the closing close. The series must not be empty.
func (s PriceSeries) Last() float64 { return s.Points[len(s.Points)-1].Close }

// SeriesPoint is a dated value of a derived series (percentages).
type SeriesPoint struct {
	Date  time.Time
	Value float64
}

// Metrics are the scalar results for one instrument and period, in percent,
// at full precision.
type Metrics struct {
	TotalReturnPct          float64
	AnnualizedVolatilityPct float64
}
