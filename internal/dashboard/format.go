package dashboard

import (
	"strconv"

	"etfDashboard/internal/finance"
)

// Format2 renders a metric rounded to two decimals, never as "-0.00".
func Format2(x float64) string {
	v := finance.Round2(x)
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
