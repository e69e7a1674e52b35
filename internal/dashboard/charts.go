package dashboard

import (
	"fmt"

	"etfDashboard/internal/finance"
)

const (
	returnChartTitle     = "Rendimiento Acumulado de los ETFs Seleccionados"
	volatilityChartTitle = "Riesgo Acumulado de los ETFs Seleccionados"
)

// ReturnChart renders the cumulative return (%) chart of a report.
func ReturnChart(r *Report) ([]byte, error) {
	img, err := finance.RenderLineChart(returnChartTitle, "Rendimiento Acumulado (%) • "+r.Period.Label, r.CumulativeReturnLines())
	if err != nil {
		return nil, fmt.Errorf("return chart: %w", err)
	}
	return img, nil
}

// VolatilityChart renders the cumulative annualized volatility (%) chart of a report.
func VolatilityChart(r *Report) ([]byte, error) {
	img, err := finance.RenderLineChart(volatilityChartTitle, "Volatilidad Acumulada (%) • "+r.Period.Label, r.CumulativeVolatilityLines())
	if err != nil {
		return nil, fmt.Errorf("volatility chart: %w", err)
	}
	return img, nil
}
