package dashboard

import (
	"fmt"
	"io"
	"strings"
)

// WriteMarkdown renders a report, and projections when given, as markdown.
func WriteMarkdown(w io.Writer, r *Report, projections []Projection) {
	var b strings.Builder

	fmt.Fprintf(&b, "# Análisis de instrumentos de inversión\n\n")
	fmt.Fprintf(&b, "Periodo: **%s**\n\n", r.Period.Label)

	b.WriteString("**Descripción de los ETFs seleccionados:**\n\n")
	for _, in := range r.Selected {
		fmt.Fprintf(&b, "- **%s:** %s\n", in.Name, in.Description)
	}
	b.WriteString("\n")

	if r.SharpeAvailable() {
		b.WriteString("## Sharpe Ratio Calculado\n\n")
		b.WriteString("| ETF | Sharpe Ratio |\n|---|---:|\n")
		for _, row := range r.Sharpe {
			fmt.Fprintf(&b, "| %s | %s |\n", row.Instrument.Name, Format2(row.Ratio))
		}
		b.WriteString("\n")
	} else {
		fmt.Fprintf(&b, "> %s\n\n", MsgNoRiskFreeRate)
	}

	b.WriteString("## Rendimiento y Riesgo\n\n")
	b.WriteString("| ETF | Rendimiento Total (%) | Riesgo (Desviación Estándar Anualizada) (%) |\n|---|---:|---:|\n")
	for _, res := range r.Results {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", res.Instrument.Name, Format2(res.Metrics.TotalReturnPct), Format2(res.Metrics.AnnualizedVolatilityPct))
	}
	b.WriteString("\n")

	if len(projections) > 0 {
		b.WriteString("## Crecimiento de la inversión\n\n")
		for _, p := range projections {
			fmt.Fprintf(&b, "Por tu inversión en el ETF **%s**, tu saldo final sería de **%s**.\n\n", p.Instrument.Name, p.FinalDisplay())
		}
	}

	io.WriteString(w, b.String())
}
