package catalog

import "strings"

// Instrument is an investable ETF offered by the dashboard.
type Instrument struct {
	Name        string
	Description string
	Symbol      string
}

// Period maps a display label to the provider range code.
type Period struct {
	Label string
	Code  string
}

// FAQEntry is one question of the help section.
type FAQEntry struct {
	Question string
	Answer   string
}

var instruments = []Instrument{
	{Name: "AZ QQQ NASDAQ 100", Description: "ETF que sigue el rendimiento del índice NASDAQ 100.", Symbol: "QQQ"},
	{Name: "AZ SPDR S&P 500 ETF TRUST", Description: "ETF que sigue el rendimiento del índice S&P 500.", Symbol: "SPY"},
	{Name: "AZ SPDR DJIA TRUST", Description: "ETF que sigue el rendimiento del índice Dow Jones Industrial Average.", Symbol: "DIA"},
	{Name: "AZ VANGUARD EMERGING MARKET ETF", Description: "ETF de Vanguard que sigue el rendimiento de mercados emergentes.", Symbol: "VWO"},
	{Name: "AZ FINANCIAL SELECT SECTOR SPDR", Description: "ETF que sigue el rendimiento del sector financiero de EE.UU.", Symbol: "XLF"},
	{Name: "AZ HEALTH CARE SELECT SECTOR", Description: "ETF que sigue el rendimiento del sector de salud de EE.UU.", Symbol: "XLV"},
	{Name: "AZ DJ US HOME CONSTRUCT", Description: "ETF que sigue el rendimiento del sector de construcción de viviendas en EE.UU.", Symbol: "ITB"},
	{Name: "AZ SILVER TRUST", Description: "ETF que sigue el precio de la plata.", Symbol: "SLV"},
	{Name: "AZ MSCI TAIWAN INDEX FD", Description: "ETF que sigue el rendimiento del índice MSCI Taiwan.", Symbol: "EWT"},
	{Name: "AZ MSCI UNITED KINGDOM", Description: "ETF que sigue el rendimiento del índice MSCI United Kingdom.", Symbol: "EWU"},
	{Name: "AZ MSCI SOUTH KOREA IND", Description: "ETF que sigue el rendimiento del índice MSCI South Korea.", Symbol: "EWY"},
	{Name: "AZ MSCI EMU", Description: "ETF que sigue el rendimiento del índice MSCI EMU (Unión Monetaria Europea).", Symbol: "EZU"},
	{Name: "AZ MSCI JAPAN INDEX FD", Description: "ETF que sigue el rendimiento del índice MSCI Japan.", Symbol: "EWJ"},
	{Name: "AZ MSCI CANADA", Description: "ETF que sigue el rendimiento del índice MSCI Canada.", Symbol: "EWC"},
	{Name: "AZ MSCI GERMANY INDEX", Description: "ETF que sigue el rendimiento del índice MSCI Germany.", Symbol: "EWG"},
	{Name: "AZ MSCI AUSTRALIA INDEX", Description: "ETF que sigue el rendimiento del índice MSCI Australia.", Symbol: "EWA"},
	{Name: "AZ BARCLAYS AGGREGATE", Description: "ETF que sigue el rendimiento del índice de bonos Barclays Aggregate.", Symbol: "AGG"},
}

// periods are kept in display order.
var periods = []Period{
	{Label: "1 mes", Code: "1mo"},
	{Label: "3 meses", Code: "3mo"},
	{Label: "6 meses", Code: "6mo"},
	{Label: "1 año", Code: "1y"},
	{Label: "año a la fecha", Code: "ytd"},
	{Label: "5 años", Code: "5y"},
	{Label: "10 años", Code: "10y"},
}

var faq = []FAQEntry{
	{
		Question: "¿Qué es un ETF?",
		Answer:   "Un ETF (Fondo Cotizado en Bolsa) es un tipo de inversión que agrupa varios activos, como acciones o bonos, y se puede comprar o vender en la bolsa de valores. Ofrece diversificación y suele tener costos más bajos que los fondos de inversión tradicionales.",
	},
	{
		Question: "¿Qué es el rendimiento?",
		Answer:   "El rendimiento es el crecimiento o la disminución en el valor de una inversión durante un período de tiempo específico. Se expresa generalmente como un porcentaje.",
	},
	{
		Question: "¿Qué es el riesgo en las inversiones?",
		Answer:   "El riesgo es la posibilidad de que el valor de una inversión baje. Se mide a menudo por la volatilidad de los precios de esa inversión.",
	},
	{
		Question: "¿Qué es el Sharpe Ratio?",
		Answer:   "El **Sharpe Ratio** es una medida que evalúa el rendimiento de una inversión en relación con su riesgo. Para evaluar la inversión se utiliza una tasa libre de riesgo, que en este caso son los Bonos del Tesoro de los Estados Unidos. Un Sharpe Ratio alto indica que la inversión tiene un buen rendimiento ajustado al riesgo.",
	},
	{
		Question: "¿Cuál sería un buen Sharpe Ratio?",
		Answer:   "- Si es menor a 1, la inversión no genera buenos retornos.\n- Si el Sharpe tiene valores entre 1 y 3 se considera como un buen nivel de riesgo/rendimiento.\n- Si es mayor a 3 se considera una excelente inversión.",
	},
	{
		Question: "¿Qué es una tasa libre de riesgo?",
		Answer:   "La tasa libre de riesgo es el rendimiento que se podría obtener de una inversión sin riesgo de pérdida, como los bonos del gobierno de corta duración.",
	},
}

// Instruments returns a copy of the instrument list in catalog order.
func Instruments() []Instrument {
	out := make([]Instrument, len(instruments))
	copy(out, instruments)
	return out
}

// Periods returns a copy of the periods in display order.
func Periods() []Period {
	out := make([]Period, len(periods))
	copy(out, periods)
	return out
}

// FAQ returns a copy of the FAQ entries. Answers are markdown.
func FAQ() []FAQEntry {
	out := make([]FAQEntry, len(faq))
	copy(out, faq)
	return out
}

// InstrumentBySymbol looks an instrument up by ticker, case-insensitively.
func InstrumentBySymbol(symbol string) (Instrument, bool) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	for _, in := range instruments {
		if in.Symbol == symbol {
			return in, true
		}
	}
	return Instrument{}, false
}

// PeriodByLabel looks a period up by its display label.
func PeriodByLabel(label string) (Period, bool) {
	label = strings.TrimSpace(label)
	for _, p := range periods {
		if p.Label == label {
			return p, true
		}
	}
	return Period{}, false
}

// PeriodByCode looks a period up by its provider code (e.g. "1y").
func PeriodByCode(code string) (Period, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, p := range periods {
		if p.Code == code {
			return p, true
		}
	}
	return Period{}, false
}

// FAQByIndex returns the i-th FAQ entry.
func FAQByIndex(i int) (FAQEntry, bool) {
	if i < 0 || i >= len(faq) {
		return FAQEntry{}, false
	}
	return faq[i], true
}
