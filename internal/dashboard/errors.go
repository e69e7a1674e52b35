package dashboard

import "errors"

var (
	ErrMissingFields     = errors.New("missing required login fields")
	ErrBelowMinimum      = errors.New("investment amount below minimum")
	ErrInvalidAmount     = errors.New("investment amount is not a number")
	ErrNoSelection       = errors.New("no instruments selected")
	ErrUnknownInstrument = errors.New("unknown instrument")
	ErrUnknownPeriod     = errors.New("unknown period")
)

// User-facing texts, in the dashboard's language.
const (
	MsgMissingFields     = "Falta información. Asegúrate de que esten todos los datos completos."
	MsgBelowMinimum      = "La aportación mínima es de $1,000. Por favor, ingresa un monto de inversión válido."
	MsgNoRiskFreeRate    = "No se pudo obtener la tasa libre de riesgo para calcular el Sharpe ratio."
	MsgNoSelection       = "Selecciona uno o más índices ETFs para ver su información financiera."
	MsgUnknownInstrument = "Alguno de los ETFs seleccionados no existe en el catálogo."
	MsgUnknownPeriod     = "Selecciona un periodo válido."
)

// UserMessage maps a dashboard error to the text shown to the user.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingFields):
		return MsgMissingFields
	case errors.Is(err, ErrBelowMinimum), errors.Is(err, ErrInvalidAmount):
		return MsgBelowMinimum
	case errors.Is(err, ErrNoSelection):
		return MsgNoSelection
	case errors.Is(err, ErrUnknownInstrument):
		return MsgUnknownInstrument
	case errors.Is(err, ErrUnknownPeriod):
		return MsgUnknownPeriod
	default:
		return "Ocurrió un error inesperado."
	}
}
