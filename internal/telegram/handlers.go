package telegram

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"etfDashboard/internal/catalog"
	"etfDashboard/internal/dashboard"
)

var (
	reHelp = regexp.MustCompile(`^/(help|start)(?:@[\w_]+)?$`)
	reETFs = regexp.MustCompile(`^/etfs(?:@[\w_]+)?$`)
	// /analyze S1 S2 ... PERIOD [AMOUNT]
	reAnalyze = regexp.MustCompile(`^/analyze(?:@[\w_]+)?(?:\s+(.*))?$`)
	// /faq [N]
	reFAQ = regexp.MustCompile(`^/faq(?:@[\w_]+)?(?:\s+(\d+))?$`)
)

const analyzeUsage = "Uso: /analyze QQQ SPY 1y [monto]\nPeriodos: 1mo 3mo 6mo 1y ytd 5y 10y"

// Analyzer runs a dashboard analysis.
type Analyzer interface {
	Analyze(ctx context.Context, sel dashboard.Selection) (*dashboard.Report, error)
}

// sender is the part of the Bot API the handlers use.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Handlers struct {
	api      sender
	analyzer Analyzer
	timeout  time.Duration
}

func NewHandlers(api sender, analyzer Analyzer) *Handlers {
	return &Handlers{api: api, analyzer: analyzer, timeout: 90 * time.Second}
}

func (h *Handlers) HandleMessage(m *tgbotapi.Message) {
	if m == nil || m.Chat == nil {
		return
	}
	txt := strings.TrimSpace(m.Text)
	switch {
	case reHelp.MatchString(txt):
		h.handleHelp(m.Chat.ID)

	case reETFs.MatchString(txt):
		h.handleCatalog(m.Chat.ID)

	case reAnalyze.MatchString(txt):
		g := reAnalyze.FindStringSubmatch(txt)
		sel, amount, err := parseAnalyzeArgs(g[1])
		if err != nil {
			h.reply(m.Chat.ID, analyzeUsage)
			return
		}
		h.handleAnalyze(m.Chat.ID, sel, amount)

	case reFAQ.MatchString(txt):
		g := reFAQ.FindStringSubmatch(txt)
		h.handleFAQ(m.Chat.ID, g[1])
	}
}

// parseAnalyzeArgs splits "QQQ SPY 1y 5000" into a selection and an optional
// amount. The period is the first token that is a known period code.
func parseAnalyzeArgs(args string) (dashboard.Selection, *float64, error) {
	var sel dashboard.Selection
	var amount *float64
	for _, tok := range strings.Fields(args) {
		if p, ok := catalog.PeriodByCode(tok); ok && sel.PeriodLabel == "" {
			sel.PeriodLabel = p.Label
			continue
		}
		if v, err := strconv.ParseFloat(strings.ReplaceAll(tok, ",", ""), 64); err == nil {
			amount = &v
			continue
		}
		sel.Symbols = append(sel.Symbols, tok)
	}
	if len(sel.Symbols) == 0 || sel.PeriodLabel == "" {
		return sel, nil, errors.New("symbols and period are required")
	}
	return sel, amount, nil
}

func (h *Handlers) handleAnalyze(chatID int64, sel dashboard.Selection, amount *float64) {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	rep, err := h.analyzer.Analyze(ctx, sel)
	if err != nil {
		h.reply(chatID, dashboard.UserMessage(err))
		return
	}

	var projections []dashboard.Projection
	if amount != nil {
		projections, err = dashboard.Project(*amount, rep.Results)
		if err != nil {
			h.reply(chatID, dashboard.UserMessage(err))
		}
	}

	var b strings.Builder
	dashboard.WriteMarkdown(&b, rep, projections)
	h.reply(chatID, b.String())

	if len(rep.Results) == 0 {
		return
	}
	h.sendChart(chatID, rep, "rendimiento", dashboard.ReturnChart)
	h.sendChart(chatID, rep, "riesgo", dashboard.VolatilityChart)
}

func (h *Handlers) sendChart(chatID int64, rep *dashboard.Report, kind string, render func(*dashboard.Report) ([]byte, error)) {
	img, err := render(rep)
	if err != nil {
		log.Warn().Err(err).Str("chart", kind).Msg("telegram: chart omitted")
		return
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: kind + "_" + rep.Period.Code + ".png", Bytes: img})
	photo.Caption = strings.ToUpper(kind[:1]) + kind[1:] + " acumulado • " + rep.Period.Label
	if _, err := h.api.Send(photo); err != nil {
		log.Warn().Err(err).Int64("chat_id", chatID).Msg("telegram: send photo failed")
	}
}

func (h *Handlers) handleCatalog(chatID int64) {
	var b strings.Builder
	b.WriteString("ETFs disponibles\n\n")
	for _, in := range catalog.Instruments() {
		fmt.Fprintf(&b, "- %s (%s): %s\n", in.Symbol, in.Name, in.Description)
	}
	b.WriteString("\nPeriodos\n\n")
	for _, p := range catalog.Periods() {
		fmt.Fprintf(&b, "- %s = %s\n", p.Code, p.Label)
	}
	h.reply(chatID, b.String())
}

func (h *Handlers) handleFAQ(chatID int64, arg string) {
	if arg == "" {
		var b strings.Builder
		b.WriteString("Preguntas frecuentes (responde con /faq N)\n\n")
		for i, e := range catalog.FAQ() {
			fmt.Fprintf(&b, "%d. %s\n", i+1, e.Question)
		}
		h.reply(chatID, b.String())
		return
	}
	n, _ := strconv.Atoi(arg)
	e, ok := catalog.FAQByIndex(n - 1)
	if !ok {
		h.reply(chatID, fmt.Sprintf("Pregunta %s no encontrada. Usa /faq para ver la lista.", arg))
		return
	}
	h.reply(chatID, e.Question+"\n\n"+strings.ReplaceAll(e.Answer, "**", ""))
}

func (h *Handlers) handleHelp(chatID int64) {
	help := "Comandos\n\n" +
		"- /etfs - Lista de ETFs y periodos disponibles\n" +
		"- /analyze S1 S2 ... PERIODO [monto] - Rendimiento, riesgo, Sharpe Ratio y gráficas; con monto (mínimo $1,000) calcula el crecimiento de la inversión\n" +
		"- /faq [N] - Preguntas frecuentes\n" +
		"\nEjemplo: /analyze QQQ SPY 1y 5000"
	h.reply(chatID, help)
}

func (h *Handlers) reply(chatID int64, text string) {
	if _, err := h.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Warn().Err(err).Int64("chat_id", chatID).Msg("telegram: send failed")
	}
}
