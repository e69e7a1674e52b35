package server

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"etfDashboard/internal/catalog"
	"etfDashboard/internal/dashboard"
	"etfDashboard/internal/finance"
)

const msgExplainFailed = "No se pudo generar la explicación en este momento."

// Explainer produces a plain-language explanation of a markdown report.
type Explainer interface {
	Explain(ctx context.Context, reportMarkdown string) (string, error)
}

// Server holds the state behind the dashboard routes.
type Server struct {
	session    *dashboard.Session
	controller *dashboard.Controller
	charts     *finance.ChartCache
	explainer  Explainer
	render     *renderer
}

// New builds a Server. explainer may be nil.
func New(session *dashboard.Session, controller *dashboard.Controller, charts *finance.ChartCache, explainer Explainer) (*Server, error) {
	r, err := newRenderer()
	if err != nil {
		return nil, err
	}
	return &Server{
		session:    session,
		controller: controller,
		charts:     charts,
		explainer:  explainer,
		render:     r,
	}, nil
}

type loginPage struct {
	Error        string
	FullName     string
	PolicyNumber string
}

type instrumentOption struct {
	catalog.Instrument
	Selected bool
}

type periodOption struct {
	catalog.Period
	Selected bool
}

type faqOption struct {
	Index    int
	Question string
	Selected bool
}

type dashboardPage struct {
	Holder           string
	Instruments      []instrumentOption
	Periods          []periodOption
	FAQ              []faqOption
	Amount           string
	ProjectRequested bool
	ExplainRequested bool
	ExplainerEnabled bool

	Error   string
	Message string

	Report            *dashboard.Report
	SharpeWarning     string
	ReturnChartID     string
	VolatilityChartID string

	Projections     []dashboard.Projection
	ProjectionError string

	Explanation template.HTML
	FAQQuestion string
	FAQAnswer   template.HTML
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.session.State() == dashboard.StateDashboard {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	s.render.page(w, http.StatusOK, "login", loginPage{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := dashboard.LoginForm{
		FullName:     r.PostFormValue("full_name"),
		PolicyNumber: r.PostFormValue("policy_number"),
		Password:     r.PostFormValue("password"),
	}
	if err := s.session.Login(form); err != nil {
		log.Info().Err(err).Msg("http: login rejected")
		s.render.page(w, http.StatusUnprocessableEntity, "login", loginPage{
			Error:        dashboard.UserMessage(err),
			FullName:     form.FullName,
			PolicyNumber: form.PolicyNumber,
		})
		return
	}
	log.Info().Str("holder", s.session.HolderName()).Msg("http: login")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleReturn(w http.ResponseWriter, r *http.Request) {
	s.session.Return()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	img, ok := s.charts.Get(mux.Vars(r)["id"])
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=600")
	w.Write(img)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if s.session.State() != dashboard.StateDashboard {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	q := r.URL.Query()
	sel := dashboard.Selection{Symbols: q["etf"], PeriodLabel: q.Get("period")}
	if sel.PeriodLabel == "" {
		sel.PeriodLabel = catalog.Periods()[0].Label
	}
	amount := strings.TrimSpace(q.Get("amount"))
	if amount == "" {
		amount = strconv.Itoa(dashboard.MinimumInvestment)
	}

	page := &dashboardPage{
		Holder:           s.session.HolderName(),
		Amount:           amount,
		ProjectRequested: q.Get("project") == "1",
		ExplainRequested: q.Get("explain") == "1",
		ExplainerEnabled: s.explainer != nil,
	}
	page.Instruments, page.Periods = selectionOptions(sel)
	faqIndex := faqOptions(page, q.Get("faq"))

	status := http.StatusOK
	if len(sel.Symbols) == 0 {
		page.Message = dashboard.MsgNoSelection
	} else {
		rep, err := s.controller.Analyze(r.Context(), sel)
		switch {
		case err != nil:
			page.Error = dashboard.UserMessage(err)
			status = http.StatusBadRequest
			if errors.Is(err, dashboard.ErrNoSelection) {
				page.Error, page.Message, status = "", dashboard.MsgNoSelection, http.StatusOK
			}
		default:
			s.fillReport(r.Context(), page, rep)
		}
	}

	if faqIndex >= 0 {
		entry, _ := catalog.FAQByIndex(faqIndex)
		page.FAQQuestion = entry.Question
		page.FAQAnswer = s.render.markdown(entry.Answer)
	}
	s.render.page(w, status, "dashboard", page)
}

func (s *Server) fillReport(ctx context.Context, page *dashboardPage, rep *dashboard.Report) {
	page.Report = rep
	if !rep.SharpeAvailable() {
		page.SharpeWarning = dashboard.MsgNoRiskFreeRate
	}

	if len(rep.Results) > 0 {
		if img, err := dashboard.ReturnChart(rep); err != nil {
			log.Warn().Err(err).Msg("http: chart omitted")
		} else {
			page.ReturnChartID = s.charts.Put(img)
		}
		if img, err := dashboard.VolatilityChart(rep); err != nil {
			log.Warn().Err(err).Msg("http: chart omitted")
		} else {
			page.VolatilityChartID = s.charts.Put(img)
		}
	}

	if page.ProjectRequested {
		amt, err := strconv.ParseFloat(page.Amount, 64)
		if err != nil {
			err = dashboard.ErrInvalidAmount
		} else {
			page.Projections, err = dashboard.Project(amt, rep.Results)
		}
		if err != nil {
			page.ProjectionError = dashboard.UserMessage(err)
		}
	}

	if page.ExplainRequested && s.explainer != nil && len(rep.Results) > 0 {
		var md strings.Builder
		dashboard.WriteMarkdown(&md, rep, page.Projections)
		ctx, cancel := context.WithTimeout(ctx, 45*time.Second)
		defer cancel()
		text, err := s.explainer.Explain(ctx, md.String())
		if err != nil {
			log.Warn().Err(err).Msg("http: explanation failed")
			text = msgExplainFailed
		}
		page.Explanation = s.render.markdown(text)
	}
}

func selectionOptions(sel dashboard.Selection) ([]instrumentOption, []periodOption) {
	picked := map[string]bool{}
	for _, sym := range sel.Symbols {
		picked[strings.ToUpper(strings.TrimSpace(sym))] = true
	}
	var ins []instrumentOption
	for _, in := range catalog.Instruments() {
		ins = append(ins, instrumentOption{Instrument: in, Selected: picked[in.Symbol]})
	}
	var ps []periodOption
	for _, p := range catalog.Periods() {
		ps = append(ps, periodOption{Period: p, Selected: p.Label == sel.PeriodLabel || p.Code == sel.PeriodLabel})
	}
	return ins, ps
}

// faqOptions fills the FAQ selector and returns the chosen index, or -1.
func faqOptions(page *dashboardPage, raw string) int {
	chosen := -1
	if i, err := strconv.Atoi(raw); err == nil {
		if _, ok := catalog.FAQByIndex(i); ok {
			chosen = i
		}
	}
	for i, e := range catalog.FAQ() {
		page.FAQ = append(page.FAQ, faqOption{Index: i, Question: e.Question, Selected: i == chosen})
	}
	return chosen
}
