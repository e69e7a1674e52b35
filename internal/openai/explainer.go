package openai

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const systemPrompt = `Eres un asesor financiero que explica resultados de inversión a personas sin formación financiera.
Recibirás un reporte en markdown con el rendimiento total, el riesgo (desviación estándar anualizada) y, cuando exista, el Sharpe Ratio de varios ETFs.

Responde en español con esta estructura:

**Resumen:**
[Dos o tres frases sobre qué ETF rindió más y cuál fue más riesgoso]

**Riesgo y rendimiento:**
[Compara los ETFs usando los números del reporte]

**Advertencia:**
[Recuerda que el rendimiento pasado no garantiza resultados futuros]

No inventes cifras que no estén en el reporte. No recomiendes comprar ni vender.`

// maxReportLen caps the report sent to the model.
const maxReportLen = 6000

// Explainer turns a computed report into a plain-language explanation.
type Explainer struct {
	cli   oa.Client
	model string
}

// NewExplainer builds an explainer for apiKey. Extra options are passed to the
// OpenAI client.
func NewExplainer(apiKey, model string, opts ...option.RequestOption) *Explainer {
	if model == "" {
		model = "gpt-4"
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Explainer{cli: oa.NewClient(opts...), model: model}
}

// Explain sends the markdown report and returns the model's answer.
func (e *Explainer) Explain(ctx context.Context, reportMarkdown string) (string, error) {
	report := sanitizeReport(reportMarkdown)
	if report == "" {
		return "", fmt.Errorf("empty report")
	}

	resp, err := e.cli.Chat.Completions.New(ctx, oa.ChatCompletionNewParams{
		Model: e.model,
		Messages: []oa.ChatCompletionMessageParamUnion{
			oa.SystemMessage(systemPrompt),
			oa.UserMessage("Explica este reporte:\n\n" + report),
		},
		MaxTokens: oa.Int(1500),
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

var (
	reMarkdownImg = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	reURL         = regexp.MustCompile(`https?://\S+`)
)

// sanitizeReport strips chart images and links, then truncates.
func sanitizeReport(s string) string {
	s = reMarkdownImg.ReplaceAllString(s, "")
	s = reURL.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	if len(s) > maxReportLen {
		s = s[:maxReportLen]
	}
	return s
}
