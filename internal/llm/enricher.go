package llm

import (
	"context"
	"log/slog"
)

// Enricher derives summary, buzzword and title text for a document using
// task-specific models. Enrichment is best-effort by design: summary, keywords
// and title are enhancements, not required fields, so every failure is logged
// and absorbed into an empty string and the pipeline always completes.
type Enricher struct {
	client        *Client
	summaryModel  string
	buzzwordModel string
	titleModel    string
	logger        *slog.Logger
}

// NewEnricher creates an Enricher backed by the given generation client.
func NewEnricher(client *Client, summaryModel, buzzwordModel, titleModel string) *Enricher {
	return &Enricher{
		client:        client,
		summaryModel:  summaryModel,
		buzzwordModel: buzzwordModel,
		titleModel:    titleModel,
		logger:        slog.Default(),
	}
}

// Summarize returns a model-generated summary of the extracted text.
func (e *Enricher) Summarize(ctx context.Context, text string) string {
	return e.generate(ctx, e.summaryModel, text)
}

// Buzzwords returns model-generated keyword text for the extracted text.
func (e *Enricher) Buzzwords(ctx context.Context, text string) string {
	return e.generate(ctx, e.buzzwordModel, text)
}

// Title returns a model-generated title. The prompt is the buzzword text, not
// the raw content: the keywords act as a compressed signal for title
// generation, and that ordering is part of the pipeline contract.
func (e *Enricher) Title(ctx context.Context, buzzwords string) string {
	return e.generate(ctx, e.titleModel, buzzwords)
}

func (e *Enricher) generate(ctx context.Context, model, prompt string) string {
	text, err := e.client.Generate(ctx, model, prompt)
	if err != nil {
		e.logger.WarnContext(ctx, "enrichment failed, continuing with empty text",
			"model", model, "error", err)
		return ""
	}
	return text
}
