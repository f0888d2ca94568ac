package enrich

import (
	"context"
	"encoding/json"

	"shelfstock/internal/domain"

	"go.uber.org/zap"
)

// Enricher drives one enrichment attempt end to end: build prompt, call the
// model, extract the candidate, decode, validate. Any failure aborts the
// whole attempt; there is no retry and no partial result.
type Enricher struct {
	client CompletionClient
	logger *zap.Logger
}

// NewEnricher creates an Enricher around a completion client.
func NewEnricher(client CompletionClient, logger *zap.Logger) *Enricher {
	return &Enricher{
		client: client,
		logger: logger,
	}
}

// Enrich produces a validated enrichment candidate for the product. The
// result echoes the product's immutable fields but the merge policy, not this
// method, decides what is persisted.
func (e *Enricher) Enrich(ctx context.Context, product domain.Product) (domain.EnrichmentResult, error) {
	prompt := BuildPrompt(product)

	raw, err := e.client.Complete(ctx, prompt)
	if err != nil {
		return domain.EnrichmentResult{}, err
	}
	e.logger.Debug("Received completion text",
		zap.Int64("product_id", product.ID),
		zap.Int("length", len(raw)),
	)

	candidate, err := ExtractJSON(raw)
	if err != nil {
		return domain.EnrichmentResult{}, err
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		e.logger.Warn("Completion output is not valid JSON",
			zap.Int64("product_id", product.ID),
			zap.String("candidate", candidate),
		)
		return domain.EnrichmentResult{}, &ParseError{Raw: candidate, Err: err}
	}

	enrichment, err := ValidateCandidate(payload)
	if err != nil {
		return domain.EnrichmentResult{}, err
	}

	return domain.EnrichmentResult{
		ProductID:   product.ID,
		ProductName: product.ProductName,
		Brand:       product.Brand,
		Barcode:     product.Barcode,
		Images:      product.Images,
		Enrichment:  enrichment,
	}, nil
}
