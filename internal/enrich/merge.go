package enrich

import "shelfstock/internal/domain"

// Merge applies the record merge policy: identity and descriptive fields
// always come from the original record, never from the candidate, even when
// the candidate echoes conflicting values. The enrichable set is taken
// wholesale from the candidate, so fields the model omitted become absent.
func Merge(original domain.Product, candidate domain.EnrichmentResult) domain.Product {
	return domain.Product{
		ID:          original.ID,
		ProductName: original.ProductName,
		Brand:       original.Brand,
		Barcode:     original.Barcode,
		Images:      original.Images,
		Enrichment:  candidate.Enrichment,
		CreatedAt:   original.CreatedAt,
		UpdatedAt:   original.UpdatedAt,
	}
}
