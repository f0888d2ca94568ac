package domain

import "time"

// StorageType is one of the fixed storage requirements a product may carry.
// The values are exact; anything else coming back from enrichment is invalid.
type StorageType string

const (
	StorageDry        StorageType = "Dry Storage"
	StorageDeepFrozen StorageType = "Deep Frozen"
	StorageAmbient    StorageType = "Ambient Storage"
	StorageFrozenFood StorageType = "Frozen Food Storage"
)

// StorageTypes lists every valid storage value, in prompt order.
var StorageTypes = []StorageType{
	StorageDry,
	StorageDeepFrozen,
	StorageAmbient,
	StorageFrozenFood,
}

// ParseStorageType matches s against the fixed enumeration, case-sensitively.
func ParseStorageType(s string) (StorageType, bool) {
	for _, st := range StorageTypes {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Enrichment is the set of derived attributes the enrichment flow may
// overwrite. Every field is independently absent; a successful enrichment
// replaces the whole set, there is no per-field carry-forward.
type Enrichment struct {
	Description  *string       `json:"description"`
	ItemWeight   *Measure      `json:"itemWeight"`
	Ingredients  []string      `json:"ingredients"`
	Storage      []StorageType `json:"storage"`
	ItemsPerPack *int          `json:"itemsPerPack"`
	Color        *string       `json:"color"`
	Material     *string       `json:"material"`
	Width        *Measure      `json:"width"`
	Height       *Measure      `json:"height"`
	Warranty     *int          `json:"warranty"`
}

// Product represents a catalog record. ID, ProductName, Brand, Barcode and
// Images are immutable once created: the enrichment flow never writes them.
type Product struct {
	ID          int64    `json:"id"`
	ProductName string   `json:"productName"`
	Brand       string   `json:"brand"`
	Barcode     *string  `json:"barcode"`
	Images      []string `json:"images"`
	Enrichment

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EnrichmentResult is the ephemeral output of one enrichment attempt: the
// validated enrichable fields plus the echoed immutable fields of the product
// they were derived from. It is never persisted as-is; the merge policy
// decides what reaches the store.
type EnrichmentResult struct {
	ProductID   int64    `json:"id"`
	ProductName string   `json:"productName"`
	Brand       string   `json:"brand"`
	Barcode     *string  `json:"barcode"`
	Images      []string `json:"images"`
	Enrichment
}
