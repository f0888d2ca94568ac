package enrich

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"shelfstock/internal/domain"
)

// ValidateCandidate coerces an untrusted, decoded model payload into the
// strict enrichment schema. It is the single place where string-to-number
// coercion happens; anything that does not coerce cleanly fails the field
// rather than defaulting. Immutable product fields echoed by the model
// (id, productName, brand, barcode, images) are ignored here because the
// merge policy never reads them from the candidate anyway.
func ValidateCandidate(candidate map[string]any) (domain.Enrichment, error) {
	var enr domain.Enrichment
	var err error

	if enr.Description, err = optionalString(candidate, "description"); err != nil {
		return domain.Enrichment{}, err
	}
	if enr.Color, err = optionalString(candidate, "color"); err != nil {
		return domain.Enrichment{}, err
	}
	if enr.Material, err = optionalString(candidate, "material"); err != nil {
		return domain.Enrichment{}, err
	}

	if enr.ItemWeight, err = optionalMeasure(candidate, "itemWeight"); err != nil {
		return domain.Enrichment{}, err
	}
	if enr.Width, err = optionalMeasure(candidate, "width"); err != nil {
		return domain.Enrichment{}, err
	}
	if enr.Height, err = optionalMeasure(candidate, "height"); err != nil {
		return domain.Enrichment{}, err
	}

	if enr.ItemsPerPack, err = optionalNonNegativeInt(candidate, "itemsPerPack"); err != nil {
		return domain.Enrichment{}, err
	}
	if enr.Warranty, err = optionalNonNegativeInt(candidate, "warranty"); err != nil {
		return domain.Enrichment{}, err
	}

	if enr.Ingredients, err = optionalStringList(candidate, "ingredients"); err != nil {
		return domain.Enrichment{}, err
	}
	if enr.Storage, err = storageList(candidate); err != nil {
		return domain.Enrichment{}, err
	}

	return enr, nil
}

func optionalString(candidate map[string]any, field string) (*string, error) {
	raw, ok := candidate[field]
	if !ok || raw == nil {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, &ValidationError{Field: field, Reason: fmt.Sprintf("expected a string, got %T", raw)}
	}
	return &s, nil
}

// coerceNumber accepts a JSON number or a bare numeric string. Strings with
// trailing garbage ("2 years") fail; this is the one sanctioned coercion.
func coerceNumber(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case json.Number:
		return v.Float64()
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", raw)
	}
}

func optionalNonNegativeInt(candidate map[string]any, field string) (*int, error) {
	raw, ok := candidate[field]
	if !ok || raw == nil {
		return nil, nil
	}
	n, err := coerceNumber(raw)
	if err != nil {
		return nil, &ValidationError{Field: field, Reason: err.Error()}
	}
	if n != math.Trunc(n) {
		return nil, &ValidationError{Field: field, Reason: fmt.Sprintf("%v is not an integer", n)}
	}
	if n < 0 {
		return nil, &ValidationError{Field: field, Reason: fmt.Sprintf("%v is negative", n)}
	}
	i := int(n)
	return &i, nil
}

// optionalMeasure applies the pair-or-absent rule: value and unit must both
// be usable or the whole Measure reads as absent. A present value that fails
// numeric coercion is still an error, never a silent default.
func optionalMeasure(candidate map[string]any, field string) (*domain.Measure, error) {
	raw, ok := candidate[field]
	if !ok || raw == nil {
		return nil, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, &ValidationError{Field: field, Reason: fmt.Sprintf("expected an object with value and unit, got %T", raw)}
	}

	rawValue, hasValue := obj["value"]
	rawUnit, hasUnit := obj["unit"]
	if hasValue && rawValue == nil {
		hasValue = false
	}
	if hasUnit && rawUnit == nil {
		hasUnit = false
	}

	unit := ""
	if hasUnit {
		s, ok := rawUnit.(string)
		if !ok {
			return nil, &ValidationError{Field: field, Reason: fmt.Sprintf("unit must be a string, got %T", rawUnit)}
		}
		unit = strings.TrimSpace(s)
		if unit == "" {
			hasUnit = false
		}
	}

	if !hasValue || !hasUnit {
		return nil, nil
	}

	value, err := coerceNumber(rawValue)
	if err != nil {
		return nil, &ValidationError{Field: field, Reason: "value: " + err.Error()}
	}
	if value < 0 {
		return nil, &ValidationError{Field: field, Reason: fmt.Sprintf("value %v is negative", value)}
	}

	return &domain.Measure{Value: value, Unit: unit}, nil
}

func optionalStringList(candidate map[string]any, field string) ([]string, error) {
	raw, ok := candidate[field]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, &ValidationError{Field: field, Reason: fmt.Sprintf("expected an array of strings, got %T", raw)}
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, &ValidationError{Field: field, Reason: fmt.Sprintf("element %d: expected a string, got %T", i, item)}
		}
		out = append(out, s)
	}
	return out, nil
}

// storageList validates the storage requirements with zero tolerance: one
// unknown or duplicated value fails the whole field. A single bare string is
// coerced to a one-element list before validation.
func storageList(candidate map[string]any) ([]domain.StorageType, error) {
	raw, ok := candidate["storage"]
	if !ok || raw == nil {
		return nil, nil
	}

	var items []any
	switch v := raw.(type) {
	case string:
		items = []any{v}
	case []any:
		items = v
	default:
		return nil, &ValidationError{Field: "storage", Reason: fmt.Sprintf("expected an array of storage values, got %T", raw)}
	}

	seen := make(map[domain.StorageType]bool, len(items))
	out := make([]domain.StorageType, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, &ValidationError{Field: "storage", Reason: fmt.Sprintf("expected a string element, got %T", item)}
		}
		st, ok := domain.ParseStorageType(s)
		if !ok {
			return nil, &ValidationError{Field: "storage", Reason: fmt.Sprintf("%q is not a valid storage value", s)}
		}
		if seen[st] {
			return nil, &ValidationError{Field: "storage", Reason: fmt.Sprintf("duplicate storage value %q", s)}
		}
		seen[st] = true
		out = append(out, st)
	}
	return out, nil
}
