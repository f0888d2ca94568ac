package domain

// Measure is a physical dimension: a numeric value with its unit. The store
// keeps the two halves in independent nullable columns, so a Measure exists
// in the domain model iff both columns are non-null.
type Measure struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// NewMeasure reassembles a Measure from its storage columns. A half-populated
// pair reads as absent, never as a partial Measure.
func NewMeasure(value *float64, unit *string) *Measure {
	if value == nil || unit == nil {
		return nil
	}
	return &Measure{Value: *value, Unit: *unit}
}

// Split decomposes the Measure into its storage columns. An absent Measure
// yields two nulls.
func (m *Measure) Split() (*float64, *string) {
	if m == nil {
		return nil, nil
	}
	value, unit := m.Value, m.Unit
	return &value, &unit
}
