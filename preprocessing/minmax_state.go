package preprocessing

import (
	"fmt"

	chemprepErrors "github.com/nd-02110114/chemprep/pkg/errors"
)

// State attribute keys. Absence of learned state is always encoded with
// an explicit marker ("fitted", "all_columns") rather than a missing or
// null value, so an unfitted scaler and an all-columns index set
// round-trip unambiguously.
const (
	attrFitted     = "fitted"
	attrMin        = "min"
	attrMax        = "max"
	attrAllColumns = "all_columns"
	attrIndices    = "indices"
	attrNFeatures  = "n_features"
)

// StateModelType identifies the scaler in persisted state documents.
func (m *MinMaxScaler) StateModelType() string {
	return minMaxModelType
}

// ExportState returns the scaler's persisted attributes: min, max,
// indices and the feature count, plus the explicit absence markers.
// Restoring these attributes into a fresh scaler reproduces identical
// transform behavior without re-observing data.
func (m *MinMaxScaler) ExportState() (map[string]interface{}, error) {
	attrs := map[string]interface{}{
		attrFitted: m.IsFitted(),
	}
	if !m.IsFitted() {
		return attrs, nil
	}
	attrs[attrMin] = m.Min
	attrs[attrMax] = m.Max
	attrs[attrNFeatures] = m.NFeatures
	attrs[attrAllColumns] = m.Indices == nil
	if m.Indices != nil {
		attrs[attrIndices] = m.Indices
	}
	return attrs, nil
}

// ImportState restores the scaler from attributes produced by
// ExportState, overwriting any current state.
func (m *MinMaxScaler) ImportState(attrs map[string]interface{}) error {
	const op = "MinMaxScaler.ImportState"

	fitted, err := boolAttr(op, attrs, attrFitted)
	if err != nil {
		return err
	}
	if !fitted {
		m.Min = nil
		m.Max = nil
		m.Indices = nil
		m.NFeatures = 0
		m.Reset()
		return nil
	}

	min, err := floatSliceAttr(op, attrs, attrMin)
	if err != nil {
		return err
	}
	max, err := floatSliceAttr(op, attrs, attrMax)
	if err != nil {
		return err
	}
	if len(min) != len(max) {
		return chemprepErrors.NewDimensionError(op, len(min), len(max), 0)
	}
	nFeatures, err := intAttr(op, attrs, attrNFeatures)
	if err != nil {
		return err
	}
	allColumns, err := boolAttr(op, attrs, attrAllColumns)
	if err != nil {
		return err
	}

	var indices []int
	if !allColumns {
		indices, err = intSliceAttr(op, attrs, attrIndices)
		if err != nil {
			return err
		}
		if len(indices) != len(min) {
			return chemprepErrors.NewDimensionError(op, len(min), len(indices), 0)
		}
	} else if len(min) != nFeatures {
		return chemprepErrors.NewDimensionError(op, nFeatures, len(min), 0)
	}

	m.Min = min
	m.Max = max
	m.Indices = indices
	m.NFeatures = nFeatures
	m.SetFitted()
	return nil
}

// The JSON decoder produces interface{} values: float64 for numbers and
// []interface{} for arrays. The helpers below coerce those back into the
// scaler's attribute types.

func boolAttr(op string, attrs map[string]interface{}, key string) (bool, error) {
	v, ok := attrs[key]
	if !ok {
		return false, chemprepErrors.NewValueError(op, "missing attribute: "+key)
	}
	b, ok := v.(bool)
	if !ok {
		return false, chemprepErrors.NewValueError(op, fmt.Sprintf("attribute %s: expected bool, got %T", key, v))
	}
	return b, nil
}

func intAttr(op string, attrs map[string]interface{}, key string) (int, error) {
	v, ok := attrs[key]
	if !ok {
		return 0, chemprepErrors.NewValueError(op, "missing attribute: "+key)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case float64:
		return int(n), nil
	default:
		return 0, chemprepErrors.NewValueError(op, fmt.Sprintf("attribute %s: expected number, got %T", key, v))
	}
}

func floatSliceAttr(op string, attrs map[string]interface{}, key string) ([]float64, error) {
	v, ok := attrs[key]
	if !ok {
		return nil, chemprepErrors.NewValueError(op, "missing attribute: "+key)
	}
	switch s := v.(type) {
	case []float64:
		return append([]float64(nil), s...), nil
	case []interface{}:
		out := make([]float64, len(s))
		for i, e := range s {
			f, ok := e.(float64)
			if !ok {
				return nil, chemprepErrors.NewValueError(op, fmt.Sprintf("attribute %s[%d]: expected number, got %T", key, i, e))
			}
			out[i] = f
		}
		return out, nil
	default:
		return nil, chemprepErrors.NewValueError(op, fmt.Sprintf("attribute %s: expected array, got %T", key, v))
	}
}

func intSliceAttr(op string, attrs map[string]interface{}, key string) ([]int, error) {
	v, ok := attrs[key]
	if !ok {
		return nil, chemprepErrors.NewValueError(op, "missing attribute: "+key)
	}
	switch s := v.(type) {
	case []int:
		return append([]int(nil), s...), nil
	case []interface{}:
		out := make([]int, len(s))
		for i, e := range s {
			f, ok := e.(float64)
			if !ok {
				return nil, chemprepErrors.NewValueError(op, fmt.Sprintf("attribute %s[%d]: expected number, got %T", key, i, e))
			}
			out[i] = int(f)
		}
		return out, nil
	default:
		return nil, chemprepErrors.NewValueError(op, fmt.Sprintf("attribute %s: expected array, got %T", key, v))
	}
}
