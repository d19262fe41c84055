package dataset

import (
	"fmt"
	"math"

	"goanova/domain/anova"
	"goanova/domain/core"
)

// StatisticalType classifies a column for analysis purposes.
type StatisticalType string

const (
	TypeNumeric     StatisticalType = "numeric"
	TypeCategorical StatisticalType = "categorical"
)

// Column is one variable of a frame. Exactly one of Numeric or Labels is
// populated, matching Type.
type Column struct {
	Key     core.ColumnKey  `json:"key"`
	Type    StatisticalType `json:"type"`
	Numeric []float64       `json:"numeric,omitempty"`
	Labels  []string        `json:"labels,omitempty"`
}

// Len returns the column's row count.
func (c Column) Len() int {
	if c.Type == TypeNumeric {
		return len(c.Numeric)
	}
	return len(c.Labels)
}

// Frame is an immutable column-oriented table of observations.
type Frame struct {
	columns map[core.ColumnKey]Column
	order   []core.ColumnKey
	rows    int
}

// NewFrame assembles a frame, checking that all columns share a row count.
func NewFrame(columns []Column) (*Frame, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("frame needs at least one column")
	}
	rows := columns[0].Len()
	byKey := make(map[core.ColumnKey]Column, len(columns))
	order := make([]core.ColumnKey, 0, len(columns))
	for _, col := range columns {
		if col.Len() != rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", col.Key, col.Len(), rows)
		}
		if _, dup := byKey[col.Key]; dup {
			return nil, fmt.Errorf("duplicate column %q", col.Key)
		}
		byKey[col.Key] = col
		order = append(order, col.Key)
	}
	return &Frame{columns: byKey, order: order, rows: rows}, nil
}

// Rows returns the number of observations.
func (f *Frame) Rows() int {
	return f.rows
}

// Keys returns column keys in ingestion order.
func (f *Frame) Keys() []core.ColumnKey {
	out := make([]core.ColumnKey, len(f.order))
	copy(out, f.order)
	return out
}

// Column looks up a column by key.
func (f *Frame) Column(key core.ColumnKey) (Column, bool) {
	col, ok := f.columns[key]
	return col, ok
}

// NumericColumn returns a numeric column's values.
func (f *Frame) NumericColumn(key core.ColumnKey) ([]float64, error) {
	col, ok := f.columns[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrColumnNotFound, key)
	}
	if col.Type != TypeNumeric {
		return nil, fmt.Errorf("column %q is %s, expected numeric", key, col.Type)
	}
	return col.Numeric, nil
}

// CategoricalColumn returns a categorical column's labels.
func (f *Frame) CategoricalColumn(key core.ColumnKey) ([]string, error) {
	col, ok := f.columns[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrColumnNotFound, key)
	}
	if col.Type != TypeCategorical {
		return nil, fmt.Errorf("column %q is %s, expected categorical", key, col.Type)
	}
	return col.Labels, nil
}

// GroupedSample pairs a numeric response column with a categorical factor
// column, dropping rows where the response is NaN.
func (f *Frame) GroupedSample(response, factor core.ColumnKey) (*anova.GroupedSample, error) {
	values, err := f.NumericColumn(response)
	if err != nil {
		return nil, err
	}
	labels, err := f.CategoricalColumn(factor)
	if err != nil {
		return nil, err
	}

	observations := make([]anova.Observation, 0, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		observations = append(observations, anova.Observation{
			Group: core.GroupLabel(labels[i]),
			Value: v,
		})
	}
	return anova.NewGroupedSample(observations), nil
}
