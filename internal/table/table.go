// Package table models the columnar table rendered by the product panel
// and the transformation from a products response into it.
package table

import (
	"fmt"
)

// FieldType is the declared value type of a column.
type FieldType string

const (
	FieldTypeString FieldType = "string"
	FieldTypeNumber FieldType = "number"
)

// ThresholdsMode controls how threshold step values are interpreted.
type ThresholdsMode string

const (
	ThresholdsAbsolute   ThresholdsMode = "absolute"
	ThresholdsPercentage ThresholdsMode = "percentage"
)

// DisplayMode values for Custom.DisplayMode.
const (
	DisplayModeAuto          = "auto"
	DisplayModeGradientGauge = "gradient-gauge"
)

// Threshold is one colour step. A nil Value is the base step (negative infinity).
type Threshold struct {
	Value *float64 `json:"value"`
	Color string   `json:"color"`
}

// Thresholds maps numeric values to colours.
type Thresholds struct {
	Mode  ThresholdsMode `json:"mode"`
	Steps []Threshold    `json:"steps"`
}

// Custom holds widget-specific hints.
type Custom struct {
	Width       int    `json:"width,omitempty"`
	DisplayMode string `json:"displayMode,omitempty"`
}

// FieldConfig holds presentation hints for a column.
type FieldConfig struct {
	Decimals   *int        `json:"decimals,omitempty"`
	Unit       string      `json:"unit,omitempty"`
	Min        *float64    `json:"min,omitempty"`
	Max        *float64    `json:"max,omitempty"`
	Thresholds *Thresholds `json:"thresholds,omitempty"`
	Custom     Custom      `json:"custom"`
}

// Field is one column of the table.
type Field struct {
	Name   string      `json:"name"`
	Type   FieldType   `json:"type"`
	Config FieldConfig `json:"config"`
	Values []any       `json:"values"`

	display *displayProcessor
}

// Table is an ordered set of equally long fields.
type Table struct {
	Fields []*Field `json:"fields"`
}

// Empty returns a table without fields or rows.
func Empty() *Table {
	return &Table{Fields: []*Field{}}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil || len(t.Fields) == 0 {
		return 0
	}
	return len(t.Fields[0].Values)
}

// FieldNames returns the column names in order.
func (t *Table) FieldNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

// Field returns the column with the given name, or nil.
func (t *Table) Field(name string) *Field {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// AppendRow appends one value per field, positionally.
func (t *Table) AppendRow(values ...any) error {
	if len(values) != len(t.Fields) {
		return fmt.Errorf("row has %d values, table has %d fields", len(values), len(t.Fields))
	}
	for i, f := range t.Fields {
		f.Values = append(f.Values, values[i])
	}
	return nil
}

// Row returns the values of row i in field order.
func (t *Table) Row(i int) []any {
	row := make([]any, len(t.Fields))
	for j, f := range t.Fields {
		row[j] = f.Values[i]
	}
	return row
}

// clone deep-copies the table structure. Values are scalars and are copied by value.
func (t *Table) clone() *Table {
	out := &Table{Fields: make([]*Field, len(t.Fields))}
	for i, f := range t.Fields {
		c := *f
		c.Values = append([]any(nil), f.Values...)
		c.Config = f.Config.clone()
		out.Fields[i] = &c
	}
	return out
}

func (c FieldConfig) clone() FieldConfig {
	if c.Decimals != nil {
		d := *c.Decimals
		c.Decimals = &d
	}
	if c.Min != nil {
		v := *c.Min
		c.Min = &v
	}
	if c.Max != nil {
		v := *c.Max
		c.Max = &v
	}
	if c.Thresholds != nil {
		th := *c.Thresholds
		th.Steps = append([]Threshold(nil), c.Thresholds.Steps...)
		c.Thresholds = &th
	}
	return c
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }
