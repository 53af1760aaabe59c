package table

import (
	"fmt"
	"math"
	"strconv"

	"product-panel/internal/theme"
)

// DisplayValue is the rendered form of one cell.
type DisplayValue struct {
	Text    string  `json:"text"`
	Numeric float64 `json:"numeric"`
	Color   string  `json:"color,omitempty"`
	// Percent is the position of Numeric between the field's min and max, in [0, 1].
	Percent float64 `json:"percent"`
}

type displayProcessor struct {
	field     *Field
	textColor string
	min, max  float64
}

func newDisplayProcessor(f *Field, th theme.Theme) *displayProcessor {
	p := &displayProcessor{field: f, textColor: th.Colors.Text.Primary}
	if f.Type != FieldTypeNumber {
		return p
	}

	p.min, p.max = valueRange(f.Values)
	if f.Config.Min != nil {
		p.min = *f.Config.Min
	}
	if f.Config.Max != nil {
		p.max = *f.Config.Max
	}
	return p
}

// Display renders the value at row i. Fields that have not been through
// ApplyFieldOverrides render plain text without colour.
func (f *Field) Display(i int) DisplayValue {
	p := f.display
	if p == nil {
		p = &displayProcessor{field: f}
		p.min, p.max = valueRange(f.Values)
	}
	return p.process(f.Values[i])
}

func (p *displayProcessor) process(v any) DisplayValue {
	f := p.field
	if f.Type != FieldTypeNumber {
		if v == nil {
			return DisplayValue{Color: p.textColor}
		}
		return DisplayValue{Text: fmt.Sprint(v), Color: p.textColor}
	}

	n, ok := toFloat(v)
	if !ok {
		return DisplayValue{Color: p.textColor}
	}

	return DisplayValue{
		Text:    formatNumber(n, f.Config.Decimals, f.Config.Unit),
		Numeric: n,
		Color:   thresholdColor(f.Config.Thresholds, n, p.min, p.max),
		Percent: percentOf(n, p.min, p.max),
	}
}

func formatNumber(n float64, decimals *int, unit string) string {
	precision := -1
	if decimals != nil {
		precision = *decimals
	}
	text := strconv.FormatFloat(n, 'f', precision, 64)

	switch unit {
	case "":
		return text
	case "percent":
		return text + "%"
	default:
		return text + " " + unit
	}
}

// thresholdColor returns the colour of the highest step whose value is <= n.
func thresholdColor(th *Thresholds, n, min, max float64) string {
	if th == nil || len(th.Steps) == 0 {
		return ""
	}

	if th.Mode == ThresholdsPercentage {
		n = percentOf(n, min, max) * 100
	}

	color := th.Steps[0].Color
	for _, step := range th.Steps[1:] {
		if step.Value == nil || n >= *step.Value {
			color = step.Color
		}
	}
	return color
}

func percentOf(n, min, max float64) float64 {
	span := max - min
	if span <= 0 {
		return 0
	}
	return math.Min(1, math.Max(0, (n-min)/span))
}

func valueRange(values []any) (float64, float64) {
	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if n, ok := toFloat(v); ok {
			min = math.Min(min, n)
			max = math.Max(max, n)
		}
	}
	if math.IsInf(min, 1) {
		return 0, 0
	}
	return min, max
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
