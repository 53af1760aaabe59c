package table

import (
	"product-panel/internal/model"
	"product-panel/internal/theme"
)

// Transform builds the product table for payload: one row per product in
// input order, mapped positionally onto ProductColumns, followed by the
// display configuration derived from th.
// A payload without products yields the full schema and zero rows.
// Absent product fields become nil cells.
func Transform(payload *model.ProductsResponse, th theme.Theme) *Table {
	t := NewProductTable()

	if payload != nil {
		for _, p := range payload.Products {
			// Field count always matches the schema.
			_ = t.AppendRow(
				cell(p.Title),
				cell(p.Description),
				cell(p.Price),
				cell(p.DiscountPercentage),
				numberCell(p.Stock),
				cell(p.Brand),
				cell(p.Category),
				cell(p.Rating),
			)
		}
	}

	return ApplyFieldOverrides(t, th)
}

// cell returns the value behind v, or nil for an absent field.
func cell[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

func numberCell(v *int) any {
	if v == nil {
		return nil
	}
	return float64(*v)
}

// ApplyFieldOverrides returns a copy of t whose fields carry resolved display
// configuration. Numeric fields without thresholds get the theme's default
// steps; every field gets a display processor. t itself is not modified.
func ApplyFieldOverrides(t *Table, th theme.Theme) *Table {
	out := t.clone()

	for _, f := range out.Fields {
		if f.Type == FieldTypeNumber && f.Config.Thresholds == nil {
			f.Config.Thresholds = defaultThresholds(th)
		}
		f.display = newDisplayProcessor(f, th)
	}

	return out
}

func defaultThresholds(th theme.Theme) *Thresholds {
	return &Thresholds{
		Mode: ThresholdsAbsolute,
		Steps: []Threshold{
			{Value: nil, Color: th.Colors.Success},
			{Value: floatPtr(80), Color: th.Colors.Error},
		},
	}
}
