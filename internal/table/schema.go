package table

// Column names of the product table, in display order.
const (
	ColumnTitle              = "Title"
	ColumnDescription        = "Description"
	ColumnPrice              = "Price"
	ColumnDiscountPercentage = "Discount Percentage"
	ColumnStock              = "Stock"
	ColumnBrand              = "Brand"
	ColumnCategory           = "Category"
	ColumnRating             = "Rating"
)

// ProductColumns lists the fixed column order.
var ProductColumns = []string{
	ColumnTitle,
	ColumnDescription,
	ColumnPrice,
	ColumnDiscountPercentage,
	ColumnStock,
	ColumnBrand,
	ColumnCategory,
	ColumnRating,
}

// NewProductTable returns an empty table declaring the product schema.
func NewProductTable() *Table {
	return &Table{
		Fields: []*Field{
			{Name: ColumnTitle, Type: FieldTypeString, Values: []any{}},
			{Name: ColumnDescription, Type: FieldTypeString, Values: []any{}},
			{
				Name: ColumnPrice,
				Type: FieldTypeNumber,
				Config: FieldConfig{
					Decimals: intPtr(2),
					Unit:     "$",
					Custom:   Custom{Width: 100},
				},
				Values: []any{},
			},
			{
				Name: ColumnDiscountPercentage,
				Type: FieldTypeNumber,
				Config: FieldConfig{
					Decimals: intPtr(2),
					Unit:     "percent",
				},
				Values: []any{},
			},
			{
				Name:   ColumnStock,
				Type:   FieldTypeNumber,
				Config: FieldConfig{Custom: Custom{Width: 100}},
				Values: []any{},
			},
			{Name: ColumnBrand, Type: FieldTypeString, Values: []any{}},
			{Name: ColumnCategory, Type: FieldTypeString, Values: []any{}},
			{
				Name: ColumnRating,
				Type: FieldTypeNumber,
				Config: FieldConfig{
					Min:      floatPtr(0),
					Max:      floatPtr(5),
					Decimals: intPtr(1),
					Custom: Custom{
						Width:       200,
						DisplayMode: DisplayModeGradientGauge,
					},
					// Two steps only: anything rated 0.02 or more gets the dark colour.
					Thresholds: &Thresholds{
						Mode: ThresholdsAbsolute,
						Steps: []Threshold{
							{Value: nil, Color: "#CCC"},
							{Value: floatPtr(0.02), Color: "#333"},
						},
					},
				},
				Values: []any{},
			},
		},
	}
}
