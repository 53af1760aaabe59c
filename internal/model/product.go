package model

import (
	"encoding/json"
	"math"
)

// ProductEntry represents one product as returned by the catalogue API.
// A nil field was absent upstream or carried a value of the wrong JSON type.
type ProductEntry struct {
	ID                 *int     `json:"id"`
	Title              *string  `json:"title"`
	Description        *string  `json:"description"`
	Price              *float64 `json:"price"`
	DiscountPercentage *float64 `json:"discountPercentage"`
	Rating             *float64 `json:"rating"`
	Stock              *int     `json:"stock"`
	Brand              *string  `json:"brand"`
	Category           *string  `json:"category"`
	Thumbnail          *string  `json:"thumbnail"`
	Images             []string `json:"images"`
}

// UnmarshalJSON decodes each field on its own so one mistyped field never
// rejects the product. Entries that are not objects decode with every field absent.
func (p *ProductEntry) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		*p = ProductEntry{}
		return nil
	}

	*p = ProductEntry{
		ID:                 optionalInt(fields["id"]),
		Title:              optional[string](fields["title"]),
		Description:        optional[string](fields["description"]),
		Price:              optional[float64](fields["price"]),
		DiscountPercentage: optional[float64](fields["discountPercentage"]),
		Rating:             optional[float64](fields["rating"]),
		Stock:              optionalInt(fields["stock"]),
		Brand:              optional[string](fields["brand"]),
		Category:           optional[string](fields["category"]),
		Thumbnail:          optional[string](fields["thumbnail"]),
	}

	var images []string
	if err := json.Unmarshal(fields["images"], &images); err == nil {
		p.Images = images
	}

	return nil
}

// ProductsResponse is the envelope returned by the catalogue API.
// Pagination fields are carried through but not used by the table.
type ProductsResponse struct {
	Products []ProductEntry `json:"products"`
	Total    int            `json:"total"`
	Skip     int            `json:"skip"`
	Limit    int            `json:"limit"`
}

// UnmarshalJSON accepts any JSON object. A products value that is not an
// array leaves Products nil; mistyped pagination fields decode as zero.
func (r *ProductsResponse) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*r = ProductsResponse{
		Total: intOrZero(fields["total"]),
		Skip:  intOrZero(fields["skip"]),
		Limit: intOrZero(fields["limit"]),
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(fields["products"], &entries); err != nil || entries == nil {
		return nil
	}

	r.Products = make([]ProductEntry, len(entries))
	for i, raw := range entries {
		if err := r.Products[i].UnmarshalJSON(raw); err != nil {
			return err
		}
	}

	return nil
}

// Len returns the number of products in the envelope.
func (r *ProductsResponse) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Products)
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// optional decodes raw into a T, or returns nil when raw is missing, null or mistyped.
func optional[T any](raw json.RawMessage) *T {
	if raw == nil {
		return nil
	}
	var v *T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// maxExactInt is the largest integer a float64 holds exactly.
const maxExactInt = 1 << 53

// optionalInt accepts any integral JSON number, including forms like 94.0.
func optionalInt(raw json.RawMessage) *int {
	f := optional[float64](raw)
	if f == nil || *f != math.Trunc(*f) || math.Abs(*f) > maxExactInt {
		return nil
	}
	n := int(*f)
	return &n
}

func intOrZero(raw json.RawMessage) int {
	if n := optionalInt(raw); n != nil {
		return *n
	}
	return 0
}
