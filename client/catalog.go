package client

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Product is the storefront's view of a catalog row.
type Product struct {
	ProductID    int     `json:"product_id"`
	MartID       int     `json:"mart_id"`
	MartName     string  `json:"mart_name"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Price        float64 `json:"price"`
	Stock        int     `json:"stock"`
	QualityScore float64 `json:"quality_score"`
	UnitWeightKg float64 `json:"unit_weight_kg"`
	ImageURL     *string `json:"image_url"`
}

// CartLine pairs a cart entry with its catalog product. Missing products
// yield a placeholder so a cart referencing a delisted product still
// renders.
type CartLine struct {
	Item        CartItem
	Product     *Product
	Placeholder bool
}

// Catalog fetches and filters the product list.
type Catalog struct {
	api *API
}

func NewCatalog(api *API) *Catalog {
	return &Catalog{api: api}
}

// Products fetches the catalog, images resolved server-side.
func (cat *Catalog) Products(ctx context.Context) ([]Product, error) {
	var resp struct {
		Products []Product `json:"products"`
	}
	if err := cat.api.Get(ctx, "/api/v1/products/with-images", &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold lowercases and strips diacritics so "Pâte" matches "pate".
func fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Search filters products by a case- and diacritic-insensitive substring
// match on the name, optionally restricted to a category. Empty term and
// category return the input unchanged.
func Search(products []Product, term, category string) []Product {
	term = fold(strings.TrimSpace(term))
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if category != "" && p.Category != category {
			continue
		}
		if term != "" && !strings.Contains(fold(p.Name), term) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ResolveCart joins cart lines with catalog products. A line whose product
// is missing from the catalog becomes a placeholder, never an error.
func ResolveCart(items []CartItem, products []Product) []CartLine {
	byID := make(map[int]*Product, len(products))
	for i := range products {
		byID[products[i].ProductID] = &products[i]
	}

	lines := make([]CartLine, 0, len(items))
	for _, it := range items {
		if p, ok := byID[it.ProductID]; ok {
			lines = append(lines, CartLine{Item: it, Product: p})
		} else {
			lines = append(lines, CartLine{Item: it, Placeholder: true})
		}
	}
	return lines
}
