// internal/catalog/filter.go

// Package catalog derives filtered, ordered product views from an
// already-loaded catalog. Apply is a pure function over its inputs;
// fetching and caching the catalog belongs to the caller.
package catalog

import (
	"sort"
	"strings"

	"github.com/miastore/storefront/internal/models"
)

// FilterSpec is the set of active filter predicates. Every field is
// optional; the predicates are a pure conjunction and commute freely.
type FilterSpec struct {
	Category    *string  `json:"category,omitempty"`
	MinPrice    *float64 `json:"min_price,omitempty"`
	MaxPrice    *float64 `json:"max_price,omitempty"`
	MinRating   *float64 `json:"min_rating,omitempty"`
	SearchQuery string   `json:"search,omitempty"`
}

type SortKey string

const (
	SortNameAsc    SortKey = "name-asc"
	SortNameDesc   SortKey = "name-desc"
	SortPriceAsc   SortKey = "price-asc"
	SortPriceDesc  SortKey = "price-desc"
	SortRatingDesc SortKey = "rating-desc"
)

// ParseSortKey maps a query-string value onto a SortKey, falling back to
// name-asc for anything unrecognized.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc, SortRatingDesc:
		return SortKey(s)
	default:
		return SortNameAsc
	}
}

// Apply filters the catalog by spec and orders the survivors by key. The
// input slice is never mutated; the result is always a fresh, non-nil slice.
// An empty result is a normal outcome, not an error.
func Apply(products []models.Product, spec FilterSpec, key SortKey) []models.Product {
	filtered := make([]models.Product, 0, len(products))

	query := strings.ToLower(strings.TrimSpace(spec.SearchQuery))
	for _, p := range products {
		if query != "" && !matchesSearch(&p, query) {
			continue
		}
		if spec.Category != nil && p.CategoryID.String() != *spec.Category {
			continue
		}
		if spec.MinPrice != nil && p.Price < *spec.MinPrice {
			continue
		}
		if spec.MaxPrice != nil && p.Price > *spec.MaxPrice {
			continue
		}
		if spec.MinRating != nil && p.Rating < *spec.MinRating {
			continue
		}
		filtered = append(filtered, p)
	}

	sortProducts(filtered, key)
	return filtered
}

func matchesSearch(p *models.Product, query string) bool {
	if strings.Contains(strings.ToLower(p.Name), query) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), query) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

// sortProducts orders by the sort key. Price sorts compare the base price,
// not the effective/discounted one. An unknown key leaves the filtered
// order untouched.
func sortProducts(products []models.Product, key SortKey) {
	switch key {
	case SortNameAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Name < products[j].Name
		})
	case SortNameDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Name > products[j].Name
		})
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	case SortRatingDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Rating > products[j].Rating
		})
	}
}
