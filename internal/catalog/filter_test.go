// internal/catalog/filter_test.go
package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miastore/storefront/internal/models"
)

func product(name string, price, rating float64) models.Product {
	p := models.Product{
		Name:   name,
		Price:  price,
		Rating: rating,
	}
	p.ID = uuid.New()
	p.CategoryID = uuid.New()
	return p
}

func names(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func fixtureCatalog() []models.Product {
	apple := product("Apple", 10, 4.5)
	banana := product("Banana", 5, 4.0)
	laptop := product("Laptop", 1000, 4.8)
	return []models.Product{apple, banana, laptop}
}

func TestApplyEmptySpecReturnsFullCatalogSorted(t *testing.T) {
	catalog := fixtureCatalog()

	result := Apply(catalog, FilterSpec{}, SortNameAsc)

	require.Len(t, result, len(catalog))
	assert.Equal(t, []string{"Apple", "Banana", "Laptop"}, names(result))
}

func TestApplyNeverMutatesInput(t *testing.T) {
	catalog := fixtureCatalog()
	original := make([]models.Product, len(catalog))
	copy(original, catalog)

	Apply(catalog, FilterSpec{SearchQuery: "a"}, SortPriceDesc)

	assert.Equal(t, original, catalog)
}

func TestApplyMinPriceScenario(t *testing.T) {
	catalog := fixtureCatalog()
	min := 100.0

	result := Apply(catalog, FilterSpec{MinPrice: &min}, SortPriceAsc)

	require.Len(t, result, 1)
	assert.Equal(t, "Laptop", result[0].Name)
}

func TestApplyPriceBoundsInclusive(t *testing.T) {
	catalog := fixtureCatalog()
	min, max := 5.0, 10.0

	result := Apply(catalog, FilterSpec{MinPrice: &min, MaxPrice: &max}, SortPriceAsc)

	require.Len(t, result, 2)
	for _, p := range result {
		assert.GreaterOrEqual(t, p.Price, min)
		assert.LessOrEqual(t, p.Price, max)
	}
	assert.Equal(t, []string{"Banana", "Apple"}, names(result))
}

func TestApplyMinRating(t *testing.T) {
	catalog := fixtureCatalog()
	rating := 4.5

	result := Apply(catalog, FilterSpec{MinRating: &rating}, SortRatingDesc)

	assert.Equal(t, []string{"Laptop", "Apple"}, names(result))
}

func TestApplyCategoryExactMatch(t *testing.T) {
	catalog := fixtureCatalog()
	category := catalog[1].CategoryID.String()

	result := Apply(catalog, FilterSpec{Category: &category}, SortNameAsc)

	require.Len(t, result, 1)
	assert.Equal(t, "Banana", result[0].Name)
}

func TestApplySearchMatchesNameDescriptionAndTags(t *testing.T) {
	shirt := product("Linen Shirt", 30, 4.2)
	shirt.Description = "Breathable summer wear"
	scarf := product("Silk Scarf", 20, 4.6)
	scarf.Tags = pq.StringArray{"accessory", "summer"}
	boots := product("Leather Boots", 80, 4.1)

	catalog := []models.Product{shirt, scarf, boots}

	byName := Apply(catalog, FilterSpec{SearchQuery: "shirt"}, SortNameAsc)
	assert.Equal(t, []string{"Linen Shirt"}, names(byName))

	byDescription := Apply(catalog, FilterSpec{SearchQuery: "breathable"}, SortNameAsc)
	assert.Equal(t, []string{"Linen Shirt"}, names(byDescription))

	byTag := Apply(catalog, FilterSpec{SearchQuery: "SUMMER"}, SortNameAsc)
	assert.Equal(t, []string{"Linen Shirt", "Silk Scarf"}, names(byTag))
}

func TestApplySearchTrimsQuery(t *testing.T) {
	catalog := fixtureCatalog()

	result := Apply(catalog, FilterSpec{SearchQuery: "  apple  "}, SortNameAsc)

	assert.Equal(t, []string{"Apple"}, names(result))
}

func TestApplyEmptyResultIsNotAnError(t *testing.T) {
	catalog := fixtureCatalog()

	result := Apply(catalog, FilterSpec{SearchQuery: "quantum"}, SortNameAsc)

	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestApplySortKeys(t *testing.T) {
	catalog := fixtureCatalog()

	assert.Equal(t, []string{"Apple", "Banana", "Laptop"}, names(Apply(catalog, FilterSpec{}, SortNameAsc)))
	assert.Equal(t, []string{"Laptop", "Banana", "Apple"}, names(Apply(catalog, FilterSpec{}, SortNameDesc)))
	assert.Equal(t, []string{"Banana", "Apple", "Laptop"}, names(Apply(catalog, FilterSpec{}, SortPriceAsc)))
	assert.Equal(t, []string{"Laptop", "Apple", "Banana"}, names(Apply(catalog, FilterSpec{}, SortPriceDesc)))
	assert.Equal(t, []string{"Laptop", "Apple", "Banana"}, names(Apply(catalog, FilterSpec{}, SortRatingDesc)))
}

// Price sorts compare the base price even when a discount is active.
func TestApplyPriceSortUsesBasePrice(t *testing.T) {
	cheapOnSale := product("Coat", 200, 4.0)
	sale := 1.0
	cheapOnSale.DiscountedPrice = &sale
	regular := product("Hat", 50, 4.0)

	result := Apply([]models.Product{cheapOnSale, regular}, FilterSpec{}, SortPriceAsc)

	assert.Equal(t, []string{"Hat", "Coat"}, names(result))
}

func TestApplyUnknownSortKeyKeepsFilteredOrder(t *testing.T) {
	catalog := fixtureCatalog()

	result := Apply(catalog, FilterSpec{}, SortKey("weird"))

	assert.Equal(t, names(catalog), names(result))
}

func TestApplyFiltersCompose(t *testing.T) {
	shirt := product("Linen Shirt", 30, 4.2)
	shirt.Tags = pq.StringArray{"summer"}
	scarf := product("Silk Scarf", 120, 4.6)
	scarf.Tags = pq.StringArray{"summer"}
	boots := product("Leather Boots", 80, 4.1)

	max := 100.0
	rating := 4.0
	result := Apply([]models.Product{shirt, scarf, boots}, FilterSpec{
		SearchQuery: "summer",
		MaxPrice:    &max,
		MinRating:   &rating,
	}, SortPriceAsc)

	assert.Equal(t, []string{"Linen Shirt"}, names(result))
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortPriceDesc, ParseSortKey("price-desc"))
	assert.Equal(t, SortRatingDesc, ParseSortKey("rating-desc"))
	assert.Equal(t, SortNameAsc, ParseSortKey(""))
	assert.Equal(t, SortNameAsc, ParseSortKey("rating-asc"))
}
