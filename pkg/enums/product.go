package enums

import "fmt"

// ProductCategory represents the canonical produce categories in the catalog.
type ProductCategory string

const (
	ProductCategoryFruits          ProductCategory = "fruits"
	ProductCategoryVegetables      ProductCategory = "vegetables"
	ProductCategoryOrganic         ProductCategory = "organic"
	ProductCategorySeasonalBundles ProductCategory = "seasonal_bundles"
)

var validProductCategories = []ProductCategory{
	ProductCategoryFruits,
	ProductCategoryVegetables,
	ProductCategoryOrganic,
	ProductCategorySeasonalBundles,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
