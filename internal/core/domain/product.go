package domain

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type (
	Product struct {
		ID          int
		Title       string
		Description string
		Category    string
		Brand       string
		Thumbnail   string
		Price       float64
		Rating      float64
		Stock       int
	}

	ProductPage struct {
		Products []Product
		Total    int
	}
)

type SortKey string

const (
	SortNone       SortKey = ""
	SortPriceAsc   SortKey = "price-asc"
	SortPriceDesc  SortKey = "price-desc"
	SortRatingAsc  SortKey = "rating-asc"
	SortRatingDesc SortKey = "rating-desc"
)

type SortOption struct {
	Key  SortKey
	Name string
}

var SortOptions = []SortOption{
	{SortPriceAsc, "Price: Low to High"},
	{SortPriceDesc, "Price: High to Low"},
	{SortRatingAsc, "Rating: Low to High"},
	{SortRatingDesc, "Rating: High to Low"},
}

func (k SortKey) Valid() bool {
	for _, o := range SortOptions {
		if o.Key == k {
			return true
		}
	}
	return false
}

// ProductFilter is the full parameter set of a product listing query.
type ProductFilter struct {
	Search   string
	Category string
	MinPrice string
	MaxPrice string
	Sort     SortKey
	Page     int
}

// ProductQuery is the wire form of a listing request; every field is a
// string.
type ProductQuery struct {
	Search   string
	Category string
	MinPrice string
	MaxPrice string
	Sort     string
	Limit    string
	Skip     string
}

func (f ProductFilter) Query(pageSize int) ProductQuery {
	sort := f.Sort
	if !sort.Valid() {
		sort = SortNone
	}
	return ProductQuery{
		Search:   f.Search,
		Category: f.Category,
		MinPrice: f.MinPrice,
		MaxPrice: f.MaxPrice,
		Sort:     string(sort),
		Limit:    strconv.Itoa(pageSize),
		Skip:     strconv.Itoa(Offset(f.Page, pageSize)),
	}
}

// ParsePage reads a page number; absent, non-numeric and non-positive
// values give 1.
func ParsePage(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func Offset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}

// PageCount returns ceil(total/pageSize).
func PageCount(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// FormatCategory renders a category identifier for display:
// "mens-watches" becomes "Mens watches".
func FormatCategory(id string) string {
	if id == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(id)
	return string(unicode.ToUpper(r)) + strings.ReplaceAll(id[size:], "-", " ")
}
