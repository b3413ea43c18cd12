package model

type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "ACTIVE"
	ProductStatusInactive     ProductStatus = "INACTIVE"
	ProductStatusOutOfStock   ProductStatus = "OUT_OF_STOCK"
	ProductStatusDiscontinued ProductStatus = "DISCONTINUED"
)

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

type Product struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Slug          string        `json:"slug"`
	Price         float64       `json:"price"`
	SalePrice     *float64      `json:"salePrice,omitempty"`
	StockQuantity int           `json:"stockQuantity"`
	SKU           string        `json:"sku"`
	Brand         string        `json:"brand,omitempty"`
	Status        ProductStatus `json:"status"`
	IsFeatured    bool          `json:"featured"`
	ImageURLs     []string      `json:"imageUrls"`
	Tags          []string      `json:"tags"`
	Category      *Category     `json:"category,omitempty"`
	AverageRating float64       `json:"averageRating"`
	ReviewCount   int           `json:"reviewCount"`
}

// DisplayPrice is the sale price when the backend reports one.
func (p Product) DisplayPrice() float64 {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

// Page is the paging envelope returned by list endpoints.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Last          bool  `json:"last"`
	First         bool  `json:"first"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}
