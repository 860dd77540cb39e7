package request

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	SKU         string  `json:"sku" binding:"required,min=2,max=100"`
	Name        string  `json:"name" binding:"required,min=2,max=255"`
	CategoryID  *string `json:"category_id" binding:"omitempty,uuid"`
	BrandID     *string `json:"brand_id" binding:"omitempty,uuid"`
	RetailPrice float64 `json:"retail_price" binding:"required,gt=0"`
	PackPrice   float64 `json:"pack_price" binding:"omitempty,gte=0"`
	PackSize    int     `json:"pack_size" binding:"omitempty,gte=1"`
	RetailStock int     `json:"retail_stock" binding:"omitempty,gte=0"`
	PackStock   int     `json:"pack_stock" binding:"omitempty,gte=0"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=2,max=255"`
	RetailPrice *float64 `json:"retail_price" binding:"omitempty,gt=0"`
	PackPrice   *float64 `json:"pack_price" binding:"omitempty,gte=0"`
	PackSize    *int     `json:"pack_size" binding:"omitempty,gte=1"`
	RetailStock *int     `json:"retail_stock" binding:"omitempty,gte=0"`
	PackStock   *int     `json:"pack_stock" binding:"omitempty,gte=0"`
}

// ProductFilterRequest represents product list filters
type ProductFilterRequest struct {
	Search     string `form:"search"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	BrandID    string `form:"brand_id" binding:"omitempty,uuid"`
	Page       int    `form:"page,default=1" binding:"min=1"`
	Limit      int    `form:"limit,default=20" binding:"min=1,max=100"`
}
