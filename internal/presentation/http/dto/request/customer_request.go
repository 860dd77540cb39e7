package request

// CreateCustomerRequest represents a customer creation request
type CreateCustomerRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=255"`
	Phone string `json:"phone" binding:"max=50"`
	Notes string `json:"notes" binding:"max=1000"`
}

// CustomerFilterRequest represents customer list filters
type CustomerFilterRequest struct {
	Search string `form:"search"`
	Page   int    `form:"page,default=1" binding:"min=1"`
	Limit  int    `form:"limit,default=20" binding:"min=1,max=100"`
}
