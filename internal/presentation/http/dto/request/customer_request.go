package request

// CreateCustomerRequest represents a customer creation request. ReceiptType
// ("NORMAL" or "TVA"), when given, permanently locks the customer's fiscal
// type.
type CreateCustomerRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=255"`
	Phone       *string `json:"phone" binding:"omitempty,max=50"`
	Address     *string `json:"address"`
	ReceiptType *string `json:"receipt_type" binding:"omitempty,oneof=NORMAL TVA normal tva"`
}

// UpdateCustomerRequest represents a customer update request; omitted
// fields are left untouched
type UpdateCustomerRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=255"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	Address *string `json:"address"`
}

// CreateJobSiteRequest represents a job site creation request
type CreateJobSiteRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
}

// CustomerFilterRequest represents customer list filter parameters
type CustomerFilterRequest struct {
	Search  string `form:"search"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
