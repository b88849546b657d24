package dto

import "bizdesk/internal/domain/customers"

// CustomerRequest for POST /customers and PUT /customers/:id.
// Email format is checked by the domain.
type CustomerRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Email   string `json:"email" binding:"max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Address string `json:"address" binding:"max=500"`
}

// ToInput converts to the service input.
func (r CustomerRequest) ToInput() customers.Input {
	return customers.Input{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Address: r.Address,
	}
}

// CustomerListQuery for GET /customers.
type CustomerListQuery struct {
	Search string `form:"search"`
	PageQuery
}

// ToFilter converts to the repository filter.
func (q CustomerListQuery) ToFilter() customers.Filter {
	return customers.Filter{Search: q.Search, Page: q.ToPage()}
}
