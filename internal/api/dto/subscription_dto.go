package dto

// SubscriptionLimitResponse reports quota standing for an organization.
type SubscriptionLimitResponse struct {
	MonthlyLimit int    `json:"monthly_limit"`
	Used         int    `json:"used"`
	Remaining    int    `json:"remaining"`
	Message      string `json:"message"`
}

// RegisterOrganizationRequest payload.
type RegisterOrganizationRequest struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

// CreateBranchRequest payload.
type CreateBranchRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// CreateTeamRequest payload.
type CreateTeamRequest struct {
	BranchID    string `json:"branch_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateCustomerRequest payload.
type CreateCustomerRequest struct {
	OrganizationID *string `json:"organization_id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
}
