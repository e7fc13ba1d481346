package dto

// CreateArticleRequest payload.
type CreateArticleRequest struct {
	OrganizationID string `json:"organization_id"`
	Title          string `json:"title"`
	Body           string `json:"body"`
	IsPublished    bool   `json:"is_published"`
}

// CreateCannedResponseRequest payload.
type CreateCannedResponseRequest struct {
	OrganizationID string `json:"organization_id"`
	Title          string `json:"title"`
	Body           string `json:"body"`
}
