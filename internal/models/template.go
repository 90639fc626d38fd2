package models

// PageTemplate is a predefined section tree the builder offers as a starting
// point. Templates live in code, not in the database.
type PageTemplate struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Sections    []Section `json:"sections"`
}

type CreatePageFromTemplateRequest struct {
	TemplateID string `json:"template_id" binding:"required"`
	Name       string `json:"name" binding:"required,no_html"`
	Slug       string `json:"slug" binding:"omitempty,page_path"`
}
