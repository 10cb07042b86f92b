package types

import "time"

// TemplateInstance is a reusable rendering template referenced by pages.
type TemplateInstance struct {
	TemplateID   string    `json:"template_id"`
	Title        string    `json:"title"`
	TemplateType string    `json:"template_type"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
}

// PageType classifies the behavior and appearance of a page.
type PageType struct {
	PageTypeID  string    `json:"page_type_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
