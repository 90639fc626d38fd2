package models

import "time"

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=12,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateStoreRequest struct {
	Name        string `json:"store_name" binding:"required,no_html"`
	Slug        string `json:"store_slug" binding:"omitempty,slug"`
	LogoURL     string `json:"store_logo_url"`
	Description string `json:"description"`
	Currency    string `json:"currency"`
}

type UpdateStoreRequest struct {
	Name        *string `json:"store_name"`
	LogoURL     *string `json:"store_logo_url"`
	Description *string `json:"description"`
	Currency    *string `json:"currency"`
	Active      *bool   `json:"is_active"`
}

// CreatePageRequest carries the full section tree; the builder always saves
// the document wholesale, there is no partial patch protocol.
type CreatePageRequest struct {
	Name                string              `json:"name" binding:"required,no_html"`
	Slug                string              `json:"slug" binding:"omitempty,page_path"`
	Sections            []Section           `json:"sections"`
	Status              PageStatus          `json:"status"`
	ScheduledFor        *time.Time          `json:"scheduled_for"`
	NavigationPlacement NavigationPlacement `json:"navigation_placement"`
	PageType            PageType            `json:"page_type"`
	ThemeOverrides      *ThemeOverrides     `json:"theme_overrides"`
	SEO                 *SEOMeta            `json:"seo"`
}

type UpdatePageRequest struct {
	Name                *string              `json:"name" binding:"omitempty,no_html"`
	Slug                *string              `json:"slug" binding:"omitempty,page_path"`
	Sections            *[]Section           `json:"sections"`
	Status              *PageStatus          `json:"status"`
	ScheduledFor        *time.Time           `json:"scheduled_for"`
	NavigationPlacement *NavigationPlacement `json:"navigation_placement"`
	ThemeOverrides      *ThemeOverrides      `json:"theme_overrides"`
	SEO                 *SEOMeta             `json:"seo"`
}

type AddSectionRequest struct {
	Title   string `json:"title"`
	Padding *int   `json:"padding,omitempty"`
}

type AddWidgetRequest struct {
	SectionID string  `json:"section_id" binding:"required"`
	RowID     string  `json:"row_id"`
	Type      string  `json:"type" binding:"required"`
	Props     JSONMap `json:"props"`
}

type ReorderSectionsRequest struct {
	SectionIDs []string `json:"section_ids" binding:"required"`
}

type CreateProductRequest struct {
	Name        string `json:"name" binding:"required,no_html"`
	Slug        string `json:"slug" binding:"omitempty,slug"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents" binding:"required,min=0"`
	ImageURL    string `json:"image_url"`
	Inventory   int    `json:"inventory"`
	Active      *bool  `json:"active"`
	Featured    bool   `json:"featured"`
	Category    string `json:"category"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PriceCents  *int64  `json:"price_cents"`
	ImageURL    *string `json:"image_url"`
	Inventory   *int    `json:"inventory"`
	Active      *bool   `json:"active"`
	Featured    *bool   `json:"featured"`
	Category    *string `json:"category"`
}

type CreateOrderRequest struct {
	CustomerName  string      `json:"customer_name" binding:"required"`
	CustomerEmail string      `json:"customer_email" binding:"required,email"`
	Items         []OrderItem `json:"items" binding:"required,min=1"`
	Notes         string      `json:"notes"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required"`
}

type UpdateEmailConfigRequest struct {
	SMTPHost     string `json:"smtp_host" binding:"required"`
	SMTPPort     string `json:"smtp_port"`
	SMTPUsername string `json:"smtp_username"`
	SMTPPassword string `json:"smtp_password"`
	FromAddress  string `json:"from_address" binding:"required,email"`
	FromName     string `json:"from_name"`
	Enabled      *bool  `json:"enabled"`
}

type UpsertAnalyticsRequest struct {
	Provider   AnalyticsProvider `json:"provider" binding:"required,oneof=google meta"`
	TrackingID string            `json:"tracking_id" binding:"required"`
	Enabled    *bool             `json:"enabled"`
}

// FormSubmissionRequest is posted by the public storefront for form widgets.
type FormSubmissionRequest struct {
	WidgetID string                 `json:"widget_id" binding:"required"`
	Values   map[string]interface{} `json:"values" binding:"required"`
}
