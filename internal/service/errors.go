package service

import "errors"

var (
	ErrStoreNotFound      = errors.New("store not found")
	ErrPageNotFound       = errors.New("page not found")
	ErrSlugTaken          = errors.New("a published page with this slug already exists")
	ErrStoreSlugTaken     = errors.New("a store with this slug already exists")
	ErrSystemPageExists   = errors.New("store already has a published system page of this type")
	ErrUnknownWidgetType  = errors.New("unknown widget type")
	ErrTemplateNotFound   = errors.New("page template not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrFormNotFound       = errors.New("form widget not found on page")
	ErrEmailNotConfigured = errors.New("email delivery is not configured")
	ErrSubmissionInvalid  = errors.New("form submission failed validation")
	ErrDispatchFailed     = errors.New("form submission could not be delivered")
)
