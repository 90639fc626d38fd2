package service

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"testing"

	"storefront-backend/internal/config"
	"storefront-backend/internal/models"
	"storefront-backend/internal/widgets"

	"gorm.io/gorm"
)

type memEmailConfigRepo struct {
	configs map[uint]*models.EmailConfig
}

func (r *memEmailConfigRepo) GetByStore(storeID uint) (*models.EmailConfig, error) {
	cfg, ok := r.configs[storeID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *cfg
	return &copied, nil
}

func (r *memEmailConfigRepo) Upsert(cfg *models.EmailConfig) error {
	if r.configs == nil {
		r.configs = map[uint]*models.EmailConfig{}
	}
	stored := *cfg
	r.configs[cfg.StoreID] = &stored
	return nil
}

func (r *memEmailConfigRepo) Delete(storeID uint) error {
	delete(r.configs, storeID)
	return nil
}

type sentMail struct {
	addr    string
	from    string
	to      []string
	message string
}

func newTestEmailService(sink *[]sentMail, fail bool) *EmailService {
	cfg := &config.Config{
		EnableEmail: true,
		SMTPHost:    "smtp.platform.test",
		SMTPPort:    "587",
		SMTPFrom:    "noreply@platform.test",
	}
	svc := NewEmailService(&memEmailConfigRepo{}, cfg)
	svc.send = func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		if fail {
			return errors.New("connection refused")
		}
		*sink = append(*sink, sentMail{addr: addr, from: from, to: to, message: string(msg)})
		return nil
	}
	return svc
}

func formWidgetProps(actions map[string]interface{}) models.JSONMap {
	return models.JSONMap{
		"title": "Contact",
		"fields": []interface{}{
			map[string]interface{}{
				"id": "name", "type": "text", "label": "Name", "required": true,
			},
			map[string]interface{}{
				"id": "email", "type": "email", "label": "Email", "required": true,
			},
			map[string]interface{}{
				"id": "state", "type": "text", "label": "State", "required": true,
				"conditional_logic": map[string]interface{}{
					"show_when": map[string]interface{}{
						"field_id": "country", "operator": "equals", "value": "US",
					},
				},
			},
			map[string]interface{}{
				"id": "country", "type": "select", "label": "Country",
				"options": []interface{}{
					map[string]interface{}{"label": "US", "value": "US"},
					map[string]interface{}{"label": "DE", "value": "DE"},
				},
			},
		},
		"actions": actions,
	}
}

func formTestPage(actions map[string]interface{}) models.Page {
	return models.Page{
		ID:      10,
		StoreID: 1,
		Name:    "Contact",
		Slug:    "contact",
		Status:  models.PageStatusPublished,
		Sections: models.PageSections{{
			ID: "s1",
			Rows: []models.Row{{
				ID: "r1",
				Widgets: []models.Widget{{
					ID:    "form-1",
					Type:  widgets.TypeForm,
					Props: formWidgetProps(actions),
				}},
			}},
		}},
	}
}

func newTestFormService(page models.Page, sink *[]sentMail, failMail bool) *FormService {
	resolver := NewResolverService(&fakePageSource{pages: []models.Page{page}}, nil, 0)
	return NewFormService(resolver, newTestEmailService(sink, failMail))
}

func testStore() *models.Store {
	return &models.Store{ID: 1, Name: "Demo Store", Slug: "demo", Currency: "USD", Active: true}
}

func TestFormSubmission_ValidationErrorsStopDispatch(t *testing.T) {
	var sent []sentMail
	svc := newTestFormService(formTestPage(map[string]interface{}{
		"on_submit": "email", "email_to": "owner@demo.test",
	}), &sent, false)

	result, err := svc.HandleSubmission(testStore(), "contact", &models.FormSubmissionRequest{
		WidgetID: "form-1",
		Values:   map[string]interface{}{"name": "Ada"},
	})
	if err != nil {
		t.Fatalf("validation failure is not a service error: %v", err)
	}
	if result.Success {
		t.Fatalf("expected failed submission")
	}
	if _, ok := result.FieldErrors["email"]; !ok {
		t.Fatalf("expected field error for email, got %v", result.FieldErrors)
	}
	if len(sent) != 0 {
		t.Fatalf("dispatch must not run on validation failure")
	}
}

func TestFormSubmission_HiddenFieldSkipsValidation(t *testing.T) {
	var sent []sentMail
	svc := newTestFormService(formTestPage(map[string]interface{}{
		"on_submit": "email", "email_to": "owner@demo.test",
	}), &sent, false)

	// state is required but only visible when country is US.
	result, err := svc.HandleSubmission(testStore(), "contact", &models.FormSubmissionRequest{
		WidgetID: "form-1",
		Values: map[string]interface{}{
			"name":    "Ada",
			"email":   "ada@example.com",
			"country": "DE",
		},
	})
	if err != nil {
		t.Fatalf("submission: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, field errors: %v", result.FieldErrors)
	}
	if len(sent) != 1 {
		t.Fatalf("expected one email, got %d", len(sent))
	}
	if sent[0].to[0] != "owner@demo.test" {
		t.Fatalf("wrong recipient: %v", sent[0].to)
	}
	if !strings.Contains(sent[0].message, "Ada") {
		t.Fatalf("submitted values must appear in the message body")
	}
}

func TestFormSubmission_VisibleConditionalFieldValidated(t *testing.T) {
	var sent []sentMail
	svc := newTestFormService(formTestPage(map[string]interface{}{
		"on_submit": "email", "email_to": "owner@demo.test",
	}), &sent, false)

	result, err := svc.HandleSubmission(testStore(), "contact", &models.FormSubmissionRequest{
		WidgetID: "form-1",
		Values: map[string]interface{}{
			"name":    "Ada",
			"email":   "ada@example.com",
			"country": "US",
		},
	})
	if err != nil {
		t.Fatalf("submission: %v", err)
	}
	if result.Success {
		t.Fatalf("state became required once visible, expected failure")
	}
	if _, ok := result.FieldErrors["state"]; !ok {
		t.Fatalf("expected field error for state, got %v", result.FieldErrors)
	}
}

func TestFormSubmission_RedirectSkipsDispatch(t *testing.T) {
	var sent []sentMail
	svc := newTestFormService(formTestPage(map[string]interface{}{
		"on_submit": "redirect", "redirect_url": "/thanks",
	}), &sent, false)

	result, err := svc.HandleSubmission(testStore(), "contact", &models.FormSubmissionRequest{
		WidgetID: "form-1",
		Values: map[string]interface{}{
			"name": "Ada", "email": "ada@example.com", "country": "DE",
		},
	})
	if err != nil {
		t.Fatalf("submission: %v", err)
	}
	if result.RedirectURL != "/thanks" {
		t.Fatalf("expected redirect url, got %q", result.RedirectURL)
	}
	if len(sent) != 0 {
		t.Fatalf("redirect action must not send mail")
	}
}

func TestFormSubmission_Webhook(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	var sent []sentMail
	svc := newTestFormService(formTestPage(map[string]interface{}{
		"on_submit": "webhook", "webhook_url": server.URL,
	}), &sent, false)

	result, err := svc.HandleSubmission(testStore(), "contact", &models.FormSubmissionRequest{
		WidgetID: "form-1",
		Values: map[string]interface{}{
			"name": "Ada", "email": "ada@example.com", "country": "DE",
		},
	})
	if err != nil {
		t.Fatalf("submission: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %v", result.FieldErrors)
	}
	if !strings.Contains(gotBody, `"store_slug":"demo"`) {
		t.Fatalf("webhook payload missing store slug: %s", gotBody)
	}
	if !strings.Contains(gotBody, "ada@example.com") {
		t.Fatalf("webhook payload missing values: %s", gotBody)
	}
}

func TestFormSubmission_DispatchFailure(t *testing.T) {
	var sent []sentMail
	svc := newTestFormService(formTestPage(map[string]interface{}{
		"on_submit": "email", "email_to": "owner@demo.test",
	}), &sent, true)

	_, err := svc.HandleSubmission(testStore(), "contact", &models.FormSubmissionRequest{
		WidgetID: "form-1",
		Values: map[string]interface{}{
			"name": "Ada", "email": "ada@example.com", "country": "DE",
		},
	})
	if !errors.Is(err, ErrDispatchFailed) {
		t.Fatalf("expected ErrDispatchFailed, got %v", err)
	}
}

func TestFormSubmission_UnknownWidget(t *testing.T) {
	var sent []sentMail
	svc := newTestFormService(formTestPage(map[string]interface{}{"on_submit": "email"}), &sent, false)

	_, err := svc.HandleSubmission(testStore(), "contact", &models.FormSubmissionRequest{
		WidgetID: "missing",
		Values:   map[string]interface{}{},
	})
	if !errors.Is(err, ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}
}

func TestEmailService_UnconfiguredSendReturnsSentinel(t *testing.T) {
	svc := NewEmailService(&memEmailConfigRepo{}, &config.Config{})

	err := svc.Send(1, []string{"owner@demo.test"}, "hello", "body")
	if !errors.Is(err, ErrEmailNotConfigured) {
		t.Fatalf("expected ErrEmailNotConfigured, got %v", err)
	}
}

func TestFormSubmission_EmailNotConfiguredFailsDispatch(t *testing.T) {
	page := formTestPage(map[string]interface{}{
		"on_submit": "email", "email_to": "owner@demo.test",
	})
	resolver := NewResolverService(&fakePageSource{pages: []models.Page{page}}, nil, 0)

	// No store config and no platform SMTP host: the message has nowhere to go.
	email := NewEmailService(&memEmailConfigRepo{}, &config.Config{})
	email.send = func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		t.Fatalf("smtp must not be reached without configuration")
		return nil
	}
	svc := NewFormService(resolver, email)

	result, err := svc.HandleSubmission(testStore(), "contact", &models.FormSubmissionRequest{
		WidgetID: "form-1",
		Values: map[string]interface{}{
			"name": "Ada", "email": "ada@example.com", "country": "DE",
		},
	})
	if !errors.Is(err, ErrDispatchFailed) {
		t.Fatalf("expected ErrDispatchFailed, got %v", err)
	}
	if result != nil && len(result.FieldErrors) != 0 {
		t.Fatalf("dispatch failure must not invent field errors: %v", result.FieldErrors)
	}
}
