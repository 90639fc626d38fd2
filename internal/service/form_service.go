package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"storefront-backend/internal/forms"
	"storefront-backend/internal/models"
	"storefront-backend/internal/widgets"
	"storefront-backend/pkg/logger"
)

// SubmissionResult is what the storefront gets back for a form post. Field
// errors and dispatch failures are separate outcomes: validation errors never
// reach the dispatch stage, and a dispatch failure never invents field errors.
type SubmissionResult struct {
	Success     bool                   `json:"success"`
	FieldErrors map[string]string      `json:"field_errors,omitempty"`
	RedirectURL string                 `json:"redirect_url,omitempty"`
	Values      map[string]interface{} `json:"-"`
}

type FormService struct {
	resolver *ResolverService
	email    *EmailService
	client   *http.Client
}

func NewFormService(resolver *ResolverService, email *EmailService) *FormService {
	return &FormService{
		resolver: resolver,
		email:    email,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// HandleSubmission validates a form post against the widget's declared
// definition and runs the configured submit action.
func (s *FormService) HandleSubmission(store *models.Store, pagePath string, req *models.FormSubmissionRequest) (*SubmissionResult, error) {
	page := s.resolver.ResolvePage(store.ID, pagePath)
	if page == nil {
		return nil, ErrFormNotFound
	}

	widget := findFormWidget(page, req.WidgetID)
	if widget == nil {
		return nil, ErrFormNotFound
	}

	def, err := forms.ParseDefinition(widget.Props)
	if err != nil {
		logger.Error(err, "Form widget carries an undecodable definition", map[string]interface{}{
			"page_id":   page.ID,
			"widget_id": widget.ID,
		})
		return nil, ErrFormNotFound
	}

	ev := forms.NewEvaluator(def)
	for fieldID, value := range req.Values {
		ev.SetValue(fieldID, value)
	}

	values, fieldErrors := ev.SubmitValues()
	if len(fieldErrors) > 0 {
		return &SubmissionResult{Success: false, FieldErrors: fieldErrors}, nil
	}

	result := &SubmissionResult{Success: true, Values: values}

	switch def.Actions.OnSubmit {
	case forms.ActionRedirect:
		result.RedirectURL = def.Actions.RedirectURL
	case forms.ActionEmail:
		if err := s.dispatchEmail(store, def, values); err != nil {
			logger.Error(err, "Form email dispatch failed", map[string]interface{}{"store_id": store.ID})
			return nil, ErrDispatchFailed
		}
	case forms.ActionWebhook:
		if err := s.dispatchWebhook(store, def, values); err != nil {
			logger.Error(err, "Form webhook dispatch failed", map[string]interface{}{"store_id": store.ID})
			return nil, ErrDispatchFailed
		}
	case forms.ActionCustom:
		logger.Info("Form submission with custom action recorded", map[string]interface{}{
			"store_id":  store.ID,
			"widget_id": widget.ID,
		})
	}

	return result, nil
}

func (s *FormService) dispatchEmail(store *models.Store, def *forms.Definition, values map[string]interface{}) error {
	to := def.Actions.EmailTo
	if to == "" {
		return fmt.Errorf("form action email has no recipient")
	}

	subject := fmt.Sprintf("New form submission: %s", def.Title)
	if def.Title == "" {
		subject = fmt.Sprintf("New form submission on %s", store.Name)
	}

	fieldIDs := make([]string, 0, len(values))
	for id := range values {
		fieldIDs = append(fieldIDs, id)
	}
	sort.Strings(fieldIDs)

	var body bytes.Buffer
	fmt.Fprintf(&body, "Store: %s\r\n\r\n", store.Name)
	for _, id := range fieldIDs {
		label := id
		if field, ok := def.FieldByID(id); ok && field.Label != "" {
			label = field.Label
		}
		fmt.Fprintf(&body, "%s: %v\r\n", label, values[id])
	}

	return s.email.Send(store.ID, []string{to}, subject, body.String())
}

func (s *FormService) dispatchWebhook(store *models.Store, def *forms.Definition, values map[string]interface{}) error {
	if def.Actions.WebhookURL == "" {
		return fmt.Errorf("form action webhook has no url")
	}

	payload, err := json.Marshal(map[string]interface{}{
		"store_id":   store.ID,
		"store_slug": store.Slug,
		"form_title": def.Title,
		"values":     values,
	})
	if err != nil {
		return err
	}

	resp, err := s.client.Post(def.Actions.WebhookURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded %d", resp.StatusCode)
	}
	return nil
}

// findFormWidget locates a form widget by id in the raw (unrendered) tree so
// hidden-by-condition forms still accept submissions from cached markup.
func findFormWidget(page *models.Page, widgetID string) *models.Widget {
	for i := range page.Sections {
		for j := range page.Sections[i].Rows {
			row := &page.Sections[i].Rows[j]
			for k := range row.Widgets {
				w := &row.Widgets[k]
				if w.ID == widgetID && w.Type == widgets.TypeForm {
					return w
				}
			}
		}
	}
	return nil
}
