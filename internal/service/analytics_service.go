package service

import (
	"fmt"
	"html/template"

	"storefront-backend/internal/models"
	"storefront-backend/internal/repository"
)

// AnalyticsSnippet is a ready-to-embed tracking tag for the storefront head.
type AnalyticsSnippet struct {
	Provider models.AnalyticsProvider `json:"provider"`
	HTML     string                   `json:"html"`
}

type AnalyticsService struct {
	integrations repository.AnalyticsRepository
}

func NewAnalyticsService(integrations repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{integrations: integrations}
}

func (s *AnalyticsService) GetByStore(storeID uint) ([]models.AnalyticsIntegration, error) {
	return s.integrations.GetByStore(storeID)
}

func (s *AnalyticsService) Upsert(storeID uint, req *models.UpsertAnalyticsRequest) (*models.AnalyticsIntegration, error) {
	integration := &models.AnalyticsIntegration{
		StoreID:    storeID,
		Provider:   req.Provider,
		TrackingID: req.TrackingID,
		Enabled:    true,
	}
	if req.Enabled != nil {
		integration.Enabled = *req.Enabled
	}
	if err := s.integrations.Upsert(integration); err != nil {
		return nil, err
	}
	return integration, nil
}

func (s *AnalyticsService) Delete(storeID uint, provider models.AnalyticsProvider) error {
	return s.integrations.Delete(storeID, provider)
}

// Snippets renders the tracking tags for every enabled integration. Tracking
// ids are attribute-escaped before interpolation.
func (s *AnalyticsService) Snippets(storeID uint) ([]AnalyticsSnippet, error) {
	enabled, err := s.integrations.GetEnabledByStore(storeID)
	if err != nil {
		return nil, err
	}

	snippets := make([]AnalyticsSnippet, 0, len(enabled))
	for _, integration := range enabled {
		id := template.HTMLEscapeString(integration.TrackingID)
		var html string
		switch integration.Provider {
		case models.AnalyticsGoogle:
			html = fmt.Sprintf(
				`<script async src="https://www.googletagmanager.com/gtag/js?id=%s"></script>`+
					`<script>window.dataLayer=window.dataLayer||[];function gtag(){dataLayer.push(arguments);}gtag('js',new Date());gtag('config','%s');</script>`,
				id, id)
		case models.AnalyticsMeta:
			html = fmt.Sprintf(
				`<script>!function(f,b,e,v,n,t,s){if(f.fbq)return;n=f.fbq=function(){n.callMethod?n.callMethod.apply(n,arguments):n.queue.push(arguments)};`+
					`if(!f._fbq)f._fbq=n;n.push=n;n.loaded=!0;n.version='2.0';n.queue=[];t=b.createElement(e);t.async=!0;t.src=v;s=b.getElementsByTagName(e)[0];`+
					`s.parentNode.insertBefore(t,s)}(window,document,'script','https://connect.facebook.net/en_US/fbevents.js');fbq('init','%s');fbq('track','PageView');</script>`,
				id)
		default:
			continue
		}
		snippets = append(snippets, AnalyticsSnippet{Provider: integration.Provider, HTML: html})
	}
	return snippets, nil
}
