package service

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"storefront-backend/internal/config"
	"storefront-backend/internal/models"
	"storefront-backend/internal/repository"
	"storefront-backend/pkg/logger"

	"gorm.io/gorm"
)

// EmailService delivers transactional mail over SMTP. Per-store settings win;
// the platform config is the fallback when a store has none.
type EmailService struct {
	configs repository.EmailConfigRepository
	cfg     *config.Config

	// send is swappable in tests.
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailService(configs repository.EmailConfigRepository, cfg *config.Config) *EmailService {
	return &EmailService{configs: configs, cfg: cfg, send: smtp.SendMail}
}

func (s *EmailService) GetConfig(storeID uint) (*models.EmailConfig, error) {
	cfg, err := s.configs.GetByStore(storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return cfg, nil
}

func (s *EmailService) UpdateConfig(storeID uint, req *models.UpdateEmailConfigRequest) (*models.EmailConfig, error) {
	cfg := &models.EmailConfig{
		StoreID:      storeID,
		SMTPHost:     req.SMTPHost,
		SMTPPort:     req.SMTPPort,
		SMTPUsername: req.SMTPUsername,
		SMTPPassword: req.SMTPPassword,
		FromAddress:  req.FromAddress,
		FromName:     req.FromName,
		Enabled:      true,
	}
	if cfg.SMTPPort == "" {
		cfg.SMTPPort = "587"
	}
	if req.Enabled != nil {
		cfg.Enabled = *req.Enabled
	}
	if err := s.configs.Upsert(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *EmailService) DeleteConfig(storeID uint) error {
	return s.configs.Delete(storeID)
}

// Send delivers a plain-text message for the given store. When neither the
// store nor the platform has a usable SMTP target it returns
// ErrEmailNotConfigured; callers decide whether that drop is fatal.
func (s *EmailService) Send(storeID uint, to []string, subject, body string) error {
	host, port, username, password, from := s.cfg.SMTPHost, s.cfg.SMTPPort, s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPFrom
	enabled := s.cfg.EnableEmail

	if storeCfg, err := s.GetConfig(storeID); err == nil && storeCfg != nil && storeCfg.Enabled {
		host, port, username, password = storeCfg.SMTPHost, storeCfg.SMTPPort, storeCfg.SMTPUsername, storeCfg.SMTPPassword
		from = storeCfg.FromAddress
		if storeCfg.FromName != "" {
			from = fmt.Sprintf("%s <%s>", storeCfg.FromName, storeCfg.FromAddress)
		}
		enabled = true
	}

	if !enabled || host == "" {
		logger.Debug("Email delivery disabled, dropping message", map[string]interface{}{
			"store_id": storeID,
			"subject":  subject,
		})
		return ErrEmailNotConfigured
	}

	msg := buildMessage(from, to, subject, body)

	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	addr := fmt.Sprintf("%s:%s", host, port)
	if err := s.send(addr, auth, fromAddress(from), to, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func buildMessage(from string, to []string, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// fromAddress extracts the bare address from a "Name <addr>" header value.
func fromAddress(from string) string {
	if i := strings.Index(from, "<"); i >= 0 {
		if j := strings.Index(from[i:], ">"); j > 0 {
			return from[i+1 : i+j]
		}
	}
	return from
}
