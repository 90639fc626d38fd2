package widgets

import (
	"fmt"
	"strings"
	"sync"

	"storefront-backend/internal/models"
)

// MigrateFunc upgrades a widget instance to the target document version.
type MigrateFunc func(widget models.Widget, targetVersion int) models.Widget

// Config describes a widget type: its props schema for the builder UI, the
// defaults applied to new instances, and an optional migration hook.
type Config struct {
	Type         string
	Name         string
	Category     string
	Schema       models.JSONMap
	DefaultProps models.JSONMap
	Migrate      MigrateFunc
}

// Registry maps widget type tags to their configs. It is constructed
// explicitly at startup and injected wherever widgets are rendered or
// validated; nothing registers itself via import side effects.
type Registry struct {
	mu      sync.RWMutex
	configs map[string]Config
}

func NewRegistry() *Registry {
	return &Registry{configs: make(map[string]Config)}
}

// Register stores the config under its normalised type tag. Registration is
// idempotent by type: the last registration for a tag wins.
func (r *Registry) Register(cfg Config) error {
	if r == nil {
		return fmt.Errorf("registry is nil")
	}

	widgetType := strings.TrimSpace(strings.ToLower(cfg.Type))
	if widgetType == "" {
		return fmt.Errorf("widget type is empty")
	}
	cfg.Type = widgetType

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.configs == nil {
		r.configs = make(map[string]Config)
	}
	r.configs[widgetType] = cfg
	return nil
}

// MustRegister registers the config and panics if registration fails.
func (r *Registry) MustRegister(cfg Config) {
	if err := r.Register(cfg); err != nil {
		panic(err)
	}
}

// Get retrieves the config for the provided widget type if it exists.
func (r *Registry) Get(widgetType string) (Config, bool) {
	if r == nil {
		return Config{}, false
	}

	widgetType = strings.TrimSpace(strings.ToLower(widgetType))
	if widgetType == "" {
		return Config{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.configs[widgetType]
	return cfg, ok
}

// Types lists registered widget type tags for the builder UI.
func (r *Registry) Types() []string {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.configs))
	for t := range r.configs {
		types = append(types, t)
	}
	return types
}

// Configs returns every registered config.
func (r *Registry) Configs() []Config {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Config, 0, len(r.configs))
	for _, cfg := range r.configs {
		list = append(list, cfg)
	}
	return list
}

// MigrateWidget runs the type's migration hook when the widget's own version
// lags the target. A widget already at targetVersion, or one whose type has
// no hook, is returned unchanged.
func (r *Registry) MigrateWidget(widget models.Widget, targetVersion int) models.Widget {
	if widget.Version == targetVersion {
		return widget
	}

	cfg, ok := r.Get(widget.Type)
	if !ok || cfg.Migrate == nil {
		widget.Version = targetVersion
		return widget
	}

	migrated := cfg.Migrate(widget, targetVersion)
	migrated.Version = targetVersion
	return migrated
}
