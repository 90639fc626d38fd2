package widgets

import (
	"reflect"
	"testing"

	"storefront-backend/internal/models"
)

func TestRegisterLastWins(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(Config{Type: "banner", DefaultProps: models.JSONMap{"text": "old"}})
	r.MustRegister(Config{Type: "Banner", DefaultProps: models.JSONMap{"text": "new"}})

	cfg, ok := r.Get("banner")
	if !ok {
		t.Fatalf("expected banner to be registered")
	}
	if cfg.DefaultProps["text"] != "new" {
		t.Fatalf("expected last registration to win, got %v", cfg.DefaultProps["text"])
	}
}

func TestRegisterRejectsEmptyType(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Config{Type: "  "}); err == nil {
		t.Fatalf("expected error for empty widget type")
	}
}

func TestMigrateWidget_AtTargetVersionUnchanged(t *testing.T) {
	r := DefaultRegistry()
	widget := models.Widget{ID: "w1", Type: TypeText, Version: 3, Props: models.JSONMap{"content": "hi"}}

	migrated := r.MigrateWidget(widget, 3)
	if !reflect.DeepEqual(widget, migrated) {
		t.Fatalf("widget at target version must be returned unchanged")
	}
}

func TestMigrateWidget_NoHookBumpsVersionOnly(t *testing.T) {
	r := DefaultRegistry()
	widget := models.Widget{ID: "w1", Type: TypeText, Version: 1, Props: models.JSONMap{"content": "hi"}}

	migrated := r.MigrateWidget(widget, 2)
	if migrated.Version != 2 {
		t.Fatalf("expected version 2, got %d", migrated.Version)
	}
	if migrated.Props["content"] != "hi" {
		t.Fatalf("props must survive a default migration")
	}
}

func TestMigrateWidget_CustomHook(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(Config{
		Type: "legacy",
		Migrate: func(w models.Widget, target int) models.Widget {
			if w.Props == nil {
				w.Props = models.JSONMap{}
			}
			if _, ok := w.Props["heading"]; !ok {
				w.Props["heading"] = w.Props["title"]
			}
			return w
		},
	})

	widget := models.Widget{ID: "w1", Type: "legacy", Version: 1, Props: models.JSONMap{"title": "Hello"}}
	migrated := r.MigrateWidget(widget, 2)

	if migrated.Props["heading"] != "Hello" {
		t.Fatalf("migration hook did not run: %v", migrated.Props)
	}
	if migrated.Version != 2 {
		t.Fatalf("expected version bump to 2, got %d", migrated.Version)
	}
}
