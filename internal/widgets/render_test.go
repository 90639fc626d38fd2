package widgets

import (
	"testing"

	"storefront-backend/internal/models"
)

func testPage(widgets ...models.Widget) *models.Page {
	return &models.Page{
		ID:      1,
		Name:    "Landing",
		Slug:    "/",
		Version: 1,
		Status:  models.PageStatusPublished,
		Sections: models.PageSections{
			{ID: "s1", Rows: []models.Row{{ID: "r1", Widgets: widgets}}},
		},
	}
}

func TestRenderPage_SkipsUnknownWidget(t *testing.T) {
	reg := DefaultRegistry()
	page := testPage(
		models.Widget{ID: "w1", Type: TypeText, Version: 1, Props: models.JSONMap{"content": "hello"}},
		models.Widget{ID: "w2", Type: "unknown-widget-xyz", Version: 1},
		models.Widget{ID: "w3", Type: TypeButton, Version: 1},
	)

	rendered := RenderPage(page, reg, nil)
	if rendered == nil {
		t.Fatalf("expected rendered page")
	}

	widgets := rendered.Sections[0].Rows[0].Widgets
	if len(widgets) != 2 {
		t.Fatalf("expected unknown widget to be skipped, got %d widgets", len(widgets))
	}
	if widgets[0].ID != "w1" || widgets[1].ID != "w3" {
		t.Fatalf("unexpected widget order: %v, %v", widgets[0].ID, widgets[1].ID)
	}
}

func TestRenderPage_MergesDefaultProps(t *testing.T) {
	reg := DefaultRegistry()
	page := testPage(models.Widget{ID: "w1", Type: TypeButton, Version: 1, Props: models.JSONMap{"label": "Buy"}})

	rendered := RenderPage(page, reg, nil)
	props := rendered.Sections[0].Rows[0].Widgets[0].Props

	if props["label"] != "Buy" {
		t.Fatalf("instance prop lost: %v", props)
	}
	if props["variant"] != "primary" {
		t.Fatalf("default prop not merged: %v", props)
	}
}

func TestRenderPage_ConditionsHideWidget(t *testing.T) {
	reg := DefaultRegistry()
	page := testPage(models.Widget{
		ID: "w1", Type: TypeText, Version: 1,
		Conditions: &models.WidgetConditions{
			ShowWhen: &models.Condition{Field: "device", Operator: "equals", Value: "mobile"},
		},
	})

	rendered := RenderPage(page, reg, map[string]interface{}{"device": "desktop"})
	if n := len(rendered.Sections[0].Rows[0].Widgets); n != 0 {
		t.Fatalf("expected widget hidden by condition, got %d widgets", n)
	}

	rendered = RenderPage(page, reg, map[string]interface{}{"device": "mobile"})
	if n := len(rendered.Sections[0].Rows[0].Widgets); n != 1 {
		t.Fatalf("expected widget visible, got %d widgets", n)
	}
}

func TestRenderPage_MigratesStaleWidgets(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(Config{
		Type: "legacy",
		Migrate: func(w models.Widget, target int) models.Widget {
			w.Props = models.JSONMap{"upgraded": true}
			return w
		},
	})

	page := testPage(models.Widget{ID: "w1", Type: "legacy", Version: 1})
	page.Version = 2

	rendered := RenderPage(page, reg, nil)
	props := rendered.Sections[0].Rows[0].Widgets[0].Props
	if props["upgraded"] != true {
		t.Fatalf("stale widget was not migrated: %v", props)
	}
}

func TestEvalCondition_DanglingFieldNumericCompareIsFalse(t *testing.T) {
	cond := &models.Condition{Field: "missing", Operator: "greater_than", Value: "5"}
	if EvalCondition(cond, map[string]interface{}{}) {
		t.Fatalf("numeric comparison against a missing field must be false")
	}
}
