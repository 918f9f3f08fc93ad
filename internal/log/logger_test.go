package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLogger_TagsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Component: ComponentWorker,
		Handler:   slog.NewTextHandler(&buf, nil),
	})

	logger.Info("Sync completed", FieldEntityID, "abc-123")

	out := buf.String()
	if !strings.Contains(out, "component=worker") {
		t.Errorf("output missing component tag: %s", out)
	}
	if !strings.Contains(out, "entity_id=abc-123") {
		t.Errorf("output missing entity field: %s", out)
	}
}

func TestLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Component: ComponentApp,
		Handler:   slog.NewTextHandler(&buf, nil),
	})

	logger.WithComponent(ComponentStorage).Info("Migration applied")

	if out := buf.String(); !strings.Contains(out, "component=storage") {
		t.Errorf("output missing overridden component: %s", out)
	}
}

func TestLogFields_Builder(t *testing.T) {
	fields := NewFields().
		WithOperation(OpSync).
		WithEntity("envelope", "abc-123", 3).
		WithError(nil)

	if _, present := fields[FieldError]; present {
		t.Error("nil error must not add an error field")
	}

	slice := fields.ToSlice()
	if len(slice) != 8 {
		t.Fatalf("ToSlice length = %d, want 8 (4 key/value pairs)", len(slice))
	}
	if fields[FieldOperation] != OpSync || fields[FieldEntityID] != "abc-123" {
		t.Errorf("unexpected field values: %v", fields)
	}
}
