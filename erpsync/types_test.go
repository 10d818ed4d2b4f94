package erpsync

import (
	"testing"
	"time"

	"github.com/mattobell/dealer_backend/models"
)

func TestNormalizeModules(t *testing.T) {
	mod := NormalizeModules(SyncModules{Sales: true})
	if !mod.Makes || !mod.Models || !mod.Receipts {
		t.Fatalf("required modules must stay enabled: %+v", mod)
	}
	if !mod.Sales {
		t.Error("sales flag should survive normalization")
	}
	if mod.Features || mod.Returns {
		t.Errorf("optional flags should stay off: %+v", mod)
	}
}

func TestDecodeModulesFallsBackToDefaults(t *testing.T) {
	def := DefaultModules()

	if got := DecodeModules(nil); got != def {
		t.Errorf("nil settings: got %+v, want defaults", got)
	}
	if got := DecodeModules([]byte("not json")); got != def {
		t.Errorf("bad settings: got %+v, want defaults", got)
	}

	raw := EncodeModules(SyncModules{Features: true, Returns: true})
	got := DecodeModules(raw)
	if !got.Features || !got.Returns {
		t.Errorf("round trip lost flags: %+v", got)
	}
	if !got.Makes || !got.Models || !got.Receipts {
		t.Errorf("round trip lost required modules: %+v", got)
	}
}

func TestCursorStateRoundTrip(t *testing.T) {
	state := CursorState{
		Makes: CursorEntry{UpdatedSince: "2026-08-01T00:00:00Z", Cursor: "abc"},
		Sales: CursorEntry{UpdatedSince: "2026-08-15T12:00:00Z"},
	}
	got := DecodeCursorState(EncodeCursorState(state))
	if got != state {
		t.Fatalf("round trip: got %+v, want %+v", got, state)
	}

	if got := DecodeCursorState([]byte("broken")); got != (CursorState{}) {
		t.Errorf("bad cursor state should decode to zero: %+v", got)
	}
}

func TestIsEmptyModules(t *testing.T) {
	if !isEmptyModules(SyncModules{}) {
		t.Error("zero value should be empty")
	}
	if isEmptyModules(SyncModules{Sales: true}) {
		t.Error("any flag set means not empty")
	}
}

func TestInitialUpdatedSince(t *testing.T) {
	if got := initialUpdatedSince(CursorEntry{UpdatedSince: "2026-08-01T00:00:00Z"}, models.ErpConnection{}); got != "2026-08-01T00:00:00Z" {
		t.Errorf("cursor value should win: %q", got)
	}

	last := time.Date(2026, time.July, 1, 9, 30, 0, 0, time.UTC)
	conn := models.ErpConnection{LastSuccessSyncAt: &last}
	if got := initialUpdatedSince(CursorEntry{}, conn); got != "2026-07-01T09:30:00Z" {
		t.Errorf("last success sync should be the fallback: %q", got)
	}

	// without any anchor the window defaults to the recent past
	got := initialUpdatedSince(CursorEntry{}, models.ErpConnection{})
	parsed, err := time.Parse(time.RFC3339, got)
	if err != nil {
		t.Fatalf("default window is not RFC3339: %q", got)
	}
	if time.Since(parsed) > 31*24*time.Hour || time.Since(parsed) < 29*24*time.Hour {
		t.Errorf("default window should be about 30 days back: %q", got)
	}
}

func TestNormalizeRemoteEnums(t *testing.T) {
	if got := normalizeBodyType(" SUV "); got != models.BodyTypeSUV {
		t.Errorf("normalizeBodyType = %q, want suv", got)
	}
	if got := normalizeBodyType("hovercraft"); got != "" {
		t.Errorf("unknown body type should degrade to empty, got %q", got)
	}
	if got := normalizeFeatureCategory("Safety"); got != models.FeatureCategorySafety {
		t.Errorf("normalizeFeatureCategory = %q, want safety", got)
	}
	if got := normalizeFeatureCategory("misc"); got != "" {
		t.Errorf("unknown category should degrade to empty, got %q", got)
	}
}
