package models_test

import (
	"encoding/json"
	"testing"

	"github.com/mattobell/dealer_backend/models"
)

func TestBodyTypeUnmarshal(t *testing.T) {
	var bt models.BodyType
	if err := json.Unmarshal([]byte(`"suv"`), &bt); err != nil {
		t.Fatalf("unmarshal suv: %v", err)
	}
	if bt != models.BodyTypeSUV {
		t.Fatalf("got %s, want suv", bt)
	}

	if err := json.Unmarshal([]byte(`""`), &bt); err != nil {
		t.Fatalf("empty body type should be accepted: %v", err)
	}

	if err := json.Unmarshal([]byte(`"spaceship"`), &bt); err == nil {
		t.Fatal("unknown body type should be rejected")
	}
}

func TestFeatureCategoryUnmarshal(t *testing.T) {
	var fc models.FeatureCategory
	if err := json.Unmarshal([]byte(`"safety"`), &fc); err != nil {
		t.Fatalf("unmarshal safety: %v", err)
	}
	if fc != models.FeatureCategorySafety {
		t.Fatalf("got %s, want safety", fc)
	}

	if err := json.Unmarshal([]byte(`"cupholders"`), &fc); err == nil {
		t.Fatal("unknown feature category should be rejected")
	}
}

func TestLeaseStateUnmarshal(t *testing.T) {
	var ls models.LeaseState
	if err := json.Unmarshal([]byte(`"active"`), &ls); err != nil {
		t.Fatalf("unmarshal active: %v", err)
	}
	if ls != models.LeaseStateActive {
		t.Fatalf("got %s, want active", ls)
	}
}
