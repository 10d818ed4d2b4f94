package config

import "testing"

func TestVINCaseInsensitive(t *testing.T) {
	t.Setenv("VIN_CASE_INSENSITIVE", "")
	if VINCaseInsensitive() {
		t.Fatal("expected case-sensitive matching by default")
	}
	t.Setenv("VIN_CASE_INSENSITIVE", "true")
	if !VINCaseInsensitive() {
		t.Fatal("expected case-insensitive matching when enabled")
	}
}

func TestStrictLifecycleGuards(t *testing.T) {
	t.Setenv("STRICT_LIFECYCLE_GUARDS", "")
	if !StrictLifecycleGuards() {
		t.Fatal("guards must be on by default")
	}
	t.Setenv("STRICT_LIFECYCLE_GUARDS", "false")
	if StrictLifecycleGuards() {
		t.Fatal("expected guards off when explicitly disabled")
	}
	t.Setenv("STRICT_LIFECYCLE_GUARDS", "yes")
	if !StrictLifecycleGuards() {
		t.Fatal("expected guards on for affirmative values")
	}
}
