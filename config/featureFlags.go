package config

import (
	"os"
	"strings"
)

// VINCaseInsensitive widens VIN uniqueness matching to be case-insensitive.
// The default is case-sensitive exact matching; the storage layer's unique
// index on vin remains the second line of defense either way.
//
// Set via env:
// - VIN_CASE_INSENSITIVE=true
func VINCaseInsensitive() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("VIN_CASE_INSENSITIVE")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// StrictLifecycleGuards enables the hard state-machine guards on vehicle
// transitions (sold/returned vehicles reject further transitions with an
// error instead of being silently skipped during batch reconciliation).
//
// Set via env:
// - STRICT_LIFECYCLE_GUARDS=false to relax (default true)
func StrictLifecycleGuards() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("STRICT_LIFECYCLE_GUARDS")))
	if v == "" {
		return true
	}
	return v != "0" && v != "false" && v != "no" && v != "n"
}
