package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
)

// FeatureFlags manages feature toggles. Flags let the analytics and
// spaced-repetition surfaces be switched off without a redeploy when
// their data is being migrated or backfilled.
type FeatureFlags struct {
	mu sync.RWMutex

	features map[string]*Feature
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool
}

// Predefined feature flag names.
const (
	// FeatureAnalytics gates the analytics endpoint.
	FeatureAnalytics = "analytics"

	// FeatureSpacedRepetition gates the spaced-repetition review endpoint.
	FeatureSpacedRepetition = "spaced_repetition"

	// FeatureRecommendations gates recommendation strings in analytics
	// responses.
	FeatureRecommendations = "recommendations"

	// FeatureBackupExport gates the backup export endpoint.
	FeatureBackupExport = "backup_export"
)

// LoadFeatureFlags loads feature flags from environment variables.
// A flag named "analytics" is overridden by FEATURE_ANALYTICS=true|false.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features: make(map[string]*Feature),
	}

	ff.initializeDefaults()
	ff.loadFromEnvironment()

	return ff
}

func (ff *FeatureFlags) initializeDefaults() {
	ff.features[FeatureAnalytics] = &Feature{
		Name:        FeatureAnalytics,
		Description: "Learning velocity, readiness, and summary analytics",
		Enabled:     true,
	}

	ff.features[FeatureSpacedRepetition] = &Feature{
		Name:        FeatureSpacedRepetition,
		Description: "Due spaced-repetition review items",
		Enabled:     true,
	}

	ff.features[FeatureRecommendations] = &Feature{
		Name:        FeatureRecommendations,
		Description: "Recommendation strings in analytics responses",
		Enabled:     true,
	}

	ff.features[FeatureBackupExport] = &Feature{
		Name:        FeatureBackupExport,
		Description: "Full progress export for backups",
		Enabled:     true,
	}
}

func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		envKey := "FEATURE_" + strings.ToUpper(name)
		val := os.Getenv(envKey)
		if val == "" {
			continue
		}
		if enabled, err := strconv.ParseBool(val); err == nil {
			feature.Enabled = enabled
		}
	}
}

// IsEnabled reports whether the named feature is on. Unknown names are
// treated as disabled.
func (ff *FeatureFlags) IsEnabled(name string) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	feature, ok := ff.features[name]
	return ok && feature.Enabled
}

// Set overrides a flag at runtime. Used by tests.
func (ff *FeatureFlags) Set(name string, enabled bool) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if feature, ok := ff.features[name]; ok {
		feature.Enabled = enabled
		return
	}
	ff.features[name] = &Feature{Name: name, Enabled: enabled}
}

// List returns a name -> enabled view of all flags.
func (ff *FeatureFlags) List() map[string]bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	out := make(map[string]bool, len(ff.features))
	for name, feature := range ff.features {
		out[name] = feature.Enabled
	}
	return out
}
