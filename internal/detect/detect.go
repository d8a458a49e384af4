// Package detect reports which supported applications are installed and
// whether their configs already pick up swatch output.
package detect

import (
	"github.com/asteroid-belt/swatch/internal/adapter"
	"github.com/asteroid-belt/swatch/internal/system"
)

// DetectionResult holds information about one adapter's application.
type DetectionResult struct {
	Adapter      *adapter.Adapter
	Installed    bool
	ConfigPath   string // resolved config path (first existing candidate)
	ConfigExists bool
	Integrated   bool
	// Snippet is what to add to ConfigPath when not yet integrated.
	Snippet string
}

// NeedsIntegration reports an installed application whose config does not
// reference swatch output yet.
func (r DetectionResult) NeedsIntegration() bool {
	return r.Installed && !r.Integrated && r.Snippet != ""
}

// DetectAll detects every adapter in the registry, in registration order.
func DetectAll(reg *adapter.Registry) []DetectionResult {
	adapters := reg.All()
	results := make([]DetectionResult, 0, len(adapters))
	for _, a := range adapters {
		results = append(results, DetectAdapter(a))
	}
	return results
}

// DetectAdapter detects a single adapter.
func DetectAdapter(a *adapter.Adapter) DetectionResult {
	result := DetectionResult{
		Adapter:    a,
		Installed:  a.IsInstalled(),
		ConfigPath: a.ConfigPath(),
	}
	if result.ConfigPath != "" {
		result.ConfigExists = system.PathExists(result.ConfigPath)
	}
	if result.ConfigExists {
		result.Integrated = a.IsIntegrated()
	}
	if !result.Integrated {
		result.Snippet = a.IntegrationSnippet
	}
	return result
}

// Installed filters results to installed applications.
func Installed(results []DetectionResult) []DetectionResult {
	var out []DetectionResult
	for _, r := range results {
		if r.Installed {
			out = append(out, r)
		}
	}
	return out
}
