package internal

import (
	"testing"

	"github.com/kcmvp/archunit"
)

func TestArchitecture(t *testing.T) {
	model := archunit.Packages("model", []string{".../internal/color/...", ".../internal/status/..."})
	core := archunit.Packages("core", []string{".../internal/bulb/..."})
	adapters := archunit.Packages("adapters", []string{
		".../internal/miio/...",
		".../internal/metrics/...",
		".../internal/publish/...",
		".../internal/config/...",
		".../internal/pid/...",
	})

	// Color math and report parsing stay free of I/O
	if err := model.ShouldNotReferLayers(core); err != nil {
		t.Errorf("Architecture violation: model depends on bulb: %v", err)
	}
	if err := model.ShouldNotReferLayers(adapters); err != nil {
		t.Errorf("Architecture violation: model depends on adapters: %v", err)
	}

	// The bulb only knows the Device interface
	if err := core.ShouldNotReferLayers(adapters); err != nil {
		t.Errorf("Architecture violation: bulb depends on adapters: %v", err)
	}
}

func TestLayersExist(t *testing.T) {
	for _, pattern := range []string{".../internal/bulb", ".../internal/miio", ".../internal/status"} {
		if len(archunit.Packages(pattern, []string{pattern}).Packages()) == 0 {
			t.Errorf("no package found for %s", pattern)
		}
	}
}
