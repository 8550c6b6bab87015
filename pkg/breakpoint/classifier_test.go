package breakpoint

import (
	"testing"

	"github.com/panekit/panekit/pkg/types"
)

func TestTierForWidthBoundaries(t *testing.T) {
	c := NewDefaultClassifier()

	tests := []struct {
		width    float64
		expected types.BreakpointTier
	}{
		{0, types.TierMobile},
		{320, types.TierMobile},
		{767, types.TierMobile},
		{768, types.TierTablet},
		{1023, types.TierTablet},
		{1024, types.TierDesktop},
		{1439, types.TierDesktop},
		{1440, types.TierWide},
		{3840, types.TierWide},
	}

	for _, tt := range tests {
		if got := c.TierForWidth(tt.width); got != tt.expected {
			t.Errorf("TierForWidth(%v) = %s, expected %s", tt.width, got, tt.expected)
		}
	}
}

func TestTierMonotonicInWidth(t *testing.T) {
	c := NewDefaultClassifier()
	order := map[types.BreakpointTier]int{
		types.TierMobile:  0,
		types.TierTablet:  1,
		types.TierDesktop: 2,
		types.TierWide:    3,
	}

	prev := -1
	for width := 0.0; width <= 4000; width += 16 {
		rank := order[c.TierForWidth(width)]
		if rank < prev {
			t.Fatalf("tier decreased at width %v", width)
		}
		prev = rank
	}
}

func TestClassifyDeviceTypeAndOrientation(t *testing.T) {
	c := NewDefaultClassifier()

	tests := []struct {
		name        string
		size        types.ScreenSize
		tier        types.BreakpointTier
		device      types.DeviceType
		orientation types.Orientation
	}{
		{"phone portrait", types.ScreenSize{Width: 390, Height: 844}, types.TierMobile, types.DeviceTypePhone, types.OrientationPortrait},
		{"tablet landscape", types.ScreenSize{Width: 1000, Height: 768}, types.TierTablet, types.DeviceTypeTablet, types.OrientationLandscape},
		{"desktop", types.ScreenSize{Width: 1280, Height: 800}, types.TierDesktop, types.DeviceTypeDesktop, types.OrientationLandscape},
		{"wide", types.ScreenSize{Width: 2560, Height: 1440}, types.TierWide, types.DeviceTypeDesktop, types.OrientationLandscape},
		{"square counts as portrait", types.ScreenSize{Width: 800, Height: 800}, types.TierTablet, types.DeviceTypeTablet, types.OrientationPortrait},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.ClassifySize(tt.size)
			if got.Tier != tt.tier {
				t.Errorf("tier = %s, expected %s", got.Tier, tt.tier)
			}
			if got.DeviceType != tt.device {
				t.Errorf("device = %s, expected %s", got.DeviceType, tt.device)
			}
			if got.Orientation != tt.orientation {
				t.Errorf("orientation = %s, expected %s", got.Orientation, tt.orientation)
			}
		})
	}
}

func TestCustomThresholds(t *testing.T) {
	c := NewClassifier(types.BreakpointThresholds{Tablet: 600, Desktop: 900, Wide: 1600})

	if got := c.TierForWidth(599); got != types.TierMobile {
		t.Errorf("expected mobile below custom tablet threshold, got %s", got)
	}
	if got := c.TierForWidth(600); got != types.TierTablet {
		t.Errorf("expected tablet at custom threshold, got %s", got)
	}
	if got := c.TierForWidth(1500); got != types.TierDesktop {
		t.Errorf("expected desktop below custom wide threshold, got %s", got)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := NewDefaultClassifier()
	snapshot := types.DeviceSnapshot{ScreenSize: types.ScreenSize{Width: 1100, Height: 700}}

	first := c.Classify(snapshot)
	for i := 0; i < 10; i++ {
		if got := c.Classify(snapshot); got != first {
			t.Fatal("classification should be deterministic")
		}
	}
}
