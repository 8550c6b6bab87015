// Package breakpoint maps device snapshots onto responsive tiers.
package breakpoint

import (
	"github.com/panekit/panekit/pkg/types"
)

// Classifier derives a breakpoint tier, device type, and orientation from
// a screen size. Classification is pure and deterministic: no I/O, same
// input always yields the same output.
type Classifier struct {
	thresholds types.BreakpointThresholds
}

// NewClassifier creates a classifier with the given tier thresholds.
func NewClassifier(thresholds types.BreakpointThresholds) *Classifier {
	return &Classifier{thresholds: thresholds}
}

// NewDefaultClassifier creates a classifier with the standard thresholds.
func NewDefaultClassifier() *Classifier {
	return NewClassifier(types.BreakpointThresholds{
		Tablet:  types.DefaultTabletMinWidth,
		Desktop: types.DefaultDesktopMinWidth,
		Wide:    types.DefaultWideMinWidth,
	})
}

// Classify maps a snapshot to its tier, device type, and orientation.
func (c *Classifier) Classify(snapshot types.DeviceSnapshot) types.Classification {
	return c.ClassifySize(snapshot.ScreenSize)
}

// ClassifySize maps a raw screen size to its classification. Tier is
// monotonic in width: it never decreases as width grows.
func (c *Classifier) ClassifySize(size types.ScreenSize) types.Classification {
	tier := c.TierForWidth(size.Width)

	orientation := types.OrientationPortrait
	if size.Width > size.Height {
		orientation = types.OrientationLandscape
	}

	return types.Classification{
		Tier:        tier,
		DeviceType:  deviceTypeForTier(tier),
		Orientation: orientation,
	}
}

// TierForWidth returns the tier for a viewport width.
func (c *Classifier) TierForWidth(width float64) types.BreakpointTier {
	switch {
	case width < c.thresholds.Tablet:
		return types.TierMobile
	case width < c.thresholds.Desktop:
		return types.TierTablet
	case width < c.thresholds.Wide:
		return types.TierDesktop
	default:
		return types.TierWide
	}
}

func deviceTypeForTier(tier types.BreakpointTier) types.DeviceType {
	switch tier {
	case types.TierMobile:
		return types.DeviceTypePhone
	case types.TierTablet:
		return types.DeviceTypeTablet
	default:
		return types.DeviceTypeDesktop
	}
}
