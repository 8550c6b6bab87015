// Package engine provides the core layout adaptation engine for PaneKit.
// This package consolidates the following functionality:
// - Adaptation orchestration and the engine state machine
// - Tier-specific structural overlays
// - Advisory plan merging
// - Panic-safe concurrency utilities
package engine
