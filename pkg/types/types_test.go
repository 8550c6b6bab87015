package types

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestAdaptationRecordDurationPersistsAsMilliseconds(t *testing.T) {
	rec := AdaptationRecord{
		ID:        "sig-1",
		FromTier:  TierDesktop,
		ToTier:    TierMobile,
		StartedAt: time.Now(),
		Duration:  1500 * time.Millisecond,
		Succeeded: true,
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"durationMs":1500`) {
		t.Errorf("expected durationMs in milliseconds, got %s", data)
	}

	var got AdaptationRecord
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if got.Duration != 1500*time.Millisecond {
		t.Errorf("duration round-trip = %v, want 1.5s", got.Duration)
	}
	if got.FromTier != TierDesktop || got.ToTier != TierMobile {
		t.Errorf("tiers round-trip = %s -> %s", got.FromTier, got.ToTier)
	}
}
