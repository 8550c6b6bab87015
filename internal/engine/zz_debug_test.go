package engine

import (
	"context"
	"testing"
	"time"

	"github.com/panekit/panekit/pkg/types"
)

func TestZZDebugPanePersist(t *testing.T) {
	p, publisher, store, _ := newTestEngine(t, nil)

	if err := p.Start(twoPaneLayout()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	next, err := p.AddPane(types.Pane{
		ID:   "third",
		Size: types.Size{Width: 300, Height: 800, MinWidth: 120, MinHeight: 80},
	})
	if err != nil {
		t.Fatalf("AddPane failed: %v", err)
	}
	t.Logf("next panes=%d publisher pane changes=%d", len(next.Panes), publisher.PaneChangeCount())
	for i := 0; i < 10; i++ {
		time.Sleep(100 * time.Millisecond)
		saved, lerr := store.LoadLayout(context.Background(), "test")
		keys := make([]string, 0, len(store.Layouts))
		for k, v := range store.Layouts {
			keys = append(keys, k)
			t.Logf("  key=%q panes=%d id=%s", k, len(v.Panes), v.ID)
		}
		if saved != nil {
			t.Logf("iter %d: saved panes=%d err=%v saves=%d keys=%v", i, len(saved.Panes), lerr, store.SaveCalls, keys)
		} else {
			t.Logf("iter %d: saved=nil err=%v saves=%d keys=%v", i, lerr, store.SaveCalls, keys)
		}
	}
}
