package queue

import (
	"context"
	"fmt"
	"testing"

	"github.com/sv4u/oggdl/download/media"
)

func TestExpandPreservesListerOrder(t *testing.T) {
	// Members come back in the collection's canonical order and must not be
	// sorted, filtered, or deduplicated.
	members := trackRefs("Z9", "A1", "M5", "A1")
	lister := &fakeLister{
		members: map[string][]media.Reference{"PL": members},
	}
	e := NewExpander(lister)

	got := e.Expand(context.Background(), media.Reference{Kind: media.KindPlaylist, ID: "PL"})
	if len(got) != len(members) {
		t.Fatalf("Expand() returned %d members, want %d", len(got), len(members))
	}
	for i := range members {
		if got[i] != members[i] {
			t.Errorf("Expand()[%d] = %v, want %v", i, got[i], members[i])
		}
	}
}

func TestExpandFailureYieldsEmpty(t *testing.T) {
	lister := &fakeLister{
		errors: map[string]error{"SH": fmt.Errorf("access denied")},
	}
	e := NewExpander(lister)

	got := e.Expand(context.Background(), media.Reference{Kind: media.KindShow, ID: "SH"})
	if len(got) != 0 {
		t.Errorf("Expand() = %v, want empty on lookup failure", got)
	}
}

func TestExpandPassesPlayableThrough(t *testing.T) {
	lister := &fakeLister{}
	e := NewExpander(lister)

	ref := media.Reference{Kind: media.KindEpisode, ID: "EP"}
	got := e.Expand(context.Background(), ref)
	if len(got) != 1 || got[0] != ref {
		t.Errorf("Expand() = %v, want [%v]", got, ref)
	}
	if len(lister.calls) != 0 {
		t.Errorf("lister called %d times for a playable reference, want 0", len(lister.calls))
	}
}
