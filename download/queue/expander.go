package queue

import (
	"context"
	"log"

	"github.com/sv4u/oggdl/download/media"
)

// MemberLister lists the playable members of a collection reference in the
// collection's canonical order.
type MemberLister interface {
	ListMembers(ctx context.Context, ref media.Reference) ([]media.Reference, error)
}

// Expander turns playlist, album, and show references into their ordered
// track or episode members via a metadata-lookup collaborator.
type Expander struct {
	lister MemberLister
}

// NewExpander creates an expander backed by the given lister.
func NewExpander(lister MemberLister) *Expander {
	return &Expander{lister: lister}
}

// Expand resolves a collection reference to its playable members, preserving
// the order the lister returned. Lookup failure is recoverable: it is logged
// and yields an empty expansion so the rest of the input keeps processing.
func (e *Expander) Expand(ctx context.Context, ref media.Reference) []media.Reference {
	if ref.Kind.Playable() {
		return []media.Reference{ref}
	}

	members, err := e.lister.ListMembers(ctx, ref)
	if err != nil {
		log.Printf("ERROR: expansion_failed kind=%s spotify_id=%s error=%v", ref.Kind, ref.ID, err)
		return nil
	}

	log.Printf("INFO: expansion_complete kind=%s spotify_id=%s members=%d", ref.Kind, ref.ID, len(members))
	return members
}
