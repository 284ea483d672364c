package download

import (
	"context"
	"io"

	"github.com/sv4u/oggdl/download/media"
)

// MetadataFetcher resolves per-item metadata from the streaming service.
type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, ref media.Reference) (*media.TrackMetadata, error)
}

// AudioOpener opens the raw OGG audio stream for a playable reference.
type AudioOpener interface {
	OpenAudio(ctx context.Context, ref media.Reference) (io.ReadCloser, error)
}

type session struct {
	meta  MetadataFetcher
	audio AudioOpener
}

// NewSession composes a metadata fetcher and an audio opener into the
// Session value the driver consumes. The session is acquired once after
// authentication and lives for the whole run.
func NewSession(meta MetadataFetcher, audio AudioOpener) Session {
	return &session{meta: meta, audio: audio}
}

func (s *session) FetchMetadata(ctx context.Context, ref media.Reference) (*media.TrackMetadata, error) {
	return s.meta.FetchMetadata(ctx, ref)
}

func (s *session) OpenAudio(ctx context.Context, ref media.Reference) (io.ReadCloser, error) {
	return s.audio.OpenAudio(ctx, ref)
}
