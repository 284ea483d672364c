package media

import "fmt"

// Kind identifies what a Spotify link points at.
type Kind string

const (
	KindTrack    Kind = "track"
	KindEpisode  Kind = "episode"
	KindPlaylist Kind = "playlist"
	KindAlbum    Kind = "album"
	KindShow     Kind = "show"
)

// Playable reports whether references of this kind can be downloaded
// directly, as opposed to collections that expand into playable items.
func (k Kind) Playable() bool {
	return k == KindTrack || k == KindEpisode
}

// Reference is an immutable typed pointer to a track, episode, playlist,
// album, or show. ID is the opaque base62 token from the link.
type Reference struct {
	Kind Kind
	ID   string
}

// URI returns the reference in Spotify URI form, e.g. "spotify:track:abc123".
func (r Reference) URI() string {
	return fmt.Sprintf("spotify:%s:%s", r.Kind, r.ID)
}

func (r Reference) String() string {
	return string(r.Kind) + ":" + r.ID
}

// TrackMetadata is the per-item metadata fetched at download time. It is
// owned by the download driver for the duration of one item and is not
// cached across items. Artists always has at least one entry.
type TrackMetadata struct {
	ID      string
	Title   string
	Album   string
	Artists []string
}
