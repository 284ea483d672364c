package spotify

import (
	"context"
	"fmt"
	"log"

	"github.com/sv4u/spotigo"

	"github.com/sv4u/oggdl/download/media"
)

// unknownArtist fills in when the API returns no usable artist names.
const unknownArtist = "Unknown Artist"

// FetchMetadata resolves the naming metadata for a playable reference.
func (c *Client) FetchMetadata(ctx context.Context, ref media.Reference) (*media.TrackMetadata, error) {
	switch ref.Kind {
	case media.KindTrack:
		return c.trackMetadata(ctx, ref.ID)
	case media.KindEpisode:
		return c.episodeMetadata(ctx, ref.ID)
	default:
		return nil, fmt.Errorf("no metadata for %s references", ref.Kind)
	}
}

func (c *Client) trackMetadata(ctx context.Context, trackID string) (*media.TrackMetadata, error) {
	track, err := c.GetTrack(ctx, trackID)
	if err != nil {
		return nil, fmt.Errorf("failed to get track %s: %w", trackID, err)
	}

	artists := make([]string, 0, len(track.Artists))
	for _, artist := range track.Artists {
		if artist.Name != "" {
			artists = append(artists, artist.Name)
		}
	}
	if len(artists) == 0 {
		artists = []string{unknownArtist}
	}

	album := ""
	if track.Album != nil {
		album = track.Album.Name
	}

	return &media.TrackMetadata{
		ID:      trackID,
		Title:   track.Name,
		Album:   album,
		Artists: artists,
	}, nil
}

// episodeMetadata maps an episode onto the track naming scheme: the
// show takes the album slot and the publisher the artist slot.
func (c *Client) episodeMetadata(ctx context.Context, episodeID string) (*media.TrackMetadata, error) {
	episode, err := c.web.GetEpisode(ctx, episodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get episode %s: %w", episodeID, err)
	}

	artist := episode.Show.Publisher
	if artist == "" {
		artist = episode.Show.Name
	}
	if artist == "" {
		artist = unknownArtist
	}

	return &media.TrackMetadata{
		ID:      episodeID,
		Title:   episode.Name,
		Album:   episode.Show.Name,
		Artists: []string{artist},
	}, nil
}

// ListMembers returns the playable members of a collection reference in
// canonical order: playlist and album tracks as stored, show episodes
// oldest first.
func (c *Client) ListMembers(ctx context.Context, ref media.Reference) ([]media.Reference, error) {
	switch ref.Kind {
	case media.KindPlaylist:
		return c.playlistMembers(ctx, ref.ID)
	case media.KindAlbum:
		return c.albumMembers(ctx, ref.ID)
	case media.KindShow:
		return c.showMembers(ctx, ref.ID)
	default:
		return nil, fmt.Errorf("%s references have no members", ref.Kind)
	}
}

func (c *Client) playlistMembers(ctx context.Context, playlistID string) ([]media.Reference, error) {
	tracks, err := c.GetPlaylistTracks(ctx, playlistID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist tracks: %w", err)
	}

	var members []media.Reference
	appendPage := func(items []spotigo.PlaylistTrack) {
		for _, trackItem := range items {
			if id, ok := playlistTrackID(trackItem); ok {
				members = append(members, media.Reference{Kind: media.KindTrack, ID: id})
			}
		}
	}

	appendPage(tracks.Items)
	for tracks.GetNext() != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tracks, err = c.NextPlaylistTracks(ctx, tracks)
		if err != nil {
			return nil, fmt.Errorf("failed to paginate playlist tracks: %w", err)
		}
		if tracks == nil {
			break
		}
		appendPage(tracks.Items)
	}

	log.Printf("INFO: playlist_expanded playlist_id=%s tracks=%d", playlistID, len(members))
	return members, nil
}

// playlistTrackID unpacks the polymorphic track slot of a playlist
// entry. Local files have no Spotify ID and cannot be downloaded.
func playlistTrackID(trackItem spotigo.PlaylistTrack) (string, bool) {
	var trackID string
	var isLocal bool

	switch t := trackItem.Track.(type) {
	case *spotigo.Track:
		if t == nil {
			return "", false
		}
		isLocal = t.IsLocal
		trackID = t.ID
	case spotigo.Track:
		isLocal = t.IsLocal
		trackID = t.ID
	case *spotigo.SimplifiedTrack:
		if t == nil {
			return "", false
		}
		isLocal = t.IsLocal
		trackID = t.ID
	case spotigo.SimplifiedTrack:
		isLocal = t.IsLocal
		trackID = t.ID
	default:
		return "", false
	}

	if isLocal || trackID == "" {
		return "", false
	}
	return trackID, true
}

func (c *Client) albumMembers(ctx context.Context, albumID string) ([]media.Reference, error) {
	album, err := c.GetAlbum(ctx, albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to get album: %w", err)
	}

	var members []media.Reference
	appendPage := func(items []spotigo.SimplifiedTrack) {
		for _, track := range items {
			if track.ID == "" {
				continue
			}
			members = append(members, media.Reference{Kind: media.KindTrack, ID: track.ID})
		}
	}

	tracks := album.Tracks
	if tracks == nil {
		return nil, nil
	}

	appendPage(tracks.Items)
	for tracks.GetNext() != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tracks, err = c.NextAlbumTracks(ctx, tracks)
		if err != nil {
			return nil, fmt.Errorf("failed to paginate album tracks: %w", err)
		}
		if tracks == nil {
			break
		}
		appendPage(tracks.Items)
	}

	log.Printf("INFO: album_expanded album_id=%s tracks=%d", albumID, len(members))
	return members, nil
}

func (c *Client) showMembers(ctx context.Context, showID string) ([]media.Reference, error) {
	ids, err := c.web.GetShowEpisodes(ctx, showID)
	if err != nil {
		return nil, fmt.Errorf("failed to get show episodes: %w", err)
	}

	// The API lists newest first; reverse so the queue downloads in
	// publication order.
	members := make([]media.Reference, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		members = append(members, media.Reference{Kind: media.KindEpisode, ID: ids[i]})
	}

	log.Printf("INFO: show_expanded show_id=%s episodes=%d", showID, len(members))
	return members, nil
}
