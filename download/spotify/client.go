package spotify

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sv4u/spotigo"
)

// Config holds configuration for the Spotify client wrapper.
type Config struct {
	// Spotify API credentials
	ClientID     string
	ClientSecret string

	// Cache configuration
	CacheMaxSize int
	CacheTTL     time.Duration

	// Rate limiting configuration
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   float64
}

// Client wraps spotigo.Client with proactive rate limiting and response
// caching. Show and episode lookups go through a small direct Web API
// layer sharing the same credentials, since spotigo does not expose
// those endpoints.
type Client struct {
	client  *spotigo.Client
	web     *webAPI
	cache   *TTLCache
	limiter *RateLimiter
}

// NewClient creates a new Spotify client wrapper.
func NewClient(config *Config) (*Client, error) {
	auth, err := spotigo.NewClientCredentials(config.ClientID, config.ClientSecret)
	if err != nil {
		return nil, &AuthError{Original: err}
	}

	spotigoClient, err := spotigo.NewClient(auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create spotigo client: %w", err)
	}

	cache := NewTTLCache(config.CacheMaxSize, config.CacheTTL)
	limiter := NewRateLimiter(
		config.RateLimitEnabled,
		config.RateLimitRequests,
		config.RateLimitWindow,
	)

	return &Client{
		client:  spotigoClient,
		web:     newWebAPI(config.ClientID, config.ClientSecret, limiter),
		cache:   cache,
		limiter: limiter,
	}, nil
}

// Authenticate verifies the credentials by performing a token exchange
// with the accounts service. A failure here is fatal for the run.
func (c *Client) Authenticate(ctx context.Context) error {
	if _, err := c.web.tokens.Token(ctx); err != nil {
		return err
	}
	log.Printf("INFO: spotify_authenticated")
	return nil
}

// CacheStats returns response cache statistics for the end-of-run log.
func (c *Client) CacheStats() CacheStats {
	return c.cache.Stats()
}

// handleError classifies spotigo errors, surfacing rate limit responses
// as RateLimitError.
func (c *Client) handleError(err error) error {
	if err == nil {
		return nil
	}

	if c.isRateLimitError(err) {
		retryAfter := c.extractRetryAfter(err)
		log.Printf("WARN: rate_limited retry_after=%d", retryAfter)
		return &RateLimitError{
			RetryAfter: retryAfter,
			Original:   err,
		}
	}

	return &APIError{
		Message:  "request failed",
		Original: err,
	}
}

// isRateLimitError checks if an error is a rate limit error (HTTP 429).
func (c *Client) isRateLimitError(err error) bool {
	if httpErr, ok := err.(interface {
		StatusCode() int
	}); ok {
		return httpErr.StatusCode() == http.StatusTooManyRequests
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests")
}

// extractRetryAfter extracts the Retry-After value from an error,
// defaulting to one second.
func (c *Client) extractRetryAfter(err error) int {
	if httpErr, ok := err.(interface {
		RetryAfter() int
	}); ok {
		if retryAfter := httpErr.RetryAfter(); retryAfter > 0 {
			return retryAfter
		}
	}
	return 1
}

// GetTrack retrieves track metadata (cached).
func (c *Client) GetTrack(ctx context.Context, trackIDOrURL string) (*spotigo.Track, error) {
	trackID, err := spotigo.GetID(trackIDOrURL, "track")
	if err != nil {
		return nil, fmt.Errorf("invalid track ID/URL: %w", err)
	}

	cacheKey := fmt.Sprintf("track:%s", trackID)
	if cached := c.cache.Get(cacheKey); cached != nil {
		if track, ok := cached.(*spotigo.Track); ok {
			return track, nil
		}
	}

	if err := c.limiter.WaitIfNeeded(ctx); err != nil {
		return nil, err
	}

	track, err := c.client.Track(ctx, trackIDOrURL)
	if err != nil {
		return nil, c.handleError(err)
	}

	c.cache.Set(cacheKey, track)
	return track, nil
}

// GetAlbum retrieves album metadata including the first page of its
// tracks (cached).
func (c *Client) GetAlbum(ctx context.Context, albumIDOrURL string) (*spotigo.Album, error) {
	albumID, err := spotigo.GetID(albumIDOrURL, "album")
	if err != nil {
		return nil, fmt.Errorf("invalid album ID/URL: %w", err)
	}

	cacheKey := fmt.Sprintf("album:%s", albumID)
	if cached := c.cache.Get(cacheKey); cached != nil {
		if album, ok := cached.(*spotigo.Album); ok {
			return album, nil
		}
	}

	if err := c.limiter.WaitIfNeeded(ctx); err != nil {
		return nil, err
	}

	album, err := c.client.Album(ctx, albumIDOrURL)
	if err != nil {
		return nil, c.handleError(err)
	}

	c.cache.Set(cacheKey, album)
	return album, nil
}

// GetPlaylistTracks retrieves the first page of a playlist's tracks
// (cached).
func (c *Client) GetPlaylistTracks(ctx context.Context, playlistID string, opts *spotigo.PlaylistTracksOptions) (*spotigo.Paging[spotigo.PlaylistTrack], error) {
	cacheKey := fmt.Sprintf("playlist_tracks:%s", playlistID)
	if cached := c.cache.Get(cacheKey); cached != nil {
		if tracks, ok := cached.(*spotigo.Paging[spotigo.PlaylistTrack]); ok {
			return tracks, nil
		}
	}

	if err := c.limiter.WaitIfNeeded(ctx); err != nil {
		return nil, err
	}

	tracks, err := c.client.PlaylistTracks(ctx, playlistID, opts)
	if err != nil {
		return nil, c.handleError(err)
	}

	c.cache.Set(cacheKey, tracks)
	return tracks, nil
}

// NextAlbumTracks gets the next page of album tracks with rate limiting.
func (c *Client) NextAlbumTracks(ctx context.Context, paging interface{ GetNext() *string }) (*spotigo.Paging[spotigo.SimplifiedTrack], error) {
	if err := c.limiter.WaitIfNeeded(ctx); err != nil {
		return nil, err
	}
	return spotigo.NextGeneric[spotigo.SimplifiedTrack](c.client, ctx, paging)
}

// NextPlaylistTracks gets the next page of playlist tracks with rate
// limiting.
func (c *Client) NextPlaylistTracks(ctx context.Context, paging interface{ GetNext() *string }) (*spotigo.Paging[spotigo.PlaylistTrack], error) {
	if err := c.limiter.WaitIfNeeded(ctx); err != nil {
		return nil, err
	}
	return spotigo.NextGeneric[spotigo.PlaylistTrack](c.client, ctx, paging)
}
