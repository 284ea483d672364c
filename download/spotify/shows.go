package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultAccountsURL = "https://accounts.spotify.com/api/token"
	defaultAPIBaseURL  = "https://api.spotify.com/v1"

	showEpisodesPageLimit = 50
)

// tokenSource performs the client-credentials exchange with the
// accounts service and caches the bearer token until shortly before
// expiry. spotigo manages its own token internally and does not expose
// it, so the show/episode endpoints need their own.
type tokenSource struct {
	clientID     string
	clientSecret string
	tokenURL     string
	httpClient   *http.Client

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// Token returns a valid bearer token, refreshing it when needed.
func (ts *tokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.token != "" && time.Now().Before(ts.expiresAt) {
		return ts.token, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &AuthError{Original: err}
	}
	req.SetBasicAuth(ts.clientID, ts.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.httpClient.Do(req)
	if err != nil {
		return "", &AuthError{Original: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &AuthError{
			Status:   resp.StatusCode,
			Original: fmt.Errorf("token endpoint: %s", strings.TrimSpace(string(body))),
		}
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", &AuthError{Original: fmt.Errorf("decoding token response: %w", err)}
	}
	if payload.AccessToken == "" {
		return "", &AuthError{Original: fmt.Errorf("token endpoint returned no access token")}
	}

	ts.token = payload.AccessToken
	// Refresh half a minute early so in-flight requests never carry a
	// token that expires mid-call.
	ts.expiresAt = time.Now().Add(time.Duration(payload.ExpiresIn)*time.Second - 30*time.Second)
	return ts.token, nil
}

// webAPI issues direct Web API requests for the endpoints spotigo does
// not cover.
type webAPI struct {
	baseURL    string
	httpClient *http.Client
	tokens     *tokenSource
	limiter    *RateLimiter
}

func newWebAPI(clientID, clientSecret string, limiter *RateLimiter) *webAPI {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	return &webAPI{
		baseURL:    defaultAPIBaseURL,
		httpClient: httpClient,
		tokens: &tokenSource{
			clientID:     clientID,
			clientSecret: clientSecret,
			tokenURL:     defaultAccountsURL,
			httpClient:   httpClient,
		},
		limiter: limiter,
	}
}

// Episode is the subset of the Web API episode object the pipeline
// needs.
type Episode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Show struct {
		Name      string `json:"name"`
		Publisher string `json:"publisher"`
	} `json:"show"`
}

type episodeItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type episodePage struct {
	Items []*episodeItem `json:"items"`
	Next  *string        `json:"next"`
}

// getJSON performs an authenticated GET and decodes the response body.
func (w *webAPI) getJSON(ctx context.Context, requestURL string, out interface{}) error {
	if w.limiter != nil {
		if err := w.limiter.WaitIfNeeded(ctx); err != nil {
			return err
		}
	}

	token, err := w.tokens.Token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return &APIError{Message: "building request", Original: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return &APIError{Message: "request failed", Original: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := 1
		if v := resp.Header.Get("Retry-After"); v != "" {
			fmt.Sscanf(v, "%d", &retryAfter)
		}
		return &RateLimitError{
			RetryAfter: retryAfter,
			Original:   fmt.Errorf("GET %s: status 429", requestURL),
		}
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{
			Message:  fmt.Sprintf("status %d", resp.StatusCode),
			Original: fmt.Errorf("GET %s: %s", requestURL, strings.TrimSpace(string(body))),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Message: "decoding response", Original: err}
	}
	return nil
}

// GetEpisode retrieves a single episode.
func (w *webAPI) GetEpisode(ctx context.Context, episodeID string) (*Episode, error) {
	var episode Episode
	requestURL := fmt.Sprintf("%s/episodes/%s", w.baseURL, episodeID)
	if err := w.getJSON(ctx, requestURL, &episode); err != nil {
		return nil, err
	}
	return &episode, nil
}

// GetShowEpisodes retrieves all episode IDs of a show in the API's
// order, which is newest first. The Items array can carry nulls for
// episodes unavailable in the client's market; those are skipped.
func (w *webAPI) GetShowEpisodes(ctx context.Context, showID string) ([]string, error) {
	requestURL := fmt.Sprintf("%s/shows/%s/episodes?limit=%d", w.baseURL, showID, showEpisodesPageLimit)

	var ids []string
	for requestURL != "" {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var page episodePage
		if err := w.getJSON(ctx, requestURL, &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			if item == nil || item.ID == "" {
				continue
			}
			ids = append(ids, item.ID)
		}

		if page.Next == nil {
			break
		}
		requestURL = *page.Next
	}
	return ids, nil
}
