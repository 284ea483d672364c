package spotify

import "fmt"

// AuthError represents a failed credential exchange with the Spotify
// accounts service. It is fatal for the run.
type AuthError struct {
	Status   int
	Original error
}

func (e *AuthError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("Spotify authentication failed: status %d: %v", e.Status, e.Original)
	}
	return fmt.Sprintf("Spotify authentication failed: %v", e.Original)
}

func (e *AuthError) Unwrap() error {
	return e.Original
}

// RateLimitError represents a rate limit response from the Spotify API.
type RateLimitError struct {
	RetryAfter int // Seconds to wait before retrying
	Original   error
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("Spotify API rate limited: retry after %d seconds: %v", e.RetryAfter, e.Original)
	}
	return fmt.Sprintf("Spotify API rate limited: %v", e.Original)
}

func (e *RateLimitError) Unwrap() error {
	return e.Original
}

// APIError represents a general Spotify API error.
type APIError struct {
	Message  string
	Original error
}

func (e *APIError) Error() string {
	if e.Original != nil {
		return fmt.Sprintf("Spotify API error: %s: %v", e.Message, e.Original)
	}
	return fmt.Sprintf("Spotify API error: %s", e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Original
}
