package audio

import "fmt"

// FetchError represents a failure of the external audio fetch command.
type FetchError struct {
	Message  string
	Output   string
	Original error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("audio fetch error: %s", e.Message)
	if e.Original != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Original)
	}
	if e.Output != "" {
		msg = fmt.Sprintf("%s (output: %s)", msg, e.Output)
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Original
}
