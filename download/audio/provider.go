// Package audio streams OGG bytes for playable references by running a
// configurable external fetch command and reading its standard output.
package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/sv4u/oggdl/download/media"
)

// closeGrace is how long Close waits for the fetch command to exit on
// its own after its stdout is closed before killing it.
var closeGrace = 5 * time.Second

// Config holds configuration for the audio provider.
type Config struct {
	// FetchCommand is the argv of the external program delivering OGG
	// bytes on stdout. Arguments may contain the {uri} and {id}
	// placeholders; when no argument does, the reference URI is
	// appended as the final argument.
	FetchCommand []string
}

// Provider runs the fetch command once per item.
type Provider struct {
	config *Config
}

// NewProvider creates a new audio provider.
func NewProvider(config *Config) (*Provider, error) {
	if len(config.FetchCommand) == 0 {
		return nil, fmt.Errorf("audio fetch command is empty")
	}
	return &Provider{config: config}, nil
}

// OpenAudio starts the fetch command for ref and returns its stdout as
// a stream. Closing the stream reaps the process; a non-zero exit
// surfaces as a FetchError from Close.
func (p *Provider) OpenAudio(ctx context.Context, ref media.Reference) (io.ReadCloser, error) {
	args := p.buildArgs(ref)

	cmdCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(cmdCtx, args[0], args[1:]...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, &FetchError{Message: "opening stdout pipe", Original: err}
	}

	log.Printf("INFO: fetch_start command=%s uri=%s", args[0], ref.URI())
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, &FetchError{
			Message:  fmt.Sprintf("starting %s", args[0]),
			Original: err,
		}
	}

	return &processStream{
		cmd:    cmd,
		stdout: stdout,
		stderr: &stderr,
		cancel: cancel,
	}, nil
}

// buildArgs expands the {uri} and {id} placeholders in the configured
// command.
func (p *Provider) buildArgs(ref media.Reference) []string {
	args := make([]string, 0, len(p.config.FetchCommand)+1)
	expanded := false
	for _, arg := range p.config.FetchCommand {
		replaced := strings.ReplaceAll(arg, "{uri}", ref.URI())
		replaced = strings.ReplaceAll(replaced, "{id}", ref.ID)
		if replaced != arg {
			expanded = true
		}
		args = append(args, replaced)
	}
	if !expanded {
		args = append(args, ref.URI())
	}
	return args
}

// processStream is the fetch command's stdout plus process lifecycle.
// Close is safe to call once the reader is done with the stream, read
// fully or not.
type processStream struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *bytes.Buffer
	cancel context.CancelFunc

	once     sync.Once
	closeErr error
}

func (s *processStream) Read(p []byte) (int, error) {
	return s.stdout.Read(p)
}

// Close reaps the fetch command. A non-zero exit becomes a FetchError;
// a process killed because it would not exit after losing its stdout
// does not.
func (s *processStream) Close() error {
	s.once.Do(func() {
		s.stdout.Close()

		done := make(chan error, 1)
		go func() { done <- s.cmd.Wait() }()

		var err error
		select {
		case err = <-done:
		case <-time.After(closeGrace):
			s.cancel()
			err = <-done
		}
		s.cancel()

		if err == nil {
			return
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == -1 {
			// Terminated by signal, not a command failure.
			return
		}
		s.closeErr = &FetchError{
			Message:  "fetch command failed",
			Output:   strings.TrimSpace(s.stderr.String()),
			Original: err,
		}
	})
	return s.closeErr
}
