package audio

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sv4u/oggdl/download/media"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fetch.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func trackRef(id string) media.Reference {
	return media.Reference{Kind: media.KindTrack, ID: id}
}

func TestNewProviderRejectsEmptyCommand(t *testing.T) {
	if _, err := NewProvider(&Config{}); err == nil {
		t.Fatal("NewProvider() error = nil, want error for empty command")
	}
}

func TestOpenAudioExpandsPlaceholders(t *testing.T) {
	script := writeScript(t, `printf '%s %s' "$1" "$2"`)
	p, err := NewProvider(&Config{FetchCommand: []string{script, "{uri}", "{id}"}})
	if err != nil {
		t.Fatal(err)
	}

	stream, err := p.OpenAudio(context.Background(), trackRef("abc123"))
	if err != nil {
		t.Fatalf("OpenAudio() error = %v", err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if err := stream.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if got := string(data); got != "spotify:track:abc123 abc123" {
		t.Errorf("fetch command args = %q", got)
	}
}

func TestOpenAudioAppendsURIWithoutPlaceholder(t *testing.T) {
	script := writeScript(t, `printf '%s' "$1"`)
	p, err := NewProvider(&Config{FetchCommand: []string{script}})
	if err != nil {
		t.Fatal(err)
	}

	stream, err := p.OpenAudio(context.Background(), trackRef("xyz"))
	if err != nil {
		t.Fatalf("OpenAudio() error = %v", err)
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != "spotify:track:xyz" {
		t.Errorf("fetch command arg = %q, want the reference URI", got)
	}
}

func TestOpenAudioStreamsStdout(t *testing.T) {
	script := writeScript(t, `printf 'OggS-audio-payload'`)
	p, err := NewProvider(&Config{FetchCommand: []string{script, "{id}"}})
	if err != nil {
		t.Fatal(err)
	}

	stream, err := p.OpenAudio(context.Background(), trackRef("abc"))
	if err != nil {
		t.Fatalf("OpenAudio() error = %v", err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		t.Fatal(err)
	}
	if err := stream.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if string(data) != "OggS-audio-payload" {
		t.Errorf("stream = %q", data)
	}
}

func TestCloseReportsNonZeroExit(t *testing.T) {
	script := writeScript(t, `printf 'partial'; echo 'no premium account' >&2; exit 2`)
	p, err := NewProvider(&Config{FetchCommand: []string{script, "{id}"}})
	if err != nil {
		t.Fatal(err)
	}

	stream, err := p.OpenAudio(context.Background(), trackRef("abc"))
	if err != nil {
		t.Fatalf("OpenAudio() error = %v", err)
	}
	if _, err := io.ReadAll(stream); err != nil {
		t.Fatal(err)
	}

	closeErr := stream.Close()
	var fetchErr *FetchError
	if !errors.As(closeErr, &fetchErr) {
		t.Fatalf("Close() error = %v, want *FetchError", closeErr)
	}
	if !strings.Contains(fetchErr.Output, "no premium account") {
		t.Errorf("FetchError.Output = %q, want stderr content", fetchErr.Output)
	}
}

func TestOpenAudioMissingProgram(t *testing.T) {
	p, err := NewProvider(&Config{FetchCommand: []string{filepath.Join(t.TempDir(), "missing"), "{id}"}})
	if err != nil {
		t.Fatal(err)
	}

	_, err = p.OpenAudio(context.Background(), trackRef("abc"))
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("OpenAudio() error = %v, want *FetchError", err)
	}
}

func TestCloseKillsLingeringCommand(t *testing.T) {
	origGrace := closeGrace
	closeGrace = 50 * time.Millisecond
	defer func() { closeGrace = origGrace }()

	script := writeScript(t, `exec sleep 30`)
	p, err := NewProvider(&Config{FetchCommand: []string{script, "{id}"}})
	if err != nil {
		t.Fatal(err)
	}

	stream, err := p.OpenAudio(context.Background(), trackRef("abc"))
	if err != nil {
		t.Fatalf("OpenAudio() error = %v", err)
	}

	start := time.Now()
	if err := stream.Close(); err != nil {
		t.Errorf("Close() error = %v, want nil for a killed command", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Close() took %v, command was not killed", elapsed)
	}
}
