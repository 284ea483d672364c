package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sv4u/spotigo"

	"github.com/sv4u/oggdl/download/media"
)

func TestPlaylistTrackID(t *testing.T) {
	tests := []struct {
		name   string
		item   spotigo.PlaylistTrack
		wantID string
		wantOK bool
	}{
		{
			name:   "full track pointer",
			item:   spotigo.PlaylistTrack{Track: &spotigo.Track{ID: "t1"}},
			wantID: "t1",
			wantOK: true,
		},
		{
			name:   "full track value",
			item:   spotigo.PlaylistTrack{Track: spotigo.Track{ID: "t2"}},
			wantID: "t2",
			wantOK: true,
		},
		{
			name:   "simplified track pointer",
			item:   spotigo.PlaylistTrack{Track: &spotigo.SimplifiedTrack{ID: "t3"}},
			wantID: "t3",
			wantOK: true,
		},
		{
			name:   "local file",
			item:   spotigo.PlaylistTrack{Track: &spotigo.Track{ID: "t4", IsLocal: true}},
			wantOK: false,
		},
		{
			name:   "nil track slot",
			item:   spotigo.PlaylistTrack{Track: (*spotigo.Track)(nil)},
			wantOK: false,
		},
		{
			name:   "empty ID",
			item:   spotigo.PlaylistTrack{Track: &spotigo.Track{}},
			wantOK: false,
		},
		{
			name:   "unknown payload",
			item:   spotigo.PlaylistTrack{Track: map[string]interface{}{"id": "t5"}},
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := playlistTrackID(tt.item)
			if ok != tt.wantOK || id != tt.wantID {
				t.Errorf("playlistTrackID() = (%q, %v), want (%q, %v)", id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestFetchMetadataRejectsCollections(t *testing.T) {
	c := &Client{}
	for _, kind := range []media.Kind{media.KindPlaylist, media.KindAlbum, media.KindShow} {
		ref := media.Reference{Kind: kind, ID: "x"}
		if _, err := c.FetchMetadata(context.Background(), ref); err == nil {
			t.Errorf("FetchMetadata(%s) error = nil, want error", kind)
		}
	}
}

func TestListMembersRejectsPlayables(t *testing.T) {
	c := &Client{}
	for _, kind := range []media.Kind{media.KindTrack, media.KindEpisode} {
		ref := media.Reference{Kind: kind, ID: "x"}
		if _, err := c.ListMembers(context.Background(), ref); err == nil {
			t.Errorf("ListMembers(%s) error = nil, want error", kind)
		}
	}
}

func TestEpisodeMetadata(t *testing.T) {
	var tokenCalls int
	tokenSrv := newTestTokenServer(t, &tokenCalls)
	defer tokenSrv.Close()

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"ep1","name":"Pilot","show":{"name":"Some Show","publisher":"Some Network"}}`)
	}))
	defer apiSrv.Close()

	c := &Client{web: newTestWebAPI(t, apiSrv.URL, tokenSrv.URL)}
	meta, err := c.FetchMetadata(context.Background(), media.Reference{Kind: media.KindEpisode, ID: "ep1"})
	if err != nil {
		t.Fatalf("FetchMetadata() error = %v", err)
	}
	if meta.Title != "Pilot" || meta.Album != "Some Show" {
		t.Errorf("metadata = %+v", meta)
	}
	if len(meta.Artists) != 1 || meta.Artists[0] != "Some Network" {
		t.Errorf("Artists = %v, want [Some Network]", meta.Artists)
	}
}

func TestEpisodeMetadataFallsBackToShowName(t *testing.T) {
	var tokenCalls int
	tokenSrv := newTestTokenServer(t, &tokenCalls)
	defer tokenSrv.Close()

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"ep1","name":"Pilot","show":{"name":"Some Show","publisher":""}}`)
	}))
	defer apiSrv.Close()

	c := &Client{web: newTestWebAPI(t, apiSrv.URL, tokenSrv.URL)}
	meta, err := c.FetchMetadata(context.Background(), media.Reference{Kind: media.KindEpisode, ID: "ep1"})
	if err != nil {
		t.Fatalf("FetchMetadata() error = %v", err)
	}
	if meta.Artists[0] != "Some Show" {
		t.Errorf("Artists = %v, want the show name fallback", meta.Artists)
	}
}

func TestShowMembersInPublicationOrder(t *testing.T) {
	var tokenCalls int
	tokenSrv := newTestTokenServer(t, &tokenCalls)
	defer tokenSrv.Close()

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items":[{"id":"ep3"},{"id":"ep2"},{"id":"ep1"}],"next":null}`)
	}))
	defer apiSrv.Close()

	c := &Client{web: newTestWebAPI(t, apiSrv.URL, tokenSrv.URL)}
	members, err := c.ListMembers(context.Background(), media.Reference{Kind: media.KindShow, ID: "sh1"})
	if err != nil {
		t.Fatalf("ListMembers() error = %v", err)
	}

	var got []string
	for _, m := range members {
		if m.Kind != media.KindEpisode {
			t.Errorf("member kind = %s, want episode", m.Kind)
		}
		got = append(got, m.ID)
	}
	want := []string{"ep1", "ep2", "ep3"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("members = %v, want %v", got, want)
	}
}
