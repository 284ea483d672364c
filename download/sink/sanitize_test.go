package sink

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Artist - Title.ogg", "Artist - Title.ogg"},
		{"slashes", "AC/DC - Back In Black.ogg", "AC_DC - Back In Black.ogg"},
		{"windows reserved", `a:b*c?d"e<f>g|h`, "a_b_c_d_e_f_g_h"},
		{"traversal", "../../etc/passwd", "____etc_passwd"},
		{"trailing dots and spaces", " name. ", "name"},
		{"empty", "", "_"},
		{"only invalid", "...", "_"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Filename(tt.in); got != tt.want {
				t.Errorf("Filename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFilenameTruncationKeepsExtension(t *testing.T) {
	got := Filename(strings.Repeat("a", 300) + ".ogg")
	if len(got) > 255 {
		t.Errorf("len(Filename()) = %d, want <= 255", len(got))
	}
	if !strings.HasSuffix(got, ".ogg") {
		t.Errorf("Filename() = %q, want .ogg suffix", got)
	}
	if want := strings.Repeat("a", 251) + ".ogg"; got != want {
		t.Errorf("Filename() = %q, want %q", got, want)
	}
}

func TestFilenameTruncationRuneBoundary(t *testing.T) {
	// Each rune is 3 bytes; a naive byte cap would split one in half.
	got := Filename(strings.Repeat("あ", 100) + ".ogg")
	if len(got) > 255 {
		t.Errorf("len(Filename()) = %d, want <= 255", len(got))
	}
	if !utf8.ValidString(got) {
		t.Errorf("Filename() = %q, not valid UTF-8", got)
	}
	if !strings.HasSuffix(got, ".ogg") {
		t.Errorf("Filename() = %q, want .ogg suffix", got)
	}
}
