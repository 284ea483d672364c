package sink

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Filename sanitizes a filename derived from titles and artist names by
// replacing characters that are invalid on common filesystems with
// underscores. Directory traversal sequences and leading/trailing dots and
// spaces are stripped as well. Overlong names are capped at 255 bytes with
// the extension kept intact.
func Filename(name string) string {
	if name == "" {
		return "_"
	}

	invalidChars := []rune{'/', '\\', ':', '*', '?', '"', '<', '>', '|'}
	result := []rune(name)
	for i, r := range result {
		for _, invalid := range invalidChars {
			if r == invalid {
				result[i] = '_'
				break
			}
		}
	}

	sanitized := strings.ReplaceAll(string(result), "..", "_")
	sanitized = strings.Trim(sanitized, ". ")
	if sanitized == "" {
		return "_"
	}
	return truncate(sanitized)
}

// truncate caps name at 255 bytes. The extension survives whole and the
// stem is cut on a rune boundary so the result stays valid UTF-8.
func truncate(name string) string {
	const maxLen = 255
	if len(name) <= maxLen {
		return name
	}

	ext := filepath.Ext(name)
	if len(ext) >= maxLen {
		ext = ""
	}
	stem := strings.TrimSuffix(name, ext)

	budget := maxLen - len(ext)
	for len(stem) > budget {
		_, size := utf8.DecodeLastRuneInString(stem)
		stem = stem[:len(stem)-size]
	}

	if stem+ext == "" {
		return "_"
	}
	return stem + ext
}
