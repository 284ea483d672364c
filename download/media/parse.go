package media

import "regexp"

// linkRe matches both link forms Spotify hands out:
// URL form  open.spotify.com/<kind>/<id>
// URI form  spotify:<kind>:<id>
// The kind tokens are matched case-sensitively. Surrounding free-form text
// is tolerated; only the first (kind, id) pair on the line is extracted.
var linkRe = regexp.MustCompile(`(playlist|track|album|episode|show)[/:]([a-zA-Z0-9]+)`)

// ParseLink extracts a typed media reference from a line of input.
// Lines without a recognizable link return ok=false; that is not an error
// condition, the line is simply not input for us.
func ParseLink(line string) (Reference, bool) {
	m := linkRe.FindStringSubmatch(line)
	if m == nil {
		return Reference{}, false
	}
	return Reference{Kind: Kind(m[1]), ID: m[2]}, true
}
