package section

import (
	"strings"
	"unicode"
)

const (
	// Delimiter marks a node as a section marker.
	Delimiter = "---"
	// DefaultTitle replaces an empty title.
	DefaultTitle = "Section"

	plainSuffix  = "---"
	pinnedSuffix = "-*-"
)

var knownSuffixes = []string{plainSuffix, pinnedSuffix}

// IsMarkerName reports whether a display name carries the marker delimiter.
func IsMarkerName(name string) bool {
	return strings.Contains(name, Delimiter)
}

// Canonicalize strips the decoration from a raw display name and returns the
// bare title, or DefaultTitle when nothing is left. The result is a fixed point:
// Canonicalize(Canonicalize(s)) == Canonicalize(s).
func Canonicalize(raw string) string {
	t := strings.TrimSpace(raw)
	for {
		before := t
		for _, s := range knownSuffixes {
			t = strings.TrimSuffix(t, s)
		}
		t = strings.TrimFunc(t, isDecoration)
		if t == before {
			break
		}
	}
	if t == "" {
		return DefaultTitle
	}
	return t
}

func isDecoration(r rune) bool {
	return r == '-' || unicode.IsSpace(r)
}

// Decorate renders the canonical display name for a title.
func Decorate(title string, pinned bool) string {
	suffix := plainSuffix
	if pinned {
		suffix = pinnedSuffix
	}
	return Delimiter + " " + Canonicalize(title) + " " + suffix
}

// IsCanonical reports whether name is exactly the decorated form of its title,
// in either pinned or plain state.
func IsCanonical(name string) bool {
	title := Canonicalize(name)
	return name == Decorate(title, false) || name == Decorate(title, true)
}
