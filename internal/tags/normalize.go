// Package tags shortens raw release tags for a display that can render at
// most 30 characters per version string.
package tags

import "strings"

// MaxLen is the longest version string the target display can render.
const MaxLen = 30

// hashLen is the minimum length of a trailing dash-segment for it to be
// treated as an embedded commit hash.
const hashLen = 20

// shortHashLen is how much of an embedded commit hash survives.
const shortHashLen = 7

// Normalize turns a raw release tag into a display version of at most
// MaxLen characters.
//
// All consecutive leading 'v' characters are stripped, not just the
// first: the strip is a leading-character-class removal, so "vv1.0"
// becomes "1.0". Strings within the length bound then pass through
// unchanged, which makes Normalize idempotent.
//
// Overlong tags that embed a long trailing dash-segment (upstream
// schemes like "weekly-canary-release-<40-char-hash>") are rebuilt as
// "{second-to-last-segment}-{first 7 of last segment}" so a recognizable
// short hash survives; if the rebuilt form still exceeds the bound it is
// truncated to MaxLen. Everything else is truncated to MaxLen directly.
func Normalize(raw string) string {
	tag := strings.TrimLeft(raw, "v")
	if len(tag) <= MaxLen {
		return tag
	}

	if strings.Contains(tag, "-") {
		parts := strings.Split(tag, "-")
		if len(parts) >= 2 && len(parts[len(parts)-1]) > hashLen {
			short := parts[len(parts)-2] + "-" + parts[len(parts)-1][:shortHashLen]
			if len(short) > MaxLen {
				short = short[:MaxLen]
			}
			return short
		}
	}
	return tag[:MaxLen]
}
