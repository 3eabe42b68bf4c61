package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds node IDs so derived link IDs stay printable in logs and URLs.
const maxIDLength = 256

// LinkSeparator joins two node IDs into a link ID. Node IDs may not contain
// it, so every link ID splits back into exactly one (source, target) pair.
const LinkSeparator = "-"

// ValidateNodeID validates a node identifier before it enters a graph.
//
// The rules are intentionally conservative:
//   - No empty IDs
//   - No control characters or null bytes
//   - No slashes, since link IDs appear as URL path segments
//   - No [LinkSeparator]
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidNodeID, "node ID cannot be empty")
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidNodeID, "node ID too long (max %d characters)", maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNodeID, "node ID contains invalid control characters")
		}
	}

	if strings.ContainsAny(id, "/\\") {
		return New(ErrCodeInvalidNodeID, "node ID %q contains a path separator", id)
	}

	if strings.Contains(id, LinkSeparator) {
		return New(ErrCodeInvalidNodeID, "node ID %q contains the link separator %q", id, LinkSeparator)
	}

	return nil
}
