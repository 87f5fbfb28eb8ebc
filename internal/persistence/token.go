// Package persistence contains helpers shared by repository implementations.
package persistence

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// EncodePageToken serialises a continuation offset to an opaque token.
// Offset-based tokens are used instead of keyset cursors because the listing
// ordering key is caller-selectable.
func EncodePageToken(offset int) string {
	if offset <= 0 {
		return ""
	}
	raw := fmt.Sprintf("o|%d", offset)
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// DecodePageToken parses an encoded continuation token. An empty token means
// the first page.
func DecodePageToken(token string) (int, error) {
	if strings.TrimSpace(token) == "" {
		return 0, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return 0, err
	}
	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 || parts[0] != "o" {
		return 0, fmt.Errorf("invalid page token format")
	}
	offset, err := strconv.Atoi(parts[1])
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("invalid page token offset")
	}
	return offset, nil
}
