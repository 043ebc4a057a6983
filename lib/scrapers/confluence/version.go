package confluence

import (
	"context"
	"strings"
)

const versionMarker = `ajs-version-number" content=`

// RemoteVersion probes the public forgot-password page for the version
// meta marker. No authentication is needed, or wanted: this doubles as
// the reachability check.
func RemoteVersion(ctx context.Context, baseURL string) (string, bool) {
	ctx, span := tracer.Start(ctx, "RemoteVersion")
	defer span.End()

	page, ok := FetchPublic(ctx, strings.TrimSuffix(baseURL, "/"), "/forgotuserpassword.action")
	if !ok {
		return "", false
	}
	return extractVersion(string(page))
}

func extractVersion(page string) (string, bool) {
	i := strings.Index(page, versionMarker)
	if i < 0 {
		return "", false
	}
	// skip the marker and its opening quote
	rest := page[i+len(versionMarker):]
	if len(rest) < 2 {
		return "", false
	}
	rest = rest[1:]
	end := strings.IndexByte(rest, '"')
	if end <= 0 {
		return "", false
	}
	return rest[:end], true
}

// CheckAccess fails with a ConnectionError when the remote version cannot
// be discovered.
func CheckAccess(ctx context.Context, baseURL string) error {
	if _, ok := RemoteVersion(ctx, baseURL); !ok {
		return &ConnectionError{URL: baseURL}
	}
	return nil
}
