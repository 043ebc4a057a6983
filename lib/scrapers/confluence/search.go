package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"kmconnect-backend/lib/textutil"
)

const (
	searchPageSize  = 100
	searchResultCap = 10
)

type listPayload struct {
	Results []spacePayload             `json:"results"`
	Links   map[string]json.RawMessage `json:"_links"`
}

// SearchSpaces returns up to 10 spaces whose normalized name or key
// contains the normalized criteria. Results keep the remote listing
// order; the remote documents name ordering but does not deliver it, and
// re-sorting here would hide that. A failing or malformed listing page
// degrades to "no matches", but a rejected login propagates: bad
// credentials must not look like an empty catalog.
func SearchSpaces(ctx context.Context, opts Options, criteria string) ([]Space, error) {
	ctx, span := tracer.Start(ctx, "SearchSpaces")
	defer span.End()

	var result []Space
	start := 0
	for {
		page, err := fetchSpacePage(ctx, opts, start)
		if err != nil {
			return nil, err
		}
		for _, entry := range page.Results {
			if textutil.ContainsNormalized(entry.Name, criteria) ||
				textutil.ContainsNormalized(entry.Key, criteria) {
				result = append(result, Space{ID: entry.Key, Name: entry.Name})
			}
		}

		_, hasNext := page.Links["next"]
		if !hasNext || len(result) >= searchResultCap {
			break
		}
		start += searchPageSize
	}

	if len(result) > searchResultCap {
		result = result[:searchResultCap]
	}
	return result, nil
}

// fetchSpacePage fetches one page of the global space listing through a
// fresh short-lived session. Session setup and login failures are
// returned; a failing or malformed listing substitutes the empty shape.
func fetchSpacePage(ctx context.Context, opts Options, start int) (listPayload, error) {
	var empty listPayload

	session, err := NewSession(opts.baseURL())
	if err != nil {
		return empty, err
	}
	defer session.Close()

	if err := session.Login(ctx, opts.Username, opts.Password); err != nil {
		return empty, err
	}

	body, ok := session.Fetch(ctx, fmt.Sprintf(
		"/rest/api/space?type=global&limit=%d&start=%d", searchPageSize, start,
	))
	if !ok {
		return empty, nil
	}

	var page listPayload
	if err := json.Unmarshal(body, &page); err != nil {
		slog.DebugContext(ctx, "malformed space listing", "start", start, "err", err)
		return empty, nil
	}
	return page, nil
}
