package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func listingPage(entries []spacePayload, hasNext bool) string {
	links := map[string]string{}
	if hasNext {
		links["next"] = "/rest/api/space?type=global&limit=100&start=100"
	}
	page, err := json.Marshal(map[string]any{
		"results": entries,
		"_links":  links,
	})
	if err != nil {
		panic(err)
	}
	return string(page)
}

func serveListing(t *testing.T, remote *fakeRemote, pages map[string]string) {
	remote.handle("/rest/api/space", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "global", r.URL.Query().Get("type"))
		require.Equal(t, "100", r.URL.Query().Get("limit"))

		page, ok := pages[r.URL.Query().Get("start")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(page))
	})
}

func countListingFetches(remote *fakeRemote) int {
	count := 0
	for _, p := range remote.paths() {
		if p == "/rest/api/space" {
			count++
		}
	}
	return count
}

func TestSearchSpaces(t *testing.T) {
	ctx := context.Background()

	t.Run("caps at ten in remote order", func(t *testing.T) {
		var entries []spacePayload
		for i := 0; i < 100; i++ {
			entries = append(entries, spacePayload{
				Key:  fmt.Sprintf("SPACE%02d", i),
				Name: fmt.Sprintf("Space Number %02d", i),
			})
		}

		remote := newFakeRemote(t)
		serveListing(t, remote, map[string]string{
			"0": listingPage(entries, true),
		})

		result, err := SearchSpaces(ctx, remote.options(), "space")
		require.NoError(t, err)
		require.Len(t, result, 10)
		for i, space := range result {
			require.Equal(t, fmt.Sprintf("SPACE%02d", i), space.ID)
			require.Nil(t, space.Activity)
		}
		// the first page already fills the cap
		require.Equal(t, 1, countListingFetches(remote))
	})

	t.Run("follows next links while below the cap", func(t *testing.T) {
		remote := newFakeRemote(t)
		serveListing(t, remote, map[string]string{
			"0": listingPage([]spacePayload{
				{Key: "DEV", Name: "Development"},
				{Key: "OPS", Name: "Operations"},
				{Key: "HR", Name: "People"},
			}, true),
			"100": listingPage([]spacePayload{
				{Key: "DEVOPS", Name: "Development Operations"},
			}, false),
		})

		result, err := SearchSpaces(ctx, remote.options(), "dev")
		require.NoError(t, err)
		require.Equal(t, []Space{
			{ID: "DEV", Name: "Development"},
			{ID: "DEVOPS", Name: "Development Operations"},
		}, result)
		require.Equal(t, 2, countListingFetches(remote))
	})

	t.Run("stops when links lack next", func(t *testing.T) {
		remote := newFakeRemote(t)
		serveListing(t, remote, map[string]string{
			"0": listingPage([]spacePayload{{Key: "DEV", Name: "Development"}}, false),
		})

		result, err := SearchSpaces(ctx, remote.options(), "dev")
		require.NoError(t, err)
		require.Len(t, result, 1)
		require.Equal(t, 1, countListingFetches(remote))
	})

	t.Run("matches key and name through normalization", func(t *testing.T) {
		remote := newFakeRemote(t)
		serveListing(t, remote, map[string]string{
			"0": listingPage([]spacePayload{
				{Key: "NET", Name: "Équipe Réseau"},
				{Key: "TEAMDEV", Name: "unrelated"},
				{Key: "MISC", Name: "Miscellaneous"},
			}, false),
		})

		byName, err := SearchSpaces(ctx, remote.options(), "equipe")
		require.NoError(t, err)
		require.Len(t, byName, 1)

		byKey, err := SearchSpaces(ctx, remote.options(), "TeamDev")
		require.NoError(t, err)
		require.Len(t, byKey, 1)

		none, err := SearchSpaces(ctx, remote.options(), "absent")
		require.NoError(t, err)
		require.Empty(t, none)
	})

	t.Run("malformed listing degrades to no matches", func(t *testing.T) {
		remote := newFakeRemote(t)
		remote.handle("/rest/api/space", serveString(http.StatusOK, "<html>not json</html>"))

		result, err := SearchSpaces(ctx, remote.options(), "dev")
		require.NoError(t, err)
		require.Empty(t, result)
	})

	t.Run("missing listing degrades to no matches", func(t *testing.T) {
		remote := newFakeRemote(t)

		result, err := SearchSpaces(ctx, remote.options(), "dev")
		require.NoError(t, err)
		require.Empty(t, result)
	})

	t.Run("rejected login propagates", func(t *testing.T) {
		remote := newFakeRemote(t)
		serveListing(t, remote, map[string]string{
			"0": listingPage([]spacePayload{{Key: "DEV", Name: "Development"}}, false),
		})
		remote.loginOK = false

		result, err := SearchSpaces(ctx, remote.options(), "dev")
		var authErr *AuthenticationError
		require.ErrorAs(t, err, &authErr)
		require.Empty(t, result)
		// bad credentials abort before the listing is ever fetched
		require.Equal(t, 0, countListingFetches(remote))
	})
}
