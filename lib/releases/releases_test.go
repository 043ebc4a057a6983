package releases

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newFeed(t *testing.T, status int, body string) *AtlassianSource {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rest/api/latest/project/CONF/versions", r.URL.Path)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return NewAtlassianSource(server.URL)
}

func TestLatestReleased(t *testing.T) {
	ctx := context.Background()

	t.Run("picks the newest released version", func(t *testing.T) {
		source := newFeed(t, http.StatusOK, `[
			{"name": "8.5.0", "released": true, "releaseDate": "2023-08-15"},
			{"name": "9.0.0", "released": false, "releaseDate": "2024-05-02"},
			{"name": "8.9.4", "released": true, "releaseDate": "2024-01-30"}
		]`)

		version, err := source.LatestReleased(ctx, "CONF")
		require.NoError(t, err)
		require.Equal(t, "8.9.4", version)
	})

	t.Run("no released version", func(t *testing.T) {
		source := newFeed(t, http.StatusOK, `[
			{"name": "9.0.0", "released": false, "releaseDate": "2024-05-02"}
		]`)

		_, err := source.LatestReleased(ctx, "CONF")
		require.Error(t, err)
	})

	t.Run("feed error status", func(t *testing.T) {
		source := newFeed(t, http.StatusServiceUnavailable, "")

		_, err := source.LatestReleased(ctx, "CONF")
		require.ErrorContains(t, err, "503")
	})

	t.Run("malformed feed", func(t *testing.T) {
		source := newFeed(t, http.StatusOK, "<html></html>")

		_, err := source.LatestReleased(ctx, "CONF")
		require.Error(t, err)
	})
}
