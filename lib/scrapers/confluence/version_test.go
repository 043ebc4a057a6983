package confluence

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRemoteVersion(t *testing.T) {
	ctx := context.Background()

	t.Run("version marker present", func(t *testing.T) {
		remote := newFakeRemote(t)
		remote.handle("/forgotuserpassword.action", serveString(http.StatusOK, forgotPasswordFixture))

		version, ok := RemoteVersion(ctx, remote.server.URL)
		require.True(t, ok)
		require.Equal(t, "5.7.5", version)
	})

	t.Run("marker missing", func(t *testing.T) {
		remote := newFakeRemote(t)
		remote.handle("/forgotuserpassword.action", serveString(http.StatusOK, "<html><body>nothing here</body></html>"))

		_, ok := RemoteVersion(ctx, remote.server.URL)
		require.False(t, ok)
	})

	t.Run("page missing", func(t *testing.T) {
		remote := newFakeRemote(t)

		_, ok := RemoteVersion(ctx, remote.server.URL)
		require.False(t, ok)
	})
}

func TestExtractVersion(t *testing.T) {
	testCases := []struct {
		name    string
		page    string
		version string
		ok      bool
	}{
		{
			name:    "quoted value",
			page:    `<meta name="ajs-version-number" content="6.13.0">`,
			version: "6.13.0",
			ok:      true,
		},
		{name: "no marker", page: "<html></html>"},
		{name: "marker at end of page", page: `ajs-version-number" content=`},
		{name: "unterminated value", page: `ajs-version-number" content="6.13`},
		{name: "empty value", page: `ajs-version-number" content=""`},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			version, ok := extractVersion(test.page)
			require.Equal(t, test.ok, ok)
			require.Equal(t, test.version, version)
		})
	}
}

func TestCheckAccess(t *testing.T) {
	ctx := context.Background()

	remote := newFakeRemote(t)
	remote.handle("/forgotuserpassword.action", serveString(http.StatusOK, forgotPasswordFixture))
	require.NoError(t, CheckAccess(ctx, remote.server.URL))

	down := newFakeRemote(t)
	err := CheckAccess(ctx, down.server.URL)
	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	require.Equal(t, down.server.URL, connErr.URL)
}
