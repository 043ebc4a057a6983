package confluence

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	_ "embed"

	"github.com/stretchr/testify/require"
)

//go:embed testdata/changes.html
var changesFixture string

//go:embed testdata/changes-default-avatar.html
var changesDefaultAvatarFixture string

//go:embed testdata/changes-empty.html
var changesEmptyFixture string

//go:embed testdata/forgotuserpassword.html
var forgotPasswordFixture string

var avatarBytes = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x01, 0x02, 0x03}

// fakeRemote fakes the wiki service: the login form plus whatever
// handlers a test registers on top.
type fakeRemote struct {
	t       *testing.T
	mux     *http.ServeMux
	server  *httptest.Server
	loginOK bool

	mu       sync.Mutex
	seenPath []string
}

func newFakeRemote(t *testing.T) *fakeRemote {
	f := &fakeRemote{t: t, mux: http.NewServeMux(), loginOK: true}

	f.mux.HandleFunc("/dologin.action", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusOK)
			return
		}

		require.Equal(t, "nocheck", r.Header.Get("X-Atlassian-Token"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.Contains(t, string(body), "os_username=")
		require.Contains(t, string(body), "&login=Connexion")

		if f.loginOK {
			w.Header().Set("Location", "/")
		} else {
			w.Header().Set("Location", "/dologin.action")
		}
		w.WriteHeader(http.StatusFound)
	})

	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.seenPath = append(f.seenPath, r.URL.Path)
		f.mu.Unlock()
		f.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeRemote) handle(pattern string, handler http.HandlerFunc) {
	f.mux.HandleFunc(pattern, handler)
}

func (f *fakeRemote) paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.seenPath...)
}

func (f *fakeRemote) options() Options {
	return Options{
		BaseURL:  f.server.URL,
		Space:    "SPACE",
		Username: "u",
		Password: "p",
	}
}

func serveString(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

type staticResolver map[string]User

func (r staticResolver) Resolve(_ context.Context, login string) (User, bool) {
	user, ok := r[login]
	return user, ok
}
