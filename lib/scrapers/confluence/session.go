package confluence

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"kmconnect-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/confluence")

// AcceptFunc decides whether a response counts as success, beyond plain
// status checking.
type AcceptFunc func(res *resty.Response) bool

func acceptSuccess(res *resty.Response) bool { return res.IsSuccess() }

// acceptAny tolerates every status so an absent saved body becomes the
// signal instead of a batch failure.
func acceptAny(*resty.Response) bool { return true }

// Request is one entry of an ordered batch submitted to a Session. After
// processing it holds the response status and, when Save is set and the
// remote answered 2xx, the body.
type Request struct {
	Method string
	Path   string
	Body   string
	Header map[string]string
	// nil means the default predicate: HTTP status in the success range
	Accept AcceptFunc
	Save   bool

	status int
	body   []byte
	saved  bool
}

// Response returns the saved body. The second value is false when the
// remote returned a non-success status or the request was never processed.
func (r *Request) Response() ([]byte, bool) {
	return r.body, r.saved
}

func (r *Request) StatusCode() int { return r.status }

// Session is a single-use transport bound to one remote base URL. It is
// created unauthenticated; Login upgrades it. Not safe for concurrent
// use; each public operation owns exactly one.
type Session struct {
	baseURL string
	http    *resty.Client
	closed  bool
}

func NewSession(baseURL string) (*Session, error) {
	baseURL = strings.TrimSuffix(baseURL, "/")

	client := resty.New()
	client.SetBaseURL(baseURL)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetTimeout(time.Second * 30)

	// redirects are never followed: the login acceptance inspects the 3xx
	// itself
	client.GetClient().CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	telemetry.InstrumentResty(client, "scrapers/confluence/http")

	return &Session{baseURL: baseURL, http: client}, nil
}

func (s *Session) BaseURL() string { return s.baseURL }

// Close releases the underlying connection state. Closing twice is safe.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.http.GetClient().CloseIdleConnections()
}

// Process executes the requests in order and stops at the first one whose
// acceptance predicate rejects its response. Transport failures propagate
// unwrapped. Every outgoing request carries the anti-CSRF header the
// remote expects on form submissions, regardless of caller headers.
func (s *Session) Process(ctx context.Context, requests ...*Request) error {
	for _, r := range requests {
		req := s.http.R().SetContext(ctx)
		for k, v := range r.Header {
			req.SetHeader(k, v)
		}
		req.SetHeader("X-Atlassian-Token", "nocheck")
		if r.Body != "" {
			req.SetBody(r.Body)
		}

		res, err := req.Execute(r.Method, r.Path)
		if err != nil {
			return err
		}
		r.status = res.StatusCode()
		if r.Save && res.IsSuccess() {
			r.body = res.Body()
			r.saved = true
		}

		accept := r.Accept
		if accept == nil {
			accept = acceptSuccess
		}
		if !accept(res) {
			return &rejectedError{method: r.Method, path: r.Path, status: r.status}
		}
	}
	return nil
}

// Fetch issues a single GET and returns the body only when the remote
// answered in the success range; any other outcome is "absent", never an
// error. Callers decide whether absence is fatal.
func (s *Session) Fetch(ctx context.Context, path string) ([]byte, bool) {
	req := &Request{Method: http.MethodGet, Path: path, Save: true, Accept: acceptAny}
	err := s.Process(ctx, req)
	if err != nil {
		slog.DebugContext(ctx, "fetch failed", "path", path, "err", err)
		return nil, false
	}
	return req.Response()
}

// FetchPublic fetches a resource that needs no authentication through a
// throwaway session. Used for remote version discovery only.
func FetchPublic(ctx context.Context, baseURL, path string) ([]byte, bool) {
	session, err := NewSession(baseURL)
	if err != nil {
		return nil, false
	}
	defer session.Close()
	return session.Fetch(ctx, path)
}

// a failed login re-renders or redirects back to the login page; a
// successful one redirects anywhere else
func acceptLoginRedirect(res *resty.Response) bool {
	if res.StatusCode() < 300 || res.StatusCode() > 399 {
		return false
	}
	location := res.Header().Get("Location")
	return location != "" && !strings.HasSuffix(location, "dologin.action")
}

// Login primes the session then submits the credential form. The
// credentials are embedded verbatim: the remote form does not expect
// URL-escaped values. A blank password is sent as empty.
func (s *Session) Login(ctx context.Context, user, password string) error {
	ctx, span := tracer.Start(ctx, "session:Login")
	defer span.End()

	password = strings.TrimSpace(password)
	form := "os_username=" + user + "&os_password=" + password +
		"&os_destination=&atl_token=&login=Connexion"

	err := s.Process(ctx,
		&Request{Method: http.MethodGet, Path: "/dologin.action"},
		&Request{
			Method: http.MethodPost,
			Path:   "/dologin.action",
			Body:   form,
			Header: map[string]string{
				"Accept":       "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
				"Content-Type": "application/x-www-form-urlencoded",
			},
			Accept: acceptLoginRedirect,
		},
	)
	var rejected *rejectedError
	if errors.As(err, &rejected) {
		slog.DebugContext(ctx, "login rejected", "user", user, "status", rejected.status)
		return &AuthenticationError{User: user}
	}
	return err
}

// CheckAdminAccess verifies the logged-in user can reach the plugin
// administration servlet.
func (s *Session) CheckAdminAccess(ctx context.Context, user string) error {
	err := s.Process(ctx, &Request{Method: http.MethodGet, Path: "/plugins/servlet/upm"})
	var rejected *rejectedError
	if errors.As(err, &rejected) {
		return &AdminAccessError{User: user}
	}
	return err
}
