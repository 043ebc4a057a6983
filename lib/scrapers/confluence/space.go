package confluence

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// User is an identity resolved at best effort. When the login is unknown
// to the identity backend, ID is the remote login, FirstName holds the
// unsplit display name and LastName stays empty: the remote service does
// not reliably separate first and last names.
type User struct {
	ID        string
	FirstName string
	LastName  string
}

// UserResolver is the external identity-resolution collaborator.
type UserResolver interface {
	Resolve(ctx context.Context, login string) (User, bool)
}

// Activity is the most recent edit event on a space, available only
// through the HTML "recently updated" feed. It is either fully populated
// or absent from the Space entirely.
type Activity struct {
	// raw relative time as the remote rendered it, locale-dependent and
	// kept verbatim
	Moment string
	Author User
	// base64 data URL of the author avatar, empty when unavailable
	AuthorAvatar string
	Page         string
	PageURL      string
}

// Space is a named workspace on the remote service. ID is the short key
// (e.g. "SPACE"), distinct from the display name.
type Space struct {
	ID       string
	Name     string
	Activity *Activity
}

// Options carries the resolved node configuration for one operation.
type Options struct {
	BaseURL  string
	Space    string
	Username string
	Password string
	// may be nil, in which case all authors resolve at best effort from
	// the remote display name
	Users UserResolver
}

func (o Options) baseURL() string { return strings.TrimSuffix(o.BaseURL, "/") }

func (o Options) spaceKey() string {
	if o.Space == "" {
		return "0"
	}
	return o.Space
}

type spacePayload struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

const recentChangesPath = "/plugins/recently-updated/changes.action?theme=social&pageSize=1&spaceKeys="

// ValidateSpace resolves the configured space and enriches it with
// best-effort recent-activity data scraped from the activity feed.
func ValidateSpace(ctx context.Context, opts Options) (Space, error) {
	ctx, span := tracer.Start(ctx, "ValidateSpace")
	defer span.End()

	key := opts.spaceKey()
	session, err := NewSession(opts.baseURL())
	if err != nil {
		return Space{}, err
	}
	defer session.Close()

	if err := session.Login(ctx, opts.Username, opts.Password); err != nil {
		return Space{}, err
	}

	// one batch for both targets; a missing space shows up as an absent
	// saved body, a missing feed only costs the enrichment
	spaceReq := &Request{Method: http.MethodGet, Path: "/rest/api/space/" + key, Save: true, Accept: acceptAny}
	feedReq := &Request{Method: http.MethodGet, Path: recentChangesPath + key, Save: true, Accept: acceptAny}
	if err := session.Process(ctx, spaceReq, feedReq); err != nil {
		return Space{}, err
	}

	body, ok := spaceReq.Response()
	if !ok {
		return Space{}, &SpaceNotFoundError{Space: key}
	}
	var payload spacePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return Space{}, &InvalidResponseError{Err: err}
	}

	space := Space{ID: payload.Key, Name: payload.Name}
	feed, _ := feedReq.Response()
	space.Activity = scrapeActivity(ctx, session, opts, string(feed))
	return space, nil
}

// CheckSpace verifies the configured space exists, without fetching any
// activity. Used when linking a subscription.
func CheckSpace(ctx context.Context, opts Options) error {
	ctx, span := tracer.Start(ctx, "CheckSpace")
	defer span.End()

	key := opts.spaceKey()
	session, err := NewSession(opts.baseURL())
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.Login(ctx, opts.Username, opts.Password); err != nil {
		return err
	}
	if _, ok := session.Fetch(ctx, "/rest/api/space/"+key); !ok {
		return &SpaceNotFoundError{Space: key}
	}
	return nil
}
