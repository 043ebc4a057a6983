// Package km orchestrates the Confluence connector operations over the
// scraper core: reachability, login, administration and space checks,
// plus the paginated space search. Host integration stays outside: the
// host supplies resolved parameter maps and gets back typed results or
// typed errors.
package km

import (
	"context"
	"log/slog"

	"kmconnect-backend/lib/directory"
	"kmconnect-backend/lib/releases"
	"kmconnect-backend/lib/scrapers/confluence"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("services/km")

// Params resolves a node identifier to its flat parameter map. Unknown
// nodes report false.
type Params interface {
	NodeParameters(ctx context.Context, node string) (map[string]string, bool)
}

// The tracker product key whose releases are this connector's "last known
// release version".
const releaseProduct = "CONF"

type Connector struct {
	params   Params
	users    confluence.UserResolver
	releases releases.Source
}

// New wires the connector with its collaborators. users and releaseSrc
// may be nil: author resolution then degrades to remote display names and
// LastKnownRelease reports unknown.
func New(params Params, users confluence.UserResolver, releaseSrc releases.Source) *Connector {
	return &Connector{params: params, users: users, releases: releaseSrc}
}

func (c *Connector) Key() string { return confluence.Key }

func (c *Connector) options(parameters map[string]string) confluence.Options {
	return confluence.Options{
		BaseURL:  parameters[confluence.ParameterURL],
		Space:    parameters[confluence.ParameterSpace],
		Username: parameters[confluence.ParameterUser],
		Password: parameters[confluence.ParameterPassword],
		Users:    c.users,
	}
}

// RemoteVersion reports the version advertised by the remote service, or
// false when it cannot be discovered.
func (c *Connector) RemoteVersion(ctx context.Context, parameters map[string]string) (string, bool) {
	return confluence.RemoteVersion(ctx, parameters[confluence.ParameterURL])
}

// LastKnownRelease reports the latest version the vendor has released,
// regardless of what the remote runs.
func (c *Connector) LastKnownRelease(ctx context.Context) (string, error) {
	if c.releases == nil {
		return "", nil
	}
	return c.releases.LatestReleased(ctx, releaseProduct)
}

// CheckStatus reports whether the node is up: reachable, accepting the
// configured credentials, and granting administration access.
func (c *Connector) CheckStatus(ctx context.Context, parameters map[string]string) (bool, error) {
	ctx, span := tracer.Start(ctx, "CheckStatus")
	defer span.End()

	opts := c.options(parameters)
	if err := confluence.CheckAccess(ctx, opts.BaseURL); err != nil {
		return false, err
	}

	session, err := confluence.NewSession(opts.BaseURL)
	if err != nil {
		return false, err
	}
	defer session.Close()

	if err := session.Login(ctx, opts.Username, opts.Password); err != nil {
		return false, err
	}
	if err := session.CheckAdminAccess(ctx, opts.Username); err != nil {
		return false, err
	}
	return true, nil
}

// SubscriptionStatus is the payload returned to the host for a healthy
// subscription.
type SubscriptionStatus struct {
	Space confluence.Space
}

// CheckSubscription validates the subscribed space and enriches it with
// recent activity.
func (c *Connector) CheckSubscription(ctx context.Context, parameters map[string]string) (SubscriptionStatus, error) {
	ctx, span := tracer.Start(ctx, "CheckSubscription")
	defer span.End()

	space, err := confluence.ValidateSpace(ctx, c.options(parameters))
	if err != nil {
		return SubscriptionStatus{}, err
	}
	return SubscriptionStatus{Space: space}, nil
}

// Link validates the space key exists when a subscription is created. No
// activity is fetched.
func (c *Connector) Link(ctx context.Context, parameters map[string]string) error {
	ctx, span := tracer.Start(ctx, "Link")
	defer span.End()

	return confluence.CheckSpace(ctx, c.options(parameters))
}

// Search finds spaces of the given node matching the criteria by key or
// name. An unknown node yields no results rather than an error; rejected
// credentials do error.
func (c *Connector) Search(ctx context.Context, node, criteria string) ([]confluence.Space, error) {
	ctx, span := tracer.Start(ctx, "Search")
	defer span.End()

	parameters, ok := c.params.NodeParameters(ctx, node)
	if !ok {
		slog.DebugContext(ctx, "search against unknown node", "node", node)
		return nil, nil
	}
	return confluence.SearchSpaces(ctx, c.options(parameters), criteria)
}

// DirectoryResolver adapts the sqlite identity directory to the resolver
// collaborator the scraper core consumes.
type DirectoryResolver struct {
	Directory directory.Service
}

func (r DirectoryResolver) Resolve(ctx context.Context, login string) (confluence.User, bool) {
	user, ok := r.Directory.FindByLogin(ctx, login)
	if !ok {
		return confluence.User{}, false
	}
	return confluence.User{
		ID:        user.Login,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, true
}

// StaticParams serves parameter maps from memory, for hosts that resolve
// node configuration themselves (and for the CLI).
type StaticParams map[string]map[string]string

func (p StaticParams) NodeParameters(_ context.Context, node string) (map[string]string, bool) {
	parameters, ok := p[node]
	return parameters, ok
}
