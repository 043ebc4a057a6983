package confluence

import "fmt"

// Parameter keys of the knowledge-management node this connector serves.
const (
	Key               = "service:km:confluence"
	ParameterURL      = Key + ":url"
	ParameterSpace    = Key + ":space"
	ParameterUser     = Key + ":user"
	ParameterPassword = Key + ":password"
)

// ConnectionError reports an unreachable remote: the public version probe
// came back empty.
type ConnectionError struct {
	URL string
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("confluence-connection: %s is not reachable", e.URL)
}

func (e *ConnectionError) Parameter() string { return ParameterURL }

// AuthenticationError reports a rejected login batch. It never carries
// the password.
type AuthenticationError struct {
	User string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("confluence-login: authentication refused for %q", e.User)
}

func (e *AuthenticationError) Parameter() string { return ParameterURL }

// AdminAccessError reports an authenticated user lacking access to the
// plugin administration endpoint.
type AdminAccessError struct {
	User string
}

func (e *AdminAccessError) Error() string {
	return fmt.Sprintf("confluence-admin: %q has no administration access", e.User)
}

func (e *AdminAccessError) Parameter() string { return ParameterURL }

// SpaceNotFoundError reports an absent space JSON lookup.
type SpaceNotFoundError struct {
	Space string
}

func (e *SpaceNotFoundError) Error() string {
	return fmt.Sprintf("confluence-space: space %q does not exist", e.Space)
}

func (e *SpaceNotFoundError) Parameter() string { return ParameterSpace }

// InvalidResponseError reports a malformed body where structured data was
// expected.
type InvalidResponseError struct {
	Err error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("confluence-response: %s", e.Err)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }

// rejectedError marks a request that failed its acceptance predicate, as
// opposed to a transport-level failure which always propagates unwrapped.
type rejectedError struct {
	method string
	path   string
	status int
}

func (e *rejectedError) Error() string {
	return fmt.Sprintf("%s %s: rejected with status %d", e.method, e.path, e.status)
}
