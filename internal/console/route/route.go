// Package route mirrors the navigable location into client state. The
// router is a two-slot value: the committed current location plus an
// optional pending location set while a navigation is in flight. Consumers
// that need "current" parameters during a transition follow one rule:
// prefer pending when present.
package route

/**
 * @time: 2025/6/18
 * @file: route.go
 * @description: 路由状态桥。current / pending 双槽位，乐观导航。
 */

// Route names.
const (
	Organizations = "organizations"
	Projects      = "projects"
	Streams       = "streams"
	Emails        = "emails"
	EmailDetail   = "email"
	Credentials   = "credentials"
	ApiKeys       = "api_keys"
	Domains       = "domains"
	Members       = "members"
	Invites       = "invites"
	Settings      = "settings"
	NotFound      = "not_found"
	ErrorPage     = "error"
)

// Cross-cutting parameter keys.
const (
	ParamOrgId     = "org_id"
	ParamProjectId = "project_id"
	ParamStreamId  = "stream_id"
	ParamEmailId   = "email_id"
	ParamApiKeyId  = "api_key_id"
	ParamCredId    = "credential_id"
	ParamDomainId  = "domain_id"
	ParamBefore    = "before" // exclusive upper timestamp bound, RFC3339
	ParamLimit     = "limit"
	ParamLabels    = "labels" // comma-joined
	ParamStatus    = "status" // comma-joined
	ParamForce     = "force"  // one-shot re-fetch signal, never persisted
)

// Values of the one-shot force parameter.
const (
	ForceReload     = "reload"
	ForceReloadOrgs = "reload-orgs"
)

// Params is the flat string-keyed parameter mapping of a location.
type Params map[string]string

// Get returns the value for key, or "" when absent.
func (p Params) Get(key string) string {
	if p == nil {
		return ""
	}
	return p[key]
}

// Has reports whether key is present and non-empty.
func (p Params) Has(key string) bool {
	return p.Get(key) != ""
}

// Clone returns an independent copy.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// With returns a copy with key set to value; an empty value removes the key.
func (p Params) With(key, value string) Params {
	out := p.Clone()
	if value == "" {
		delete(out, key)
	} else {
		out[key] = value
	}
	return out
}

// Without returns a copy with key removed.
func (p Params) Without(key string) Params {
	return p.With(key, "")
}

// Location is a route name plus its parameter mapping.
type Location struct {
	Name   string
	Params Params
}

// Router holds the committed location and, during an in-flight navigation,
// the pending target. It is not safe for concurrent use; like the store it
// lives on the single UI goroutine.
type Router struct {
	current Location
	pending *Location
}

// NewRouter starts at the given location with no navigation in flight.
func NewRouter(initial Location) *Router {
	if initial.Params == nil {
		initial.Params = Params{}
	}
	return &Router{current: initial}
}

// Navigate sets the pending target immediately so that consumers can render
// optimistically against the destination's parameters. A second Navigate
// before Commit simply supersedes the pending slot.
func (r *Router) Navigate(name string, params Params) {
	if params == nil {
		params = Params{}
	}
	loc := Location{Name: name, Params: params.Clone()}
	r.pending = &loc
}

// Commit completes the in-flight navigation: the pending location becomes
// current and the one-shot force parameter is dropped so it never persists
// into the committed state. A no-op when nothing is pending.
func (r *Router) Commit() {
	if r.pending == nil {
		return
	}
	loc := *r.pending
	loc.Params = loc.Params.Without(ParamForce)
	r.current = loc
	r.pending = nil
}

// Current returns the committed location.
func (r *Router) Current() Location {
	return r.current
}

// Pending returns the in-flight target, or nil when no navigation is in
// flight.
func (r *Router) Pending() *Location {
	return r.pending
}

// Active returns the location consumers should render against: pending when
// present, else current.
func (r *Router) Active() Location {
	if r.pending != nil {
		return *r.pending
	}
	return r.current
}

// Navigator is the navigation entry point handed to selectors and workflow
// controllers.
type Navigator interface {
	Navigate(name string, params Params)
}

var _ Navigator = (*Router)(nil)
