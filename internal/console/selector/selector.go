// Package selector resolves "current entity" values from the store and the
// active route parameters. Every call recomputes from the latest snapshot;
// there is no caching beyond the store itself, so reads are always
// consistent with the most recent dispatch.
//
// Resolution policy: an absent id parameter yields nil (most list views).
// An unresolved primary-scope id (organization, project) triggers a
// fallback navigation to the not-found view as a side effect of the read,
// at most once per navigation. An unresolved leaf id yields a typed
// 404 error that callers turn into a fatal routed error.
package selector

import (
	"sort"

	"github.com/go-mailroom/mailroom/internal/apierr"
	"github.com/go-mailroom/mailroom/internal/console/route"
	"github.com/go-mailroom/mailroom/internal/console/state"
	"github.com/go-mailroom/mailroom/internal/model"
)

/**
 * @time: 2025/6/19
 * @file: selector.go
 * @description: current 实体解析。主作用域缺失跳 not-found，
 *               叶子实体缺失返回类型化 404。
 */

// Resolver derives current entities from a store and the active location.
type Resolver struct {
	store *state.Store
	nav   route.Navigator

	// redirected remembers the unresolved primary-scope value already
	// redirected for, so a re-render during the fallback navigation does
	// not loop.
	redirected map[string]string
}

// New builds a resolver over the shared store and navigator.
func New(store *state.Store, nav route.Navigator) *Resolver {
	return &Resolver{
		store:      store,
		nav:        nav,
		redirected: make(map[string]string),
	}
}

// CurrentOrganization resolves the org_id parameter. Primary scope: an
// unresolved id navigates to the not-found view and returns nil.
func (r *Resolver) CurrentOrganization(loc route.Location) *model.Organization {
	id := loc.Params.Get(route.ParamOrgId)
	if id == "" {
		return nil
	}
	if org, ok := r.store.Organizations[id]; ok {
		delete(r.redirected, route.ParamOrgId)
		return &org
	}
	r.fallback(route.ParamOrgId, id)
	return nil
}

// CurrentProject resolves the project_id parameter. Primary scope.
func (r *Resolver) CurrentProject(loc route.Location) *model.Project {
	id := loc.Params.Get(route.ParamProjectId)
	if id == "" {
		return nil
	}
	if p, ok := r.store.Projects[id]; ok {
		delete(r.redirected, route.ParamProjectId)
		return &p
	}
	r.fallback(route.ParamProjectId, id)
	return nil
}

// fallback navigates to the not-found view exactly once per unresolved
// value.
func (r *Resolver) fallback(param, id string) {
	if r.redirected[param] == id {
		return
	}
	r.redirected[param] = id
	r.nav.Navigate(route.NotFound, route.Params{})
}

// ResetFallbacks clears the redirect guard. The caller invokes it when a
// navigation commits, so each navigation gets its own single fallback
// chance instead of the guard persisting for the resolver's lifetime.
func (r *Resolver) ResetFallbacks() {
	r.redirected = make(map[string]string)
}

// CurrentStream resolves the stream_id parameter. Leaf entity.
func (r *Resolver) CurrentStream(loc route.Location) (*model.Stream, error) {
	id := loc.Params.Get(route.ParamStreamId)
	if id == "" {
		return nil, nil
	}
	if s, ok := r.store.Streams[id]; ok {
		return &s, nil
	}
	return nil, apierr.NotFound("stream", id)
}

// CurrentEmail resolves the email_id parameter. Leaf entity.
func (r *Resolver) CurrentEmail(loc route.Location) (*model.Email, error) {
	id := loc.Params.Get(route.ParamEmailId)
	if id == "" {
		return nil, nil
	}
	if e, ok := r.store.Emails[id]; ok {
		return &e, nil
	}
	return nil, apierr.NotFound("email", id)
}

// CurrentApiKey resolves the api_key_id parameter. Leaf entity.
func (r *Resolver) CurrentApiKey(loc route.Location) (*model.ApiKey, error) {
	id := loc.Params.Get(route.ParamApiKeyId)
	if id == "" {
		return nil, nil
	}
	if k, ok := r.store.ApiKeys[id]; ok {
		return &k, nil
	}
	return nil, apierr.NotFound("api key", id)
}

// CurrentCredential resolves the credential_id parameter. Leaf entity.
func (r *Resolver) CurrentCredential(loc route.Location) (*model.SmtpCredential, error) {
	id := loc.Params.Get(route.ParamCredId)
	if id == "" {
		return nil, nil
	}
	if c, ok := r.store.Credentials[id]; ok {
		return &c, nil
	}
	return nil, apierr.NotFound("credential", id)
}

// CurrentDomain resolves the domain_id parameter. Leaf entity.
func (r *Resolver) CurrentDomain(loc route.Location) (*model.Domain, error) {
	id := loc.Params.Get(route.ParamDomainId)
	if id == "" {
		return nil, nil
	}
	if d, ok := r.store.Domains[id]; ok {
		return &d, nil
	}
	return nil, apierr.NotFound("domain", id)
}

// ProjectEmails returns the resident emails of the project sorted newest
// first, the order the list view renders in.
func (r *Resolver) ProjectEmails(projectId string) []model.Email {
	out := make([]model.Email, 0, len(r.store.Emails))
	for _, e := range r.store.Emails {
		if e.ProjectId == projectId {
			out = append(out, e)
		}
	}
	// CreatedAt is RFC3339, so lexicographic order is chronological order.
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}
