package workflow

import (
	"context"
	"strings"

	"github.com/go-mailroom/mailroom/internal/api"
	"github.com/go-mailroom/mailroom/internal/console/cursor"
	"github.com/go-mailroom/mailroom/internal/console/route"
	"github.com/go-mailroom/mailroom/internal/console/state"
	"github.com/go-mailroom/mailroom/internal/model"
)

/**
 * @time: 2025/6/24
 * @file: fetch.go
 * @description: 拉取工作流。列表刷新按协议发 remove+add 对，
 *               组织刷新会驱逐失去访问权的记录。
 */

// RefreshOrganizations re-fetches the organization list. Records the
// backend no longer returns are evicted: the caller lost access or the
// organization is gone, and a stale record would resolve a dead org_id.
func (w *Workflows) RefreshOrganizations(ctx context.Context, resident map[string]struct{}) error {
	orgs, err := w.api.ListOrganizations(ctx)
	if err != nil {
		return w.fail("load organizations", err)
	}
	seen := make(map[string]struct{}, len(orgs))
	for _, org := range orgs {
		seen[org.Id] = struct{}{}
		w.dispatch(
			state.RemoveOrganization{Id: org.Id},
			state.AddOrganization{Organization: org},
		)
	}
	for id := range resident {
		if _, ok := seen[id]; !ok {
			w.dispatch(state.RemoveOrganization{Id: id})
		}
	}
	return nil
}

// RefreshProjects re-fetches the projects of an organization.
func (w *Workflows) RefreshProjects(ctx context.Context, orgId string) error {
	projects, err := w.api.ListProjects(ctx, orgId)
	if err != nil {
		return w.fail("load projects", err)
	}
	for _, p := range projects {
		w.dispatch(
			state.RemoveProject{Id: p.Id},
			state.AddProject{Project: p},
		)
	}
	return nil
}

// RefreshStreams re-fetches the streams of a project.
func (w *Workflows) RefreshStreams(ctx context.Context, projectId string) error {
	streams, err := w.api.ListStreams(ctx, projectId)
	if err != nil {
		return w.fail("load streams", err)
	}
	for _, s := range streams {
		w.dispatch(
			state.RemoveStream{Id: s.Id},
			state.AddStream{Stream: s},
		)
	}
	return nil
}

// RefreshCredentials re-fetches the credentials of a stream.
func (w *Workflows) RefreshCredentials(ctx context.Context, streamId string) error {
	creds, err := w.api.ListCredentials(ctx, streamId)
	if err != nil {
		return w.fail("load credentials", err)
	}
	for _, c := range creds {
		w.dispatch(
			state.RemoveCredential{Id: c.Id},
			state.AddCredential{Credential: c},
		)
	}
	return nil
}

// RefreshApiKeys re-fetches the API keys of an organization.
func (w *Workflows) RefreshApiKeys(ctx context.Context, orgId string) error {
	keys, err := w.api.ListApiKeys(ctx, orgId)
	if err != nil {
		return w.fail("load api keys", err)
	}
	for _, k := range keys {
		w.dispatch(
			state.RemoveApiKey{Id: k.Id},
			state.AddApiKey{ApiKey: k},
		)
	}
	return nil
}

// RefreshDomains re-fetches the domains of an organization.
func (w *Workflows) RefreshDomains(ctx context.Context, orgId string) error {
	domains, err := w.api.ListDomains(ctx, orgId)
	if err != nil {
		return w.fail("load domains", err)
	}
	for _, d := range domains {
		w.dispatch(
			state.RemoveDomain{Id: d.Id},
			state.AddDomain{Domain: d},
		)
	}
	return nil
}

// RefreshInvites re-fetches the open invites of an organization.
func (w *Workflows) RefreshInvites(ctx context.Context, orgId string) error {
	invites, err := w.api.ListInvites(ctx, orgId)
	if err != nil {
		return w.fail("load invites", err)
	}
	for _, inv := range invites {
		w.dispatch(
			state.RemoveInvite{Id: inv.Id},
			state.AddInvite{Invite: inv},
		)
	}
	return nil
}

// RefreshMembers re-fetches the members of an organization.
func (w *Workflows) RefreshMembers(ctx context.Context, orgId string) error {
	members, err := w.api.ListMembers(ctx, orgId)
	if err != nil {
		return w.fail("load members", err)
	}
	for _, m := range members {
		w.dispatch(
			state.RemoveMember{Key: m.Key()},
			state.AddMember{Member: m},
		)
	}
	return nil
}

// FetchEmailPage fetches the page described by the location's cursor
// parameters, requesting one record past the limit to probe for more. The
// probe record is never dispatched. Returns whether older data exists.
func (w *Workflows) FetchEmailPage(ctx context.Context, projectId string, loc route.Location) (bool, error) {
	limit := cursor.ParseLimit(loc.Params.Get(route.ParamLimit))
	q := api.EmailQuery{
		Before: loc.Params.Get(route.ParamBefore),
		Limit:  limit + 1,
		Labels: splitParam(loc.Params.Get(route.ParamLabels)),
		Status: splitParam(loc.Params.Get(route.ParamStatus)),
	}
	records, err := w.api.ListEmails(ctx, projectId, q)
	if err != nil {
		return false, w.fail("load emails", err)
	}
	page, hasMore := cursor.Page(records, limit)
	for _, md := range page {
		w.dispatch(state.AddEmailMetadata{Metadata: md})
	}
	return hasMore, nil
}

// FetchEmail fetches the full record and upgrades the resident metadata in
// place.
func (w *Workflows) FetchEmail(ctx context.Context, id string) error {
	e, err := w.api.GetEmail(ctx, id)
	if err != nil {
		return w.fail("load email", err)
	}
	w.dispatch(state.AddEmail{Email: *e})
	return nil
}

// LoadSession fetches the authenticated user and the runtime config.
func (w *Workflows) LoadSession(ctx context.Context) error {
	user, err := w.api.Me(ctx)
	if err != nil {
		return w.fail("load session", err)
	}
	w.dispatch(state.SetUser{User: *user})

	cfg, err := w.api.GetRuntimeConfig(ctx)
	if err != nil {
		return w.fail("load runtime config", err)
	}
	w.dispatch(state.SetRuntimeConfig{Config: *cfg})
	return nil
}

// SaveRuntimeConfig replaces the global runtime config (admin only).
func (w *Workflows) SaveRuntimeConfig(ctx context.Context, cfg model.RuntimeConfig) error {
	saved, err := w.api.SetRuntimeConfig(ctx, cfg)
	if err != nil {
		return w.fail("save runtime config", err)
	}
	w.dispatch(state.SetRuntimeConfig{Config: *saved})
	w.notify.Info("runtime config saved")
	return nil
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}
