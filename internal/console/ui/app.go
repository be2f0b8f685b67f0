// Package ui renders the console on top of the client-state core. The
// Bubble Tea update loop is the single mutation point: workflow goroutines
// post their dispatches and navigations through a Loop, and Update applies
// them to the store and router in arrival order.
package ui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/go-mailroom/mailroom/internal/apierr"
	"github.com/go-mailroom/mailroom/internal/console/cursor"
	"github.com/go-mailroom/mailroom/internal/console/route"
	"github.com/go-mailroom/mailroom/internal/console/selector"
	"github.com/go-mailroom/mailroom/internal/console/state"
	"github.com/go-mailroom/mailroom/internal/console/workflow"
	"github.com/go-mailroom/mailroom/internal/model"
)

/**
 * @time: 2025/6/25
 * @file: app.go
 * @description: 根模型。导航提交、数据拉取与按键处理都在这里。
 */

const (
	noticeTTL    = 4 * time.Second
	fetchTimeout = 15 * time.Second
)

// fetchedMsg reports a route data load finishing.
type fetchedMsg struct {
	err     error
	paged   bool
	hasMore bool
}

// actionDoneMsg reports a workflow action finishing. Store changes arrive
// separately as dispatchMsg.
type actionDoneMsg struct {
	err    error
	secret *secretModal
}

type noticeExpireMsg struct{}

type notice struct {
	text  string
	isErr bool
	until time.Time
}

// App is the root Bubble Tea model.
type App struct {
	store  *state.Store
	router *route.Router
	res    *selector.Resolver
	wf     *workflow.Workflows
	pager  *cursor.Controller
	loop   *Loop

	width  int
	height int

	spin    spinner.Model
	loading bool
	hasMore bool

	table  table.Model
	rowIds []string

	modal    modal
	notices  []notice
	helpOpen bool
}

// NewApp assembles the root model over the shared core.
func NewApp(store *state.Store, router *route.Router, res *selector.Resolver,
	wf *workflow.Workflows, pager *cursor.Controller, loop *Loop) *App {

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	tbl := table.New(table.WithFocused(true))

	return &App{
		store:  store,
		router: router,
		res:    res,
		wf:     wf,
		pager:  pager,
		loop:   loop,
		spin:   sp,
		table:  tbl,
	}
}

// Loop returns the update-loop bridge, for wiring the program sender.
func (a *App) Loop() *Loop {
	return a.loop
}

func (a *App) Init() tea.Cmd {
	a.loading = true
	return tea.Batch(a.spin.Tick, a.initialLoad())
}

// initialLoad pulls the session and the data of the starting route.
func (a *App) initialLoad() tea.Cmd {
	fetch := a.fetchFor(a.router.Active(), nil)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		if err := a.wf.LoadSession(ctx); err != nil {
			return fetchedMsg{err: err}
		}
		return fetch()
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.table.SetWidth(msg.Width - 4)
		a.table.SetHeight(maxInt(4, msg.Height-9))
		return a, nil

	case dispatchMsg:
		a.store.Dispatch(msg.msgs...)
		if a.store.RoutedError != nil && a.router.Active().Name != route.ErrorPage {
			a.router.Navigate(route.ErrorPage, route.Params{})
			a.router.Commit()
			a.res.ResetFallbacks()
		}
		a.reload()
		return a, nil

	case navigateMsg:
		// The before parameter only ever comes from the pager's own
		// navigations. A cursor-less entry to the email list (opening a
		// project, toggling a filter) starts a fresh trail, so a stale
		// stack never leaks across projects.
		if msg.name == route.Emails && msg.params.Get(route.ParamBefore) == "" {
			a.pager.Reset()
		}
		a.router.Navigate(msg.name, msg.params)
		a.loading = true
		return a, tea.Batch(a.spin.Tick, a.fetchActive())

	case fetchedMsg:
		a.loading = false
		if msg.paged {
			a.hasMore = msg.hasMore
		}
		// Commit either way: on failure the view renders resident data
		// alongside the error notice the workflow already posted.
		a.router.Commit()
		a.res.ResetFallbacks()
		a.reload()
		return a, nil

	case actionDoneMsg:
		var cmd tea.Cmd
		if fe, ok := msg.err.(*apierr.FieldError); ok {
			cmd = a.notify(fe.Field+": "+fe.Msg, true)
		}
		if msg.secret != nil {
			a.modal = msg.secret
		}
		a.reload()
		return a, cmd

	case noticeMsg:
		return a, a.notify(msg.text, msg.isErr)

	case noticeExpireMsg:
		kept := a.notices[:0]
		for _, n := range a.notices {
			if time.Now().Before(n.until) {
				kept = append(kept, n)
			}
		}
		a.notices = kept
		return a, nil

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a *App) notify(text string, isErr bool) tea.Cmd {
	a.notices = append(a.notices, notice{text: text, isErr: isErr, until: time.Now().Add(noticeTTL)})
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg { return noticeExpireMsg{} })
}

// fetchActive starts the data load for the pending (or current) location.
func (a *App) fetchActive() tea.Cmd {
	loc := a.router.Active()

	// RefreshOrganizations needs the resident id set for eviction; snapshot
	// it here on the update goroutine.
	var resident map[string]struct{}
	if loc.Name == route.Organizations {
		resident = make(map[string]struct{}, len(a.store.Organizations))
		for id := range a.store.Organizations {
			resident[id] = struct{}{}
		}
	}
	fetch := a.fetchFor(loc, resident)
	return func() tea.Msg { return fetch() }
}

// fetchFor maps a location to its workflow load.
func (a *App) fetchFor(loc route.Location, resident map[string]struct{}) func() tea.Msg {
	wf := a.wf
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		switch loc.Name {
		case route.Organizations:
			return fetchedMsg{err: wf.RefreshOrganizations(ctx, resident)}
		case route.Projects:
			return fetchedMsg{err: wf.RefreshProjects(ctx, loc.Params.Get(route.ParamOrgId))}
		case route.Streams:
			return fetchedMsg{err: wf.RefreshStreams(ctx, loc.Params.Get(route.ParamProjectId))}
		case route.Emails:
			hasMore, err := wf.FetchEmailPage(ctx, loc.Params.Get(route.ParamProjectId), loc)
			return fetchedMsg{err: err, paged: true, hasMore: hasMore}
		case route.EmailDetail:
			return fetchedMsg{err: wf.FetchEmail(ctx, loc.Params.Get(route.ParamEmailId))}
		case route.Credentials:
			return fetchedMsg{err: wf.RefreshCredentials(ctx, loc.Params.Get(route.ParamStreamId))}
		case route.ApiKeys:
			return fetchedMsg{err: wf.RefreshApiKeys(ctx, loc.Params.Get(route.ParamOrgId))}
		case route.Domains:
			return fetchedMsg{err: wf.RefreshDomains(ctx, loc.Params.Get(route.ParamOrgId))}
		case route.Members:
			return fetchedMsg{err: wf.RefreshMembers(ctx, loc.Params.Get(route.ParamOrgId))}
		case route.Invites:
			return fetchedMsg{err: wf.RefreshInvites(ctx, loc.Params.Get(route.ParamOrgId))}
		case route.Settings:
			return fetchedMsg{err: wf.LoadSession(ctx)}
		default:
			return fetchedMsg{}
		}
	}
}

// run wraps a workflow action as a command. Errors surface either through
// the workflow's own notifications or, for field conflicts, through
// actionDoneMsg.
func (a *App) run(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return actionDoneMsg{err: fn(ctx)}
	}
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.modal != nil {
		var cmd tea.Cmd
		a.modal, cmd = a.modal.update(msg)
		return a, cmd
	}

	if a.helpOpen {
		a.helpOpen = false
		return a, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "?":
		a.helpOpen = true
		return a, nil
	case "esc":
		return a, a.goBack()
	case "r":
		loc := a.router.Current()
		if loc.Name == route.Emails {
			a.pager.Refresh(loc)
			return a, nil
		}
		a.loop.Navigate(loc.Name, loc.Params.With(route.ParamForce, route.ForceReload))
		return a, nil
	}

	if cmd, handled := a.routeKey(msg); handled {
		return a, cmd
	}

	var cmd tea.Cmd
	a.table, cmd = a.table.Update(msg)
	return a, cmd
}

// goBack walks one level up the resource hierarchy.
func (a *App) goBack() tea.Cmd {
	loc := a.router.Current()
	switch loc.Name {
	case route.EmailDetail:
		a.loop.Navigate(route.Emails, loc.Params.Without(route.ParamEmailId))
	case route.Emails, route.Streams:
		a.loop.Navigate(route.Projects, route.Params{route.ParamOrgId: loc.Params.Get(route.ParamOrgId)})
	case route.Credentials:
		a.loop.Navigate(route.Streams, loc.Params.Without(route.ParamStreamId))
	case route.Projects, route.ApiKeys, route.Domains, route.Members, route.Invites,
		route.Settings, route.NotFound, route.ErrorPage:
		a.loop.Navigate(route.Organizations, route.Params{})
	}
	return nil
}

// selectedId returns the id of the highlighted table row.
func (a *App) selectedId() string {
	i := a.table.Cursor()
	if i < 0 || i >= len(a.rowIds) {
		return ""
	}
	return a.rowIds[i]
}

// routeKey handles the per-view action keys.
func (a *App) routeKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	loc := a.router.Current()
	key := msg.String()

	switch loc.Name {
	case route.Organizations:
		return a.organizationKeys(key, loc)
	case route.Projects:
		return a.projectKeys(key, loc)
	case route.Streams:
		return a.streamKeys(key, loc)
	case route.Emails:
		return a.emailKeys(key, loc)
	case route.EmailDetail:
		return a.emailDetailKeys(key, loc)
	case route.Credentials:
		return a.credentialKeys(key, loc)
	case route.ApiKeys:
		return a.apiKeyKeys(key, loc)
	case route.Domains:
		return a.domainKeys(key, loc)
	case route.Members:
		return a.memberKeys(key, loc)
	case route.Invites:
		return a.inviteKeys(key, loc)
	case route.Settings:
		return a.settingsKeys(key)
	}
	return nil, false
}

func (a *App) organizationKeys(key string, loc route.Location) (tea.Cmd, bool) {
	id := a.selectedId()
	switch key {
	case "enter":
		if id != "" {
			a.loop.Navigate(route.Projects, route.Params{route.ParamOrgId: id})
		}
		return nil, true
	case "n":
		a.modal = newForm("New organization", func(v []string) tea.Cmd {
			return a.run(func(ctx context.Context) error { return a.wf.CreateOrganization(ctx, v[0]) })
		}, field("Name"))
		return nil, true
	case "e":
		org, ok := a.store.Organizations[id]
		if !ok {
			return nil, true
		}
		a.modal = newForm("Rename organization", func(v []string) tea.Cmd {
			return a.run(func(ctx context.Context) error { return a.wf.RenameOrganization(ctx, org.Id, v[0]) })
		}, fieldWith("Name", org.Name))
		return nil, true
	case "d":
		org, ok := a.store.Organizations[id]
		if !ok {
			return nil, true
		}
		a.modal = newConfirm(fmt.Sprintf("Delete organization %q and everything in it?", org.Name), func() tea.Cmd {
			return a.run(func(ctx context.Context) error { return a.wf.DeleteOrganization(ctx, org.Id) })
		})
		return nil, true
	case "m":
		if id != "" {
			a.loop.Navigate(route.Members, route.Params{route.ParamOrgId: id})
		}
		return nil, true
	case "i":
		if id != "" {
			a.loop.Navigate(route.Invites, route.Params{route.ParamOrgId: id})
		}
		return nil, true
	case "a":
		if id != "" {
			a.loop.Navigate(route.ApiKeys, route.Params{route.ParamOrgId: id})
		}
		return nil, true
	case "o":
		if id != "" {
			a.loop.Navigate(route.Domains, route.Params{route.ParamOrgId: id})
		}
		return nil, true
	case "s":
		a.loop.Navigate(route.Settings, route.Params{})
		return nil, true
	}
	return nil, false
}

func (a *App) projectKeys(key string, loc route.Location) (tea.Cmd, bool) {
	orgId := loc.Params.Get(route.ParamOrgId)
	id := a.selectedId()
	switch key {
	case "enter":
		if id != "" {
			a.loop.Navigate(route.Emails, route.Params{route.ParamOrgId: orgId, route.ParamProjectId: id})
		}
		return nil, true
	case "c":
		if id != "" {
			a.loop.Navigate(route.Streams, route.Params{route.ParamOrgId: orgId, route.ParamProjectId: id})
		}
		return nil, true
	case "n":
		a.modal = newForm("New project", func(v []string) tea.Cmd {
			days, _ := strconv.Atoi(v[1])
			return a.run(func(ctx context.Context) error { return a.wf.CreateProject(ctx, orgId, v[0], days) })
		}, field("Name"), fieldWith("Retention days", "30"))
		return nil, true
	case "e":
		p, ok := a.store.Projects[id]
		if !ok {
			return nil, true
		}
		a.modal = newForm("Edit project", func(v []string) tea.Cmd {
			days, _ := strconv.Atoi(v[1])
			return a.run(func(ctx context.Context) error { return a.wf.UpdateProject(ctx, p.Id, v[0], days) })
		}, fieldWith("Name", p.Name), fieldWith("Retention days", strconv.Itoa(p.RetentionPeriodDays)))
		return nil, true
	case "d":
		p, ok := a.store.Projects[id]
		if !ok {
			return nil, true
		}
		a.modal = newConfirm(fmt.Sprintf("Delete project %q and its streams?", p.Name), func() tea.Cmd {
			return a.run(func(ctx context.Context) error { return a.wf.DeleteProject(ctx, p.Id, orgId) })
		})
		return nil, true
	}
	return nil, false
}

func (a *App) streamKeys(key string, loc route.Location) (tea.Cmd, bool) {
	projectId := loc.Params.Get(route.ParamProjectId)
	id := a.selectedId()
	switch key {
	case "enter":
		if id != "" {
			a.loop.Navigate(route.Credentials, loc.Params.With(route.ParamStreamId, id))
		}
		return nil, true
	case "n":
		return a.run(func(ctx context.Context) error { return a.wf.CreateStream(ctx, projectId) }), true
	case "d":
		if id == "" {
			return nil, true
		}
		streamId := id
		a.modal = newConfirm("Delete stream and its credentials?", func() tea.Cmd {
			return a.run(func(ctx context.Context) error { return a.wf.DeleteStream(ctx, streamId) })
		})
		return nil, true
	}
	return nil, false
}

func (a *App) emailKeys(key string, loc route.Location) (tea.Cmd, bool) {
	id := a.selectedId()
	switch key {
	case "enter":
		if id != "" {
			a.loop.Navigate(route.EmailDetail, loc.Params.With(route.ParamEmailId, id))
		}
		return nil, true
	case "l", "right":
		emails := a.visibleEmails(loc)
		if a.hasMore && len(emails) > 0 {
			a.pager.LoadOlder(loc, emails[len(emails)-1].CreatedAt)
		}
		return nil, true
	case "h", "left":
		if a.pager.Depth() > 0 {
			a.pager.LoadNewer(loc)
		}
		return nil, true
	case "L":
		a.pager.SetLimit(loc, nextLimit(cursor.ParseLimit(loc.Params.Get(route.ParamLimit))))
		return nil, true
	case "g":
		a.modal = newForm("Jump to date", func(v []string) tea.Cmd {
			if v[0] == "" {
				return nil
			}
			if _, err := time.Parse(time.RFC3339, v[0]); err != nil {
				return a.notify("want an RFC3339 timestamp, e.g. 2025-06-01T00:00:00Z", true)
			}
			a.pager.JumpTo(loc, v[0])
			return nil
		}, field("Before (RFC3339)"))
		return nil, true
	case "f":
		a.toggleFailedFilter(loc)
		return nil, true
	case "d":
		if id == "" {
			return nil, true
		}
		emailId := id
		a.modal = newConfirm("Delete this email record?", func() tea.Cmd {
			return a.run(func(ctx context.Context) error { return a.wf.DeleteEmail(ctx, emailId, loc.Params) })
		})
		return nil, true
	}
	return nil, false
}

func (a *App) emailDetailKeys(key string, loc route.Location) (tea.Cmd, bool) {
	emailId := loc.Params.Get(route.ParamEmailId)
	switch key {
	case "t":
		e, ok := a.store.Emails[emailId]
		if !ok || e.Status != model.EmailStatusFailed {
			return a.notify("only failed emails can be retried", true), true
		}
		return a.run(func(ctx context.Context) error { return a.wf.RetryEmail(ctx, emailId) }), true
	case "d":
		a.modal = newConfirm("Delete this email record?", func() tea.Cmd {
			return a.run(func(ctx context.Context) error {
				return a.wf.DeleteEmail(ctx, emailId, loc.Params.Without(route.ParamEmailId))
			})
		})
		return nil, true
	}
	return nil, false
}

func (a *App) credentialKeys(key string, loc route.Location) (tea.Cmd, bool) {
	streamId := loc.Params.Get(route.ParamStreamId)
	id := a.selectedId()
	switch key {
	case "n":
		a.modal = newForm("New SMTP credential", func(v []string) tea.Cmd {
			return func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
				defer cancel()
				created, err := a.wf.CreateCredential(ctx, streamId, v[0])
				if err != nil {
					return actionDoneMsg{err: err}
				}
				return actionDoneMsg{secret: &secretModal{
					title:    "SMTP credential created",
					username: created.Credential.Username,
					secret:   created.Password,
				}}
			}
		}, field("Description"))
		return nil, true
	case "d":
		if id == "" {
			return nil, true
		}
		credId := id
		a.modal = newConfirm("Revoke this SMTP credential?", func() tea.Cmd {
			return a.run(func(ctx context.Context) error { return a.wf.DeleteCredential(ctx, credId, loc.Params) })
		})
		return nil, true
	}
	return nil, false
}

func (a *App) apiKeyKeys(key string, loc route.Location) (tea.Cmd, bool) {
	orgId := loc.Params.Get(route.ParamOrgId)
	id := a.selectedId()
	switch key {
	case "n":
		a.modal = newForm("New API key", func(v []string) tea.Cmd {
			return func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
				defer cancel()
				created, err := a.wf.CreateApiKey(ctx, orgId, v[0], model.Role(v[1]))
				if err != nil {
					return actionDoneMsg{err: err}
				}
				return actionDoneMsg{secret: &secretModal{
					title:  "API key created",
					secret: created.Password,
				}}
			}
		}, field("Description"), fieldWith("Role", string(model.RoleMember)))
		return nil, true
	case "e":
		k, ok := a.store.ApiKeys[id]
		if !ok {
			return nil, true
		}
		a.modal = newForm("Change API key role", func(v []string) tea.Cmd {
			return a.run(func(ctx context.Context) error { return a.wf.SetApiKeyRole(ctx, k.Id, model.Role(v[0])) })
		}, fieldWith("Role", string(k.Role)))
		return nil, true
	case "d":
		if id == "" {
			return nil, true
		}
		keyId := id
		a.modal = newConfirm("Revoke this API key?", func() tea.Cmd {
			return a.run(func(ctx context.Context) error { return a.wf.DeleteApiKey(ctx, keyId) })
		})
		return nil, true
	}
	return nil, false
}

func (a *App) domainKeys(key string, loc route.Location) (tea.Cmd, bool) {
	orgId := loc.Params.Get(route.ParamOrgId)
	id := a.selectedId()
	switch key {
	case "n":
		a.modal = newForm("Register sending domain", func(v []string) tea.Cmd {
			return a.run(func(ctx context.Context) error { return a.wf.CreateDomain(ctx, orgId, v[0], v[1]) })
		}, field("Domain"), field("Project id (optional)"))
		return nil, true
	case "v":
		if id == "" {
			return nil, true
		}
		domainId := id
		return a.run(func(ctx context.Context) error { return a.wf.VerifyDomain(ctx, domainId) }), true
	case "d":
		if id == "" {
			return nil, true
		}
		domainId := id
		a.modal = newConfirm("Remove this sending domain?", func() tea.Cmd {
			return a.run(func(ctx context.Context) error { return a.wf.DeleteDomain(ctx, domainId) })
		})
		return nil, true
	}
	return nil, false
}

func (a *App) memberKeys(key string, loc route.Location) (tea.Cmd, bool) {
	orgId := loc.Params.Get(route.ParamOrgId)
	userId := a.selectedId()
	switch key {
	case "e":
		m, ok := a.store.Members[model.MemberKey{UserId: userId, OrgId: orgId}]
		if !ok {
			return nil, true
		}
		a.modal = newForm("Change member role", func(v []string) tea.Cmd {
			return a.run(func(ctx context.Context) error {
				return a.wf.SetMemberRole(ctx, orgId, m.UserId, model.Role(v[0]))
			})
		}, fieldWith("Role", string(m.Role)))
		return nil, true
	case "d":
		m, ok := a.store.Members[model.MemberKey{UserId: userId, OrgId: orgId}]
		if !ok {
			return nil, true
		}
		if a.store.User != nil && a.store.User.Id == m.UserId {
			a.modal = newConfirm("Leave this organization?", func() tea.Cmd {
				return a.run(func(ctx context.Context) error {
					return a.wf.LeaveOrganization(ctx, orgId, m.UserId)
				})
			})
			return nil, true
		}
		a.modal = newConfirm(fmt.Sprintf("Remove %s from the organization?", m.Email), func() tea.Cmd {
			return a.run(func(ctx context.Context) error { return a.wf.RemoveMember(ctx, orgId, m.UserId) })
		})
		return nil, true
	}
	return nil, false
}

func (a *App) inviteKeys(key string, loc route.Location) (tea.Cmd, bool) {
	orgId := loc.Params.Get(route.ParamOrgId)
	id := a.selectedId()
	switch key {
	case "n":
		a.modal = newForm("New invite", func(v []string) tea.Cmd {
			return a.run(func(ctx context.Context) error { return a.wf.CreateInvite(ctx, orgId, model.Role(v[0])) })
		}, fieldWith("Role", string(model.RoleMember)))
		return nil, true
	case "d":
		if id == "" {
			return nil, true
		}
		inviteId := id
		a.modal = newConfirm("Revoke this invite?", func() tea.Cmd {
			return a.run(func(ctx context.Context) error { return a.wf.DeleteInvite(ctx, inviteId) })
		})
		return nil, true
	}
	return nil, false
}

func (a *App) settingsKeys(key string) (tea.Cmd, bool) {
	if key != "e" {
		return nil, false
	}
	cfg := a.store.RuntimeConfig
	if cfg == nil {
		return nil, true
	}
	a.modal = newForm("Runtime configuration", func(v []string) tea.Cmd {
		next := model.RuntimeConfig{
			SystemEmail:    v[0],
			SignupsEnabled: v[1] == "true" || v[1] == "yes",
			FeatureFlags:   cfg.FeatureFlags,
		}
		return a.run(func(ctx context.Context) error { return a.wf.SaveRuntimeConfig(ctx, next) })
	}, fieldWith("System email", cfg.SystemEmail), fieldWith("Signups enabled (yes/no)", yesNo(cfg.SignupsEnabled)))
	return nil, true
}

// toggleFailedFilter flips the status=failed filter on the email list.
func (a *App) toggleFailedFilter(loc route.Location) {
	params := loc.Params.Without(route.ParamBefore)
	if loc.Params.Get(route.ParamStatus) == model.EmailStatusFailed {
		params = params.Without(route.ParamStatus)
	} else {
		params = params.With(route.ParamStatus, model.EmailStatusFailed)
	}
	a.loop.Navigate(route.Emails, params)
}

// nextLimit cycles through the allowed page sizes.
func nextLimit(current int) int {
	for i, l := range cursor.Limits {
		if l == current {
			return cursor.Limits[(i+1)%len(cursor.Limits)]
		}
	}
	return cursor.DefaultLimit
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
