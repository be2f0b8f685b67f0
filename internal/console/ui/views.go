package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/go-mailroom/mailroom/internal/console/cursor"
	"github.com/go-mailroom/mailroom/internal/console/route"
	"github.com/go-mailroom/mailroom/internal/model"
)

/**
 * @time: 2025/6/26
 * @file: views.go
 * @description: 每个路由的渲染。列表视图由 store 快照重建，
 *               detail 视图走 selector。
 */

// reload rebuilds the table for the committed route from the latest store
// snapshot. Detail routes do not use the table.
func (a *App) reload() {
	loc := a.router.Current()

	var cols []table.Column
	var rows []table.Row
	a.rowIds = a.rowIds[:0]

	switch loc.Name {
	case route.Organizations:
		cols = []table.Column{{Title: "Name", Width: 28}, {Title: "Quota", Width: 16}, {Title: "Created", Width: 20}}
		for _, o := range sortedOrgs(a.store.Organizations) {
			quota := fmt.Sprintf("%d / %d", o.QuotaUsed, o.QuotaMonthly)
			if o.Blocked {
				quota = "blocked"
			}
			rows = append(rows, table.Row{o.Name, quota, o.CreatedAt})
			a.rowIds = append(a.rowIds, o.Id)
		}

	case route.Projects:
		cols = []table.Column{{Title: "Name", Width: 28}, {Title: "Retention", Width: 12}, {Title: "Created", Width: 20}}
		orgId := loc.Params.Get(route.ParamOrgId)
		for _, p := range sortedProjects(a.store.Projects, orgId) {
			rows = append(rows, table.Row{p.Name, fmt.Sprintf("%d days", p.RetentionPeriodDays), p.CreatedAt})
			a.rowIds = append(a.rowIds, p.Id)
		}

	case route.Streams:
		cols = []table.Column{{Title: "Stream", Width: 32}, {Title: "Created", Width: 20}}
		projectId := loc.Params.Get(route.ParamProjectId)
		for _, s := range sortedStreams(a.store.Streams, projectId) {
			rows = append(rows, table.Row{s.Id, s.CreatedAt})
			a.rowIds = append(a.rowIds, s.Id)
		}

	case route.Emails:
		cols = []table.Column{
			{Title: "Status", Width: 10}, {Title: "Subject", Width: 34},
			{Title: "To", Width: 26}, {Title: "Created", Width: 20},
		}
		for _, e := range a.visibleEmails(loc) {
			to := strings.Join(e.Recipients, ", ")
			rows = append(rows, table.Row{e.Status, e.Subject, to, e.CreatedAt})
			a.rowIds = append(a.rowIds, e.Id)
		}

	case route.Credentials:
		cols = []table.Column{{Title: "Username", Width: 22}, {Title: "Description", Width: 30}, {Title: "Created", Width: 20}}
		streamId := loc.Params.Get(route.ParamStreamId)
		for _, c := range sortedCredentials(a.store.Credentials, streamId) {
			rows = append(rows, table.Row{c.Username, c.Description, c.CreatedAt})
			a.rowIds = append(a.rowIds, c.Id)
		}

	case route.ApiKeys:
		cols = []table.Column{{Title: "Description", Width: 30}, {Title: "Role", Width: 10}, {Title: "Created", Width: 20}}
		orgId := loc.Params.Get(route.ParamOrgId)
		for _, k := range sortedApiKeys(a.store.ApiKeys, orgId) {
			rows = append(rows, table.Row{k.Description, string(k.Role), k.CreatedAt})
			a.rowIds = append(a.rowIds, k.Id)
		}

	case route.Domains:
		cols = []table.Column{{Title: "Domain", Width: 28}, {Title: "Scope", Width: 12}, {Title: "Status", Width: 10}}
		orgId := loc.Params.Get(route.ParamOrgId)
		for _, d := range sortedDomains(a.store.Domains, orgId) {
			scope := "org"
			if d.ProjectId != "" {
				scope = "project"
			}
			rows = append(rows, table.Row{d.Name, scope, verificationBadge(d.VerificationStatus)})
			a.rowIds = append(a.rowIds, d.Id)
		}

	case route.Members:
		cols = []table.Column{{Title: "Name", Width: 22}, {Title: "Email", Width: 28}, {Title: "Role", Width: 10}}
		orgId := loc.Params.Get(route.ParamOrgId)
		for _, m := range sortedMembers(a.store.Members, orgId) {
			rows = append(rows, table.Row{m.Name, m.Email, string(m.Role)})
			a.rowIds = append(a.rowIds, m.UserId)
		}

	case route.Invites:
		cols = []table.Column{{Title: "Invite", Width: 28}, {Title: "Role", Width: 10}, {Title: "Expires", Width: 20}}
		orgId := loc.Params.Get(route.ParamOrgId)
		for _, inv := range sortedInvites(a.store.Invites, orgId) {
			rows = append(rows, table.Row{inv.Id, string(inv.Role), inv.ExpiresAt})
			a.rowIds = append(a.rowIds, inv.Id)
		}

	default:
		return
	}

	if a.table.Cursor() >= len(rows) {
		a.table.SetCursor(maxInt(0, len(rows)-1))
	}
	a.table.SetColumns(cols)
	a.table.SetRows(rows)
}

// visibleEmails narrows the resident emails to the window the location's
// cursor parameters describe: newest first, strictly older than before,
// matching the filters, capped at the page limit.
func (a *App) visibleEmails(loc route.Location) []model.Email {
	projectId := loc.Params.Get(route.ParamProjectId)
	before := loc.Params.Get(route.ParamBefore)
	limit := cursor.ParseLimit(loc.Params.Get(route.ParamLimit))
	status := loc.Params.Get(route.ParamStatus)
	labels := loc.Params.Get(route.ParamLabels)

	all := a.res.ProjectEmails(projectId)
	out := make([]model.Email, 0, limit)
	for _, e := range all {
		if before != "" && e.CreatedAt >= before {
			continue
		}
		if status != "" && !csvContains(status, e.Status) {
			continue
		}
		if labels != "" && !labelMatch(labels, e.Labels) {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out
}

func (a *App) View() string {
	if a.width == 0 {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(a.header())
	b.WriteString("\n")

	if a.modal != nil {
		b.WriteString(a.modal.view())
		b.WriteString("\n")
		b.WriteString(a.footer())
		return b.String()
	}
	if a.helpOpen {
		b.WriteString(a.helpView())
		return b.String()
	}

	loc := a.router.Current()
	switch loc.Name {
	case route.EmailDetail:
		b.WriteString(a.emailDetailView(loc))
	case route.Settings:
		b.WriteString(a.settingsView())
	case route.NotFound:
		b.WriteString(panelStyle.Render(errStyle.Render("Not found") +
			"\n\nThe thing you were looking at no longer exists.\n" +
			helpStyle.Render("esc back to organizations")))
	case route.ErrorPage:
		b.WriteString(a.errorView())
	default:
		b.WriteString(a.table.View())
		if loc.Name == route.Emails {
			b.WriteString("\n")
			b.WriteString(a.pagerLine(loc))
		}
	}

	b.WriteString("\n")
	b.WriteString(a.footer())
	return b.String()
}

// header renders the breadcrumb and the loading spinner.
func (a *App) header() string {
	loc := a.router.Current()
	crumb := a.breadcrumb(loc)

	left := titleStyle.Render("mailroom") + "  " + crumbStyle.Render(crumb)
	if a.loading {
		left += "  " + a.spin.View()
	}
	if a.store.User != nil {
		right := mutedStyle.Render(a.store.User.Email)
		gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
		if gap > 0 {
			return left + strings.Repeat(" ", gap) + right
		}
	}
	return left
}

func (a *App) breadcrumb(loc route.Location) string {
	parts := []string{loc.Name}
	if org := a.res.CurrentOrganization(loc); org != nil {
		parts = []string{org.Name, loc.Name}
		if p := a.res.CurrentProject(loc); p != nil {
			parts = []string{org.Name, p.Name, loc.Name}
		}
	}
	return strings.Join(parts, " › ")
}

// pagerLine shows the cursor trail position under the email list.
func (a *App) pagerLine(loc route.Location) string {
	limit := cursor.ParseLimit(loc.Params.Get(route.ParamLimit))
	line := fmt.Sprintf("page %d · %d per page", a.pager.Depth()+1, limit)
	if loc.Params.Get(route.ParamStatus) != "" {
		line += " · filter: " + loc.Params.Get(route.ParamStatus)
	}
	if a.hasMore {
		line += " · → older"
	}
	if a.pager.Depth() > 0 {
		line += " · ← newer"
	}
	return mutedStyle.Render(line)
}

func (a *App) emailDetailView(loc route.Location) string {
	e, err := a.res.CurrentEmail(loc)
	if err != nil {
		return panelStyle.Render(errStyle.Render("email not found"))
	}
	if e == nil {
		return panelStyle.Render(mutedStyle.Render("no email selected"))
	}

	var b strings.Builder
	row := func(label, value string) {
		if value != "" {
			b.WriteString(labelStyle.Render(fmt.Sprintf("%-12s", label)))
			b.WriteString(value)
			b.WriteString("\n")
		}
	}
	row("Status", statusBadge(e.Status))
	row("From", e.From)
	row("To", strings.Join(e.Recipients, ", "))
	row("Subject", e.Subject)
	row("Labels", strings.Join(e.Labels, ", "))
	row("Attempts", fmt.Sprintf("%d", e.Attempts))
	row("Next try", e.NextAttempt)
	row("Created", e.CreatedAt)
	row("Sent", e.SentAt)

	if e.TextBody != "" {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(truncate(e.TextBody, 600)))
		b.WriteString("\n")
	} else if e.HtmlBody == "" {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("body not loaded"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("t retry (failed only) · d delete · esc back"))
	return panelStyle.Render(b.String())
}

func (a *App) settingsView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Settings"))
	b.WriteString("\n\n")

	if u := a.store.User; u != nil {
		b.WriteString(labelStyle.Render("Signed in   "))
		b.WriteString(fmt.Sprintf("%s <%s> (%s)\n", u.Name, u.Email, u.GlobalRole))
	}
	if cfg := a.store.RuntimeConfig; cfg != nil {
		b.WriteString(labelStyle.Render("System email"))
		b.WriteString(" " + cfg.SystemEmail + "\n")
		b.WriteString(labelStyle.Render("Signups     "))
		b.WriteString(" " + yesNo(cfg.SignupsEnabled) + "\n")
		if len(cfg.FeatureFlags) > 0 {
			flags := make([]string, 0, len(cfg.FeatureFlags))
			for name, on := range cfg.FeatureFlags {
				if on {
					flags = append(flags, name)
				}
			}
			sort.Strings(flags)
			b.WriteString(labelStyle.Render("Flags       "))
			b.WriteString(" " + strings.Join(flags, ", ") + "\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("e edit (admin) · esc back"))
	return panelStyle.Render(b.String())
}

// errorView renders the fatal routed error.
func (a *App) errorView() string {
	msg := "something went wrong"
	if a.store.RoutedError != nil {
		msg = a.store.RoutedError.Msg
	}
	return panelStyle.Render(errStyle.Render("Error") + "\n\n" + msg + "\n\n" +
		helpStyle.Render("esc back to organizations"))
}

// footer renders notices, or contextual key help when there are none.
func (a *App) footer() string {
	if len(a.notices) > 0 {
		parts := make([]string, 0, len(a.notices))
		for _, n := range a.notices {
			if n.isErr {
				parts = append(parts, errStyle.Render("✗ "+n.text))
			} else {
				parts = append(parts, okStyle.Render("✓ "+n.text))
			}
		}
		return strings.Join(parts, "  ")
	}
	return helpStyle.Render(a.contextHelp())
}

func (a *App) contextHelp() string {
	switch a.router.Current().Name {
	case route.Organizations:
		return "enter open · n new · e rename · d delete · m members · i invites · a keys · o domains · s settings · ? help · q quit"
	case route.Projects:
		return "enter emails · c streams · n new · e edit · d delete · esc back"
	case route.Streams:
		return "enter credentials · n new · d delete · esc back"
	case route.Emails:
		return "enter open · →/← page · g date · L size · f failed · d delete · r refresh · esc back"
	case route.Credentials:
		return "n new · d revoke · esc back"
	case route.ApiKeys:
		return "n new · e role · d revoke · esc back"
	case route.Domains:
		return "n new · v verify · d delete · esc back"
	case route.Members:
		return "e role · d remove · esc back"
	case route.Invites:
		return "n new · d revoke · esc back"
	default:
		return "esc back · q quit"
	}
}

func (a *App) helpView() string {
	rowsHelp := []string{
		"Navigation",
		"  enter        open the selected row",
		"  esc          one level up",
		"  ↑/↓ j/k      move selection",
		"",
		"Email list",
		"  →/l  ←/h     older / newer page",
		"  g            jump to a date",
		"  L            cycle page size",
		"  f            toggle failed-only filter",
		"  r            refresh current view",
		"",
		"Editing",
		"  n  e  d      new / edit / delete (with confirmation)",
		"  t            retry a failed email (detail view)",
		"  v            re-verify a sending domain",
		"",
		"press any key to close",
	}
	return panelStyle.Render(strings.Join(rowsHelp, "\n"))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

func csvContains(csv, v string) bool {
	for _, p := range strings.Split(csv, ",") {
		if strings.TrimSpace(p) == v {
			return true
		}
	}
	return false
}

func labelMatch(csv string, have []string) bool {
	for _, l := range have {
		if csvContains(csv, l) {
			return true
		}
	}
	return false
}

func sortedOrgs(m map[string]model.Organization) []model.Organization {
	out := make([]model.Organization, 0, len(m))
	for _, o := range m {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func sortedProjects(m map[string]model.Project, orgId string) []model.Project {
	out := make([]model.Project, 0, len(m))
	for _, p := range m {
		if p.OrgId == orgId {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func sortedStreams(m map[string]model.Stream, projectId string) []model.Stream {
	out := make([]model.Stream, 0, len(m))
	for _, s := range m {
		if s.ProjectId == projectId {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out
}

func sortedCredentials(m map[string]model.SmtpCredential, streamId string) []model.SmtpCredential {
	out := make([]model.SmtpCredential, 0, len(m))
	for _, c := range m {
		if c.StreamId == streamId {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out
}

func sortedApiKeys(m map[string]model.ApiKey, orgId string) []model.ApiKey {
	out := make([]model.ApiKey, 0, len(m))
	for _, k := range m {
		if k.OrgId == orgId {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out
}

func sortedDomains(m map[string]model.Domain, orgId string) []model.Domain {
	out := make([]model.Domain, 0, len(m))
	for _, d := range m {
		if d.OrgId == orgId {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func sortedMembers(m map[model.MemberKey]model.Member, orgId string) []model.Member {
	out := make([]model.Member, 0, len(m))
	for _, mem := range m {
		if mem.OrgId == orgId {
			out = append(out, mem)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

func sortedInvites(m map[string]model.Invite, orgId string) []model.Invite {
	out := make([]model.Invite, 0, len(m))
	for _, inv := range m {
		if inv.OrgId == orgId {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out
}
