package workflow

import (
	"context"

	"github.com/go-mailroom/mailroom/internal/apierr"
	"github.com/go-mailroom/mailroom/internal/console/route"
	"github.com/go-mailroom/mailroom/internal/console/state"
)

/**
 * @time: 2025/6/23
 * @file: projects.go
 * @description: 项目、消息流、域名工作流
 */

// CreateProject creates a project inside the organization.
func (w *Workflows) CreateProject(ctx context.Context, orgId, name string, retentionDays int) error {
	if err := requireName(name); err != nil {
		return err
	}
	if retentionDays <= 0 {
		return apierr.Invalid("retention_period_days", "retention must be positive")
	}
	p, err := w.api.CreateProject(ctx, orgId, name, retentionDays)
	if err != nil {
		return w.fail("create project", err)
	}
	w.dispatch(state.AddProject{Project: *p})
	w.nav.Navigate(route.Emails, route.Params{
		route.ParamOrgId:     orgId,
		route.ParamProjectId: p.Id,
	})
	return nil
}

// UpdateProject updates name and retention.
func (w *Workflows) UpdateProject(ctx context.Context, id, name string, retentionDays int) error {
	if err := requireName(name); err != nil {
		return err
	}
	p, err := w.api.UpdateProject(ctx, id, name, retentionDays)
	if err != nil {
		return w.fail("update project", err)
	}
	w.dispatch(
		state.RemoveProject{Id: p.Id},
		state.AddProject{Project: *p},
	)
	return nil
}

// DeleteProject removes a project and returns to the project list. Caller
// confirms first.
func (w *Workflows) DeleteProject(ctx context.Context, id, orgId string) error {
	if err := w.api.DeleteProject(ctx, id); err != nil {
		return w.fail("delete project", err)
	}
	w.dispatch(state.RemoveProject{Id: id})
	w.nav.Navigate(route.Projects, route.Params{route.ParamOrgId: orgId})
	w.notify.Info("project deleted")
	return nil
}

// CreateStream adds a message stream to the project.
func (w *Workflows) CreateStream(ctx context.Context, projectId string) error {
	s, err := w.api.CreateStream(ctx, projectId)
	if err != nil {
		return w.fail("create stream", err)
	}
	w.dispatch(state.AddStream{Stream: *s})
	w.notify.Info("stream created")
	return nil
}

// DeleteStream removes a message stream. Caller confirms first.
func (w *Workflows) DeleteStream(ctx context.Context, id string) error {
	if err := w.api.DeleteStream(ctx, id); err != nil {
		return w.fail("delete stream", err)
	}
	w.dispatch(state.RemoveStream{Id: id})
	w.notify.Info("stream deleted")
	return nil
}

// CreateDomain registers a sending domain; projectId may be empty for an
// org-scoped domain.
func (w *Workflows) CreateDomain(ctx context.Context, orgId, name, projectId string) error {
	if name == "" {
		return apierr.Invalid("domain", "domain is required")
	}
	d, err := w.api.CreateDomain(ctx, orgId, name, projectId)
	if err != nil {
		return w.fail("create domain", err)
	}
	w.dispatch(state.AddDomain{Domain: *d})
	return nil
}

// VerifyDomain re-runs DNS verification and refreshes the record.
func (w *Workflows) VerifyDomain(ctx context.Context, id string) error {
	d, err := w.api.VerifyDomain(ctx, id)
	if err != nil {
		return w.fail("verify domain", err)
	}
	w.dispatch(
		state.RemoveDomain{Id: d.Id},
		state.AddDomain{Domain: *d},
	)
	return nil
}

// DeleteDomain removes a sending domain. Caller confirms first.
func (w *Workflows) DeleteDomain(ctx context.Context, id string) error {
	if err := w.api.DeleteDomain(ctx, id); err != nil {
		return w.fail("delete domain", err)
	}
	w.dispatch(state.RemoveDomain{Id: id})
	w.notify.Info("domain deleted")
	return nil
}
