package workflow

import (
	"context"

	"github.com/go-mailroom/mailroom/internal/apierr"
	"github.com/go-mailroom/mailroom/internal/console/route"
	"github.com/go-mailroom/mailroom/internal/console/state"
	"github.com/go-mailroom/mailroom/internal/model"
)

/**
 * @time: 2025/6/23
 * @file: organizations.go
 * @description: 组织、成员、邀请工作流
 */

// CreateOrganization creates an organization and navigates into it.
func (w *Workflows) CreateOrganization(ctx context.Context, name string) error {
	if err := requireName(name); err != nil {
		return err
	}
	org, err := w.api.CreateOrganization(ctx, name)
	if err != nil {
		return w.fail("create organization", err)
	}
	w.dispatch(state.AddOrganization{Organization: *org})
	w.nav.Navigate(route.Projects, route.Params{route.ParamOrgId: org.Id})
	return nil
}

// RenameOrganization renames an organization in place.
func (w *Workflows) RenameOrganization(ctx context.Context, id, name string) error {
	if err := requireName(name); err != nil {
		return err
	}
	org, err := w.api.UpdateOrganization(ctx, id, name)
	if err != nil {
		return w.fail("rename organization", err)
	}
	w.dispatch(
		state.RemoveOrganization{Id: org.Id},
		state.AddOrganization{Organization: *org},
	)
	return nil
}

// DeleteOrganization removes the organization, evicts its record, and
// returns to the organization list. Caller confirms first.
func (w *Workflows) DeleteOrganization(ctx context.Context, id string) error {
	if err := w.api.DeleteOrganization(ctx, id); err != nil {
		return w.fail("delete organization", err)
	}
	w.dispatch(state.RemoveOrganization{Id: id})
	w.nav.Navigate(route.Organizations, route.Params{})
	w.notify.Info("organization deleted")
	return nil
}

// SetMemberRole changes a member's role inside an organization.
func (w *Workflows) SetMemberRole(ctx context.Context, orgId, userId string, role model.Role) error {
	mem, err := w.api.SetMemberRole(ctx, orgId, userId, role)
	if err != nil {
		return w.fail("change member role", err)
	}
	w.dispatch(state.SetMemberRole{Key: mem.Key(), Role: mem.Role})
	return nil
}

// RemoveMember removes a member from the organization. Caller confirms
// first.
func (w *Workflows) RemoveMember(ctx context.Context, orgId, userId string) error {
	if err := w.api.RemoveMember(ctx, orgId, userId); err != nil {
		return w.fail("remove member", err)
	}
	w.dispatch(state.RemoveMember{Key: model.MemberKey{UserId: userId, OrgId: orgId}})
	w.notify.Info("member removed")
	return nil
}

// LeaveOrganization removes the current user's own membership, evicts the
// now inaccessible organization, and falls back to the organization list.
// Caller confirms first.
func (w *Workflows) LeaveOrganization(ctx context.Context, orgId, selfUserId string) error {
	if err := w.api.RemoveMember(ctx, orgId, selfUserId); err != nil {
		return w.fail("leave organization", err)
	}
	w.dispatch(
		state.RemoveMember{Key: model.MemberKey{UserId: selfUserId, OrgId: orgId}},
		state.RemoveOrganization{Id: orgId},
	)
	w.nav.Navigate(route.Organizations, route.Params{route.ParamForce: route.ForceReloadOrgs})
	w.notify.Info("left organization")
	return nil
}

// CreateInvite opens an invite for the given role.
func (w *Workflows) CreateInvite(ctx context.Context, orgId string, role model.Role) error {
	inv, err := w.api.CreateInvite(ctx, orgId, role)
	if err != nil {
		return w.fail("create invite", err)
	}
	w.dispatch(state.AddInvite{Invite: *inv})
	w.notify.Info("invite created")
	return nil
}

// DeleteInvite revokes an open invite. Caller confirms first.
func (w *Workflows) DeleteInvite(ctx context.Context, id string) error {
	if err := w.api.DeleteInvite(ctx, id); err != nil {
		return w.fail("revoke invite", err)
	}
	w.dispatch(state.RemoveInvite{Id: id})
	w.notify.Info("invite revoked")
	return nil
}

// ResolveInvite looks up an invite needed to render at all. A 404 is fatal:
// it lands in the routed error slot and replaces the view, rather than
// showing a notification.
func (w *Workflows) ResolveInvite(ctx context.Context, id string) (*model.Invite, error) {
	inv, err := w.api.GetInvite(ctx, id)
	if err != nil {
		if apierr.IsNotFound(err) {
			w.dispatch(state.SetRoutedError{Err: apierr.NotFound("invite", id)})
			return nil, err
		}
		return nil, w.fail("load invite", err)
	}
	w.dispatch(state.AddInvite{Invite: *inv})
	return inv, nil
}
