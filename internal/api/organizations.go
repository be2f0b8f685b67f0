package api

import (
	"context"
	"fmt"

	"github.com/go-mailroom/mailroom/internal/model"
)

/**
 * @time: 2025/6/20
 * @file: organizations.go
 * @description: 组织、成员、邀请接口
 */

// ListOrganizations fetches every organization visible to the caller.
func (c *Client) ListOrganizations(ctx context.Context) ([]model.Organization, error) {
	var out []model.Organization
	resp, err := c.r(ctx).SetResult(&out).Get("/api/v1/organizations")
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateOrganization creates an organization; 409 when the name is taken.
func (c *Client) CreateOrganization(ctx context.Context, name string) (*model.Organization, error) {
	var out model.Organization
	resp, err := c.r(ctx).
		SetBody(map[string]string{"name": name}).
		SetResult(&out).
		Post("/api/v1/organizations")
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateOrganization renames an organization.
func (c *Client) UpdateOrganization(ctx context.Context, id, name string) (*model.Organization, error) {
	var out model.Organization
	resp, err := c.r(ctx).
		SetBody(map[string]string{"name": name}).
		SetResult(&out).
		Patch(fmt.Sprintf("/api/v1/organizations/%s", id))
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteOrganization removes an organization and everything under it.
func (c *Client) DeleteOrganization(ctx context.Context, id string) error {
	resp, err := c.r(ctx).Delete(fmt.Sprintf("/api/v1/organizations/%s", id))
	return checkResp(resp, err)
}

// ListMembers fetches the members of an organization.
func (c *Client) ListMembers(ctx context.Context, orgId string) ([]model.Member, error) {
	var out []model.Member
	resp, err := c.r(ctx).SetResult(&out).Get(fmt.Sprintf("/api/v1/organizations/%s/members", orgId))
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

// SetMemberRole changes a member's role.
func (c *Client) SetMemberRole(ctx context.Context, orgId, userId string, role model.Role) (*model.Member, error) {
	var out model.Member
	resp, err := c.r(ctx).
		SetBody(map[string]string{"role": string(role)}).
		SetResult(&out).
		Put(fmt.Sprintf("/api/v1/organizations/%s/members/%s", orgId, userId))
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveMember removes a member from the organization (also used to leave).
func (c *Client) RemoveMember(ctx context.Context, orgId, userId string) error {
	resp, err := c.r(ctx).Delete(fmt.Sprintf("/api/v1/organizations/%s/members/%s", orgId, userId))
	return checkResp(resp, err)
}

// ListInvites fetches the open invites of an organization.
func (c *Client) ListInvites(ctx context.Context, orgId string) ([]model.Invite, error) {
	var out []model.Invite
	resp, err := c.r(ctx).SetResult(&out).Get(fmt.Sprintf("/api/v1/organizations/%s/invites", orgId))
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateInvite opens an invite with the given role.
func (c *Client) CreateInvite(ctx context.Context, orgId string, role model.Role) (*model.Invite, error) {
	var out model.Invite
	resp, err := c.r(ctx).
		SetBody(map[string]string{"role": string(role)}).
		SetResult(&out).
		Post(fmt.Sprintf("/api/v1/organizations/%s/invites", orgId))
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetInvite resolves a single invite; 404 styled as an error for expired or
// unknown ids.
func (c *Client) GetInvite(ctx context.Context, id string) (*model.Invite, error) {
	var out model.Invite
	resp, err := c.r(ctx).SetResult(&out).Get(fmt.Sprintf("/api/v1/invites/%s", id))
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteInvite revokes an open invite.
func (c *Client) DeleteInvite(ctx context.Context, id string) error {
	resp, err := c.r(ctx).Delete(fmt.Sprintf("/api/v1/invites/%s", id))
	return checkResp(resp, err)
}
