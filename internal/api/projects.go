package api

import (
	"context"
	"fmt"

	"github.com/go-mailroom/mailroom/internal/model"
)

/**
 * @time: 2025/6/20
 * @file: projects.go
 * @description: 项目、消息流、域名接口
 */

// ListProjects fetches the projects of an organization.
func (c *Client) ListProjects(ctx context.Context, orgId string) ([]model.Project, error) {
	var out []model.Project
	resp, err := c.r(ctx).SetResult(&out).Get(fmt.Sprintf("/api/v1/organizations/%s/projects", orgId))
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProject creates a project; 409 when the name is taken inside the
// organization.
func (c *Client) CreateProject(ctx context.Context, orgId, name string, retentionDays int) (*model.Project, error) {
	var out model.Project
	resp, err := c.r(ctx).
		SetBody(map[string]any{"name": name, "retention_period_days": retentionDays}).
		SetResult(&out).
		Post(fmt.Sprintf("/api/v1/organizations/%s/projects", orgId))
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProject updates name and retention of a project.
func (c *Client) UpdateProject(ctx context.Context, id, name string, retentionDays int) (*model.Project, error) {
	var out model.Project
	resp, err := c.r(ctx).
		SetBody(map[string]any{"name": name, "retention_period_days": retentionDays}).
		SetResult(&out).
		Patch(fmt.Sprintf("/api/v1/projects/%s", id))
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProject removes a project and its streams.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	resp, err := c.r(ctx).Delete(fmt.Sprintf("/api/v1/projects/%s", id))
	return checkResp(resp, err)
}

// ListStreams fetches the message streams of a project.
func (c *Client) ListStreams(ctx context.Context, projectId string) ([]model.Stream, error) {
	var out []model.Stream
	resp, err := c.r(ctx).SetResult(&out).Get(fmt.Sprintf("/api/v1/projects/%s/streams", projectId))
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateStream adds a message stream to a project.
func (c *Client) CreateStream(ctx context.Context, projectId string) (*model.Stream, error) {
	var out model.Stream
	resp, err := c.r(ctx).SetResult(&out).Post(fmt.Sprintf("/api/v1/projects/%s/streams", projectId))
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteStream removes a message stream.
func (c *Client) DeleteStream(ctx context.Context, id string) error {
	resp, err := c.r(ctx).Delete(fmt.Sprintf("/api/v1/streams/%s", id))
	return checkResp(resp, err)
}

// ListDomains fetches the sending domains of an organization, both
// org-scoped and project-scoped.
func (c *Client) ListDomains(ctx context.Context, orgId string) ([]model.Domain, error) {
	var out []model.Domain
	resp, err := c.r(ctx).SetResult(&out).Get(fmt.Sprintf("/api/v1/organizations/%s/domains", orgId))
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateDomain registers a sending domain; projectId may be empty for an
// org-scoped domain. 409 when the domain is already registered.
func (c *Client) CreateDomain(ctx context.Context, orgId, name, projectId string) (*model.Domain, error) {
	var out model.Domain
	body := map[string]string{"domain": name}
	if projectId != "" {
		body["project_id"] = projectId
	}
	resp, err := c.r(ctx).
		SetBody(body).
		SetResult(&out).
		Post(fmt.Sprintf("/api/v1/organizations/%s/domains", orgId))
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyDomain re-runs DNS verification and returns the refreshed record.
func (c *Client) VerifyDomain(ctx context.Context, id string) (*model.Domain, error) {
	var out model.Domain
	resp, err := c.r(ctx).SetResult(&out).Put(fmt.Sprintf("/api/v1/domains/%s/verify", id))
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDomain removes a sending domain.
func (c *Client) DeleteDomain(ctx context.Context, id string) error {
	resp, err := c.r(ctx).Delete(fmt.Sprintf("/api/v1/domains/%s", id))
	return checkResp(resp, err)
}
