package api

import (
	"context"
	"fmt"

	"github.com/go-mailroom/mailroom/internal/model"
)

/**
 * @time: 2025/6/21
 * @file: credentials.go
 * @description: SMTP 凭证与 API Key 接口。创建响应含一次性明文密钥。
 */

// ListCredentials fetches the SMTP credentials of a stream. Passwords are
// never returned by list endpoints.
func (c *Client) ListCredentials(ctx context.Context, streamId string) ([]model.SmtpCredential, error) {
	var out []model.SmtpCredential
	resp, err := c.r(ctx).SetResult(&out).Get(fmt.Sprintf("/api/v1/streams/%s/credentials", streamId))
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCredential creates an SMTP credential. The response carries the
// cleartext password exactly once; callers must strip it before dispatching
// into the store.
func (c *Client) CreateCredential(ctx context.Context, streamId, description string) (*model.SmtpCredential, error) {
	var out model.SmtpCredential
	resp, err := c.r(ctx).
		SetBody(map[string]string{"description": description}).
		SetResult(&out).
		Post(fmt.Sprintf("/api/v1/streams/%s/credentials", streamId))
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCredential revokes an SMTP credential.
func (c *Client) DeleteCredential(ctx context.Context, id string) error {
	resp, err := c.r(ctx).Delete(fmt.Sprintf("/api/v1/credentials/%s", id))
	return checkResp(resp, err)
}

// ListApiKeys fetches the API keys of an organization.
func (c *Client) ListApiKeys(ctx context.Context, orgId string) ([]model.ApiKey, error) {
	var out []model.ApiKey
	resp, err := c.r(ctx).SetResult(&out).Get(fmt.Sprintf("/api/v1/organizations/%s/api_keys", orgId))
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateApiKey creates an API key; the response carries the one-time
// cleartext secret.
func (c *Client) CreateApiKey(ctx context.Context, orgId, description string, role model.Role) (*model.ApiKey, error) {
	var out model.ApiKey
	resp, err := c.r(ctx).
		SetBody(map[string]string{"description": description, "role": string(role)}).
		SetResult(&out).
		Post(fmt.Sprintf("/api/v1/organizations/%s/api_keys", orgId))
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetApiKeyRole changes the role of an API key.
func (c *Client) SetApiKeyRole(ctx context.Context, id string, role model.Role) (*model.ApiKey, error) {
	var out model.ApiKey
	resp, err := c.r(ctx).
		SetBody(map[string]string{"role": string(role)}).
		SetResult(&out).
		Put(fmt.Sprintf("/api/v1/api_keys/%s/role", id))
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteApiKey revokes an API key.
func (c *Client) DeleteApiKey(ctx context.Context, id string) error {
	resp, err := c.r(ctx).Delete(fmt.Sprintf("/api/v1/api_keys/%s", id))
	return checkResp(resp, err)
}
