package api

import (
	"context"

	"github.com/go-mailroom/mailroom/internal/model"
)

/**
 * @time: 2025/6/21
 * @file: account.go
 * @description: 会话、当前用户与运行时配置接口
 */

// Session is the login response.
type Session struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Login exchanges credentials for a bearer token and installs it on the
// client.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var out Session
	resp, err := c.r(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&out).
		Post("/api/v1/session")
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

// Me fetches the authenticated user's profile and org roles.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var out model.User
	resp, err := c.r(ctx).SetResult(&out).Get("/api/v1/me")
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRuntimeConfig fetches the global runtime configuration.
func (c *Client) GetRuntimeConfig(ctx context.Context) (*model.RuntimeConfig, error) {
	var out model.RuntimeConfig
	resp, err := c.r(ctx).SetResult(&out).Get("/api/v1/config")
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetRuntimeConfig replaces the global runtime configuration (admin only).
func (c *Client) SetRuntimeConfig(ctx context.Context, cfg model.RuntimeConfig) (*model.RuntimeConfig, error) {
	var out model.RuntimeConfig
	resp, err := c.r(ctx).
		SetBody(cfg).
		SetResult(&out).
		Put("/api/v1/config")
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}
