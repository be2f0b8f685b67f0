// Package api is the typed client for the platform's REST backend. Dispatch
// payloads are exactly the JSON entity shapes these endpoints return; the
// client does no transformation beyond error mapping.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/go-mailroom/mailroom/internal/apierr"
)

/**
 * @time: 2025/6/20
 * @file: client.go
 * @description: REST 客户端。resty + sonic，错误统一映射到 apierr。
 */

const defaultTimeout = 15 * time.Second

// errBody is the JSON error envelope the backend returns on non-2xx.
type errBody struct {
	Code  int    `json:"code"`
	Msg   string `json:"msg"`
	Field string `json:"field,omitempty"`
}

// Client wraps a resty client configured for the backend.
type Client struct {
	rc *resty.Client
}

// NewClient builds a client for the given base URL and bearer token.
func NewClient(baseURL, token string) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(token).
		SetHeader("Accept", "application/json").
		SetTimeout(defaultTimeout).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)
	return &Client{rc: rc}
}

// SetToken replaces the bearer token after login.
func (c *Client) SetToken(token string) {
	c.rc.SetAuthToken(token)
}

func (c *Client) r(ctx context.Context) *resty.Request {
	return c.rc.R().SetContext(ctx).SetError(&errBody{})
}

// checkResp maps a non-2xx response into the client error taxonomy:
// 409 becomes a field-scoped conflict, everything else a status error.
func checkResp(resp *resty.Response, err error) error {
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	if resp.IsSuccess() {
		return nil
	}
	body, _ := resp.Error().(*errBody)
	if body == nil {
		body = &errBody{}
	}
	if resp.StatusCode() == http.StatusConflict {
		field := body.Field
		if field == "" {
			field = "name"
		}
		msg := body.Msg
		if msg == "" {
			msg = "already in use"
		}
		return apierr.Conflict(field, msg)
	}
	return apierr.Status(resp.StatusCode(), body.Msg)
}
