package api

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-mailroom/mailroom/internal/model"
)

/**
 * @time: 2025/6/21
 * @file: emails.go
 * @description: 邮件记录接口。列表按 created_at 倒序，before 为
 *               排他上界；调用方请求 limit+1 条来探测是否还有更多。
 */

// EmailQuery narrows a list fetch. Zero values mean "no filter".
type EmailQuery struct {
	Before string   // exclusive upper bound on created_at, RFC3339
	Limit  int      // number of records to request (callers add the +1 probe)
	Labels []string // comma-joined on the wire
	Status []string // comma-joined on the wire
}

// ListEmails fetches a page of email metadata for a project, newest first.
func (c *Client) ListEmails(ctx context.Context, projectId string, q EmailQuery) ([]model.EmailMetadata, error) {
	req := c.r(ctx)
	if q.Before != "" {
		req.SetQueryParam("before", q.Before)
	}
	if q.Limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(q.Limit))
	}
	if len(q.Labels) > 0 {
		req.SetQueryParam("labels", strings.Join(q.Labels, ","))
	}
	if len(q.Status) > 0 {
		req.SetQueryParam("status", strings.Join(q.Status, ","))
	}

	var out []model.EmailMetadata
	resp, err := req.SetResult(&out).Get(fmt.Sprintf("/api/v1/projects/%s/emails", projectId))
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

// GetEmail fetches one full record, body included.
func (c *Client) GetEmail(ctx context.Context, id string) (*model.Email, error) {
	var out model.Email
	resp, err := c.r(ctx).SetResult(&out).Get(fmt.Sprintf("/api/v1/emails/%s", id))
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteEmail removes a record and its body.
func (c *Client) DeleteEmail(ctx context.Context, id string) error {
	resp, err := c.r(ctx).Delete(fmt.Sprintf("/api/v1/emails/%s", id))
	return checkResp(resp, err)
}

// RetryEmail schedules a new delivery attempt for a failed email. The
// backend acknowledges scheduling; the authoritative status lands a moment
// later and is reconciled by a follow-up GetEmail.
func (c *Client) RetryEmail(ctx context.Context, id string) error {
	resp, err := c.r(ctx).Put(fmt.Sprintf("/api/v1/emails/%s/retry", id))
	return checkResp(resp, err)
}
