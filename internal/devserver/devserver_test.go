package devserver

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-mailroom/mailroom/internal/model"
)

type harness struct {
	t     *testing.T
	srv   *Server
	token string
	seed  SeedInfo
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	srv := New(opts...)
	seed := srv.Seed()

	h := &harness{t: t, srv: srv, seed: seed}
	var out struct {
		Token string `json:"token"`
	}
	resp := h.do(http.MethodPost, "/api/v1/session",
		map[string]string{"email": seed.Email, "password": seed.Password}, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, out.Token)
	h.token = out.Token
	return h
}

// do issues an in-process request, decoding the JSON response into out when
// out is non-nil.
func (h *harness) do(method, path string, body, out any) *http.Response {
	h.t.Helper()

	var rd io.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		require.NoError(h.t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.srv.App().Test(req, -1)
	require.NoError(h.t, err)
	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(h.t, err)
		require.NoError(h.t, sonic.Unmarshal(raw, out), "body: %s", raw)
	}
	return resp
}

func TestLoginRejectsBadPassword(t *testing.T) {
	h := newHarness(t)
	h.token = ""
	resp := h.do(http.MethodPost, "/api/v1/session",
		map[string]string{"email": h.seed.Email, "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	h := newHarness(t)
	h.token = ""
	resp := h.do(http.MethodGet, "/api/v1/organizations", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMeCarriesOrgRoles(t *testing.T) {
	h := newHarness(t)
	var me model.User
	resp := h.do(http.MethodGet, "/api/v1/me", nil, &me)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, h.seed.Email, me.Email)
	assert.Equal(t, model.RoleOwner, me.RoleIn(h.seed.OrgId))
}

func TestCreateOrganizationConflict(t *testing.T) {
	h := newHarness(t)

	var org model.Organization
	resp := h.do(http.MethodPost, "/api/v1/organizations", map[string]string{"name": "Beta Corp"}, &org)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, org.Id)

	var envelope struct {
		Msg   string `json:"msg"`
		Field string `json:"field"`
	}
	resp = h.do(http.MethodPost, "/api/v1/organizations", map[string]string{"name": "beta corp"}, &envelope)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "name", envelope.Field)
}

func TestCredentialSecretIsWriteOnce(t *testing.T) {
	h := newHarness(t)

	var streams []model.Stream
	var projects []model.Project
	h.do(http.MethodGet, fmt.Sprintf("/api/v1/organizations/%s/projects", h.seed.OrgId), nil, &projects)
	require.NotEmpty(t, projects)
	h.do(http.MethodGet, fmt.Sprintf("/api/v1/projects/%s/streams", projects[0].Id), nil, &streams)
	require.NotEmpty(t, streams)

	var created model.SmtpCredential
	resp := h.do(http.MethodPost, fmt.Sprintf("/api/v1/streams/%s/credentials", streams[0].Id),
		map[string]string{"description": "ci relay"}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, created.Password)

	var listed []model.SmtpCredential
	h.do(http.MethodGet, fmt.Sprintf("/api/v1/streams/%s/credentials", streams[0].Id), nil, &listed)
	require.Len(t, listed, 1)
	assert.Empty(t, listed[0].Password)
}

func TestListEmailsCursorAndFilters(t *testing.T) {
	h := newHarness(t)

	var projects []model.Project
	h.do(http.MethodGet, fmt.Sprintf("/api/v1/organizations/%s/projects", h.seed.OrgId), nil, &projects)
	require.NotEmpty(t, projects)
	base := fmt.Sprintf("/api/v1/projects/%s/emails", projects[0].Id)

	var page []model.EmailMetadata
	resp := h.do(http.MethodGet, base+"?limit=11", nil, &page)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, page, 11)
	for i := 1; i < len(page); i++ {
		assert.True(t, page[i-1].CreatedAt > page[i].CreatedAt, "newest first")
	}

	// before 是排他上界：下一页从更老的记录开始
	var next []model.EmailMetadata
	h.do(http.MethodGet, base+"?limit=11&before="+page[len(page)-1].CreatedAt, nil, &next)
	require.NotEmpty(t, next)
	assert.True(t, next[0].CreatedAt < page[len(page)-1].CreatedAt)

	var failed []model.EmailMetadata
	h.do(http.MethodGet, base+"?status=failed", nil, &failed)
	require.NotEmpty(t, failed)
	for _, e := range failed {
		assert.Equal(t, model.EmailStatusFailed, e.Status)
	}

	var labeled []model.EmailMetadata
	h.do(http.MethodGet, base+"?labels=billing,onboarding", nil, &labeled)
	require.NotEmpty(t, labeled)
	for _, e := range labeled {
		assert.True(t, anyLabel(e.Labels, []string{"billing", "onboarding"}))
	}
}

func TestRetryCompletesDelivery(t *testing.T) {
	h := newHarness(t, WithRetryDelay(10*time.Millisecond))

	var projects []model.Project
	h.do(http.MethodGet, fmt.Sprintf("/api/v1/organizations/%s/projects", h.seed.OrgId), nil, &projects)
	var failed []model.EmailMetadata
	h.do(http.MethodGet, fmt.Sprintf("/api/v1/projects/%s/emails?status=failed", projects[0].Id), nil, &failed)
	require.NotEmpty(t, failed)
	target := failed[0]

	resp := h.do(http.MethodPut, fmt.Sprintf("/api/v1/emails/%s/retry", target.Id), nil, nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var mid model.Email
	h.do(http.MethodGet, "/api/v1/emails/"+target.Id, nil, &mid)
	assert.Equal(t, model.EmailStatusQueued, mid.Status)

	require.Eventually(t, func() bool {
		var e model.Email
		h.do(http.MethodGet, "/api/v1/emails/"+target.Id, nil, &e)
		return e.Status == model.EmailStatusSent
	}, time.Second, 10*time.Millisecond)

	var done model.Email
	h.do(http.MethodGet, "/api/v1/emails/"+target.Id, nil, &done)
	assert.Equal(t, target.Attempts+1, done.Attempts)
	assert.Empty(t, done.NextAttempt)
	assert.NotEmpty(t, done.SentAt)
}

func TestRetryNonFailedConflicts(t *testing.T) {
	h := newHarness(t)

	var projects []model.Project
	h.do(http.MethodGet, fmt.Sprintf("/api/v1/organizations/%s/projects", h.seed.OrgId), nil, &projects)
	var sent []model.EmailMetadata
	h.do(http.MethodGet, fmt.Sprintf("/api/v1/projects/%s/emails?status=sent", projects[0].Id), nil, &sent)
	require.NotEmpty(t, sent)

	resp := h.do(http.MethodPut, fmt.Sprintf("/api/v1/emails/%s/retry", sent[0].Id), nil, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestDeleteOrganizationCascades(t *testing.T) {
	h := newHarness(t)

	resp := h.do(http.MethodDelete, "/api/v1/organizations/"+h.seed.OrgId, nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var orgs []model.Organization
	h.do(http.MethodGet, "/api/v1/organizations", nil, &orgs)
	assert.Empty(t, orgs)

	resp = h.do(http.MethodGet, fmt.Sprintf("/api/v1/organizations/%s/projects", h.seed.OrgId), nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMemberCannotManage(t *testing.T) {
	h := newHarness(t)

	// 以普通成员身份登录
	var out struct {
		Token string `json:"token"`
	}
	h.token = ""
	resp := h.do(http.MethodPost, "/api/v1/session",
		map[string]string{"email": "sam@mailroom.local", "password": h.seed.Password}, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	h.token = out.Token

	resp = h.do(http.MethodPost, fmt.Sprintf("/api/v1/organizations/%s/projects", h.seed.OrgId),
		map[string]any{"name": "Sneaky", "retention_period_days": 7}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
