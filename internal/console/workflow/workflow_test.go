package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-mailroom/mailroom/internal/api"
	"github.com/go-mailroom/mailroom/internal/apierr"
	"github.com/go-mailroom/mailroom/internal/console/route"
	"github.com/go-mailroom/mailroom/internal/console/selector"
	"github.com/go-mailroom/mailroom/internal/console/state"
	"github.com/go-mailroom/mailroom/internal/model"
)

type notifySpy struct {
	infos  []string
	errors []string
}

func (n *notifySpy) Info(msg string)  { n.infos = append(n.infos, msg) }
func (n *notifySpy) Error(msg string) { n.errors = append(n.errors, msg) }

type fixture struct {
	store  *state.Store
	router *route.Router
	notify *notifySpy
	wf     *Workflows
}

func newFixture(t *testing.T, handler http.HandlerFunc) *fixture {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := state.NewStore()
	router := route.NewRouter(route.Location{Name: route.Organizations})
	notify := &notifySpy{}
	wf := New(api.NewClient(srv.URL, "tok"), store.Dispatch, router, notify,
		WithReconcileDelay(time.Millisecond))
	return &fixture{store: store, router: router, notify: notify, wf: wf}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestCreateOrganizationDispatchesAndNavigates(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		writeJSON(w, http.StatusCreated, model.Organization{Id: "org_1", Name: "Acme"})
	})

	require.NoError(t, f.wf.CreateOrganization(context.Background(), "Acme"))

	// the new record resolves through the current-organization selector
	// against the optimistic destination
	res := selector.New(f.store, f.router)
	org := res.CurrentOrganization(f.router.Active())
	require.NotNil(t, org)
	assert.Equal(t, "Acme", org.Name)
	assert.Equal(t, route.Projects, f.router.Active().Name)
}

func TestCreateOrganizationConflictIsFieldScoped(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]any{"code": 409, "msg": "name already in use", "field": "name"})
	})

	err := f.wf.CreateOrganization(context.Background(), "Acme")
	require.Error(t, err)
	assert.True(t, apierr.IsConflict(err))
	// field errors never notify globally and never touch the store
	assert.Empty(t, f.notify.errors)
	assert.Empty(t, f.store.Organizations)
}

func TestCreateOrganizationValidatesLocally(t *testing.T) {
	called := false
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	err := f.wf.CreateOrganization(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apierr.IsConflict(err))
	assert.False(t, called, "validation failure must not hit the backend")
}

func TestDeleteCredentialSuccess(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusOK)
	})
	f.store.Dispatch(state.AddCredential{Credential: model.SmtpCredential{Id: "cred_1", StreamId: "str_1"}})
	listParams := route.Params{route.ParamOrgId: "org_1", route.ParamStreamId: "str_1"}

	require.NoError(t, f.wf.DeleteCredential(context.Background(), "cred_1", listParams))

	assert.Empty(t, f.store.Credentials)
	assert.Equal(t, route.Credentials, f.router.Active().Name)
	assert.Equal(t, "str_1", f.router.Active().Params.Get(route.ParamStreamId))
	assert.NotEmpty(t, f.notify.infos)
}

func TestDeleteCredentialFailureLeavesStore(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"code": 500, "msg": "boom"})
	})
	f.store.Dispatch(state.AddCredential{Credential: model.SmtpCredential{Id: "cred_1"}})

	err := f.wf.DeleteCredential(context.Background(), "cred_1", route.Params{})
	require.Error(t, err)

	// no dispatch, no navigation, one transient notification
	assert.Len(t, f.store.Credentials, 1)
	assert.Equal(t, route.Organizations, f.router.Active().Name)
	assert.Len(t, f.notify.errors, 1)
}

func TestRetryEmailReconciles(t *testing.T) {
	retried := false
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			retried = true
			w.WriteHeader(http.StatusOK)
		case http.MethodGet:
			writeJSON(w, http.StatusOK, model.Email{EmailMetadata: model.EmailMetadata{
				Id:          "em_1",
				Status:      model.EmailStatusQueued,
				Attempts:    2,
				NextAttempt: "2025-06-24T10:00:00Z",
			}})
		}
	})
	f.store.Dispatch(state.AddEmailMetadata{Metadata: model.EmailMetadata{
		Id: "em_1", Status: model.EmailStatusFailed, Attempts: 1, Subject: "welcome",
	}})

	// RetryEmail blocks through the reconciliation; the delay is a
	// millisecond in tests
	require.NoError(t, f.wf.RetryEmail(context.Background(), "em_1"))

	assert.True(t, retried)
	assert.Contains(t, f.notify.infos, "retry scheduled")

	e := f.store.Emails["em_1"]
	assert.Equal(t, model.EmailStatusQueued, e.Status)
	assert.Equal(t, 2, e.Attempts)
	assert.Equal(t, "2025-06-24T10:00:00Z", e.NextAttempt)
	assert.Equal(t, "welcome", e.Subject) // merge, not replace
}

func TestRetryEmailFailureDoesNotReconcile(t *testing.T) {
	gets := 0
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			gets++
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]any{"code": 500, "msg": "scheduler down"})
	})

	err := f.wf.RetryEmail(context.Background(), "em_1")
	require.Error(t, err)
	assert.Zero(t, gets)
	assert.Len(t, f.notify.errors, 1)
}

func TestFetchEmailPageProbe(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "11", r.URL.Query().Get("limit"))
		var out []model.EmailMetadata
		for i := 0; i < 11; i++ {
			out = append(out, model.EmailMetadata{
				Id:        fmt.Sprintf("em_%02d", i),
				ProjectId: "prj_1",
				CreatedAt: fmt.Sprintf("2025-06-%02dT10:00:00Z", 24-i),
			})
		}
		writeJSON(w, http.StatusOK, out)
	})

	loc := route.Location{Name: route.Emails, Params: route.Params{route.ParamProjectId: "prj_1"}}
	hasMore, err := f.wf.FetchEmailPage(context.Background(), "prj_1", loc)
	require.NoError(t, err)

	assert.True(t, hasMore)
	// exactly limit records land in the store; the probe record does not
	assert.Len(t, f.store.Emails, 10)
	assert.NotContains(t, f.store.Emails, "em_10")
}

func TestFetchEmailPageExactPage(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		var out []model.EmailMetadata
		for i := 0; i < 10; i++ {
			out = append(out, model.EmailMetadata{Id: fmt.Sprintf("em_%02d", i), ProjectId: "prj_1"})
		}
		writeJSON(w, http.StatusOK, out)
	})

	loc := route.Location{Name: route.Emails, Params: route.Params{}}
	hasMore, err := f.wf.FetchEmailPage(context.Background(), "prj_1", loc)
	require.NoError(t, err)
	assert.False(t, hasMore)
	assert.Len(t, f.store.Emails, 10)
}

func TestRefreshOrganizationsEvictsInaccessible(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []model.Organization{{Id: "org_1", Name: "Acme"}})
	})
	f.store.Dispatch(
		state.AddOrganization{Organization: model.Organization{Id: "org_1", Name: "stale"}},
		state.AddOrganization{Organization: model.Organization{Id: "org_2", Name: "gone"}},
	)

	resident := map[string]struct{}{"org_1": {}, "org_2": {}}
	require.NoError(t, f.wf.RefreshOrganizations(context.Background(), resident))

	require.Len(t, f.store.Organizations, 1)
	assert.Equal(t, "Acme", f.store.Organizations["org_1"].Name)
}

func TestResolveInviteNotFoundIsFatal(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"code": 404, "msg": "invite not found"})
	})

	_, err := f.wf.ResolveInvite(context.Background(), "inv_404")
	require.Error(t, err)

	// fatal routed error replaces the view rather than notifying
	require.NotNil(t, f.store.RoutedError)
	assert.Equal(t, http.StatusNotFound, f.store.RoutedError.Status)
	assert.Empty(t, f.notify.errors)
}
