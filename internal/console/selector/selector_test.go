package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-mailroom/mailroom/internal/apierr"
	"github.com/go-mailroom/mailroom/internal/console/route"
	"github.com/go-mailroom/mailroom/internal/console/state"
	"github.com/go-mailroom/mailroom/internal/model"
)

type navSpy struct {
	calls []string
}

func (n *navSpy) Navigate(name string, params route.Params) {
	n.calls = append(n.calls, name)
}

func TestCurrentOrganizationAbsentParamIsNil(t *testing.T) {
	nav := &navSpy{}
	r := New(state.NewStore(), nav)

	org := r.CurrentOrganization(route.Location{Name: route.Organizations, Params: route.Params{}})
	assert.Nil(t, org)
	assert.Empty(t, nav.calls) // absent is not an error
}

func TestCurrentOrganizationResolves(t *testing.T) {
	s := state.NewStore()
	s.Dispatch(state.AddOrganization{Organization: model.Organization{Id: "org_1", Name: "Acme"}})
	nav := &navSpy{}
	r := New(s, nav)

	org := r.CurrentOrganization(route.Location{Name: route.Projects, Params: route.Params{route.ParamOrgId: "org_1"}})
	require.NotNil(t, org)
	assert.Equal(t, "Acme", org.Name)
	assert.Empty(t, nav.calls)
}

func TestCurrentOrganizationFallbackOnce(t *testing.T) {
	nav := &navSpy{}
	r := New(state.NewStore(), nav)
	loc := route.Location{Name: route.Projects, Params: route.Params{route.ParamOrgId: "org_404"}}

	assert.Nil(t, r.CurrentOrganization(loc))
	// re-renders during the fallback navigation must not redirect again
	assert.Nil(t, r.CurrentOrganization(loc))
	assert.Nil(t, r.CurrentOrganization(loc))

	require.Equal(t, []string{route.NotFound}, nav.calls)
}

func TestCurrentOrganizationFallbackGuardResets(t *testing.T) {
	s := state.NewStore()
	nav := &navSpy{}
	r := New(s, nav)
	bad := route.Location{Name: route.Projects, Params: route.Params{route.ParamOrgId: "org_404"}}

	assert.Nil(t, r.CurrentOrganization(bad))
	require.Len(t, nav.calls, 1)

	// a successful resolution re-arms the guard
	s.Dispatch(state.AddOrganization{Organization: model.Organization{Id: "org_1"}})
	good := route.Location{Name: route.Projects, Params: route.Params{route.ParamOrgId: "org_1"}}
	require.NotNil(t, r.CurrentOrganization(good))

	assert.Nil(t, r.CurrentOrganization(bad))
	assert.Len(t, nav.calls, 2)
}

func TestFallbackReArmsAfterReset(t *testing.T) {
	nav := &navSpy{}
	r := New(state.NewStore(), nav)
	bad := route.Location{Name: route.Projects, Params: route.Params{route.ParamOrgId: "org_404"}}

	assert.Nil(t, r.CurrentOrganization(bad))
	assert.Nil(t, r.CurrentOrganization(bad))
	require.Len(t, nav.calls, 1)

	// 导航提交后清除护栏,下一次导航有自己的一次兜底机会
	r.ResetFallbacks()
	assert.Nil(t, r.CurrentOrganization(bad))
	assert.Len(t, nav.calls, 2)
}

func TestCurrentProjectFallback(t *testing.T) {
	nav := &navSpy{}
	r := New(state.NewStore(), nav)

	p := r.CurrentProject(route.Location{Name: route.Emails, Params: route.Params{route.ParamProjectId: "prj_404"}})
	assert.Nil(t, p)
	assert.Equal(t, []string{route.NotFound}, nav.calls)
}

func TestLeafSelectorsReturnTypedNotFound(t *testing.T) {
	s := state.NewStore()
	s.Dispatch(state.AddEmailMetadata{Metadata: model.EmailMetadata{Id: "em_1", Subject: "hi"}})
	nav := &navSpy{}
	r := New(s, nav)

	e, err := r.CurrentEmail(route.Location{Name: route.EmailDetail, Params: route.Params{route.ParamEmailId: "em_1"}})
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "hi", e.Subject)

	_, err = r.CurrentEmail(route.Location{Name: route.EmailDetail, Params: route.Params{route.ParamEmailId: "em_404"}})
	require.Error(t, err)
	assert.True(t, apierr.IsNotFound(err))
	// leaf failures never auto-redirect
	assert.Empty(t, nav.calls)

	e, err = r.CurrentEmail(route.Location{Name: route.Emails, Params: route.Params{}})
	require.NoError(t, err)
	assert.Nil(t, e)

	_, err = r.CurrentCredential(route.Location{Name: route.Credentials, Params: route.Params{route.ParamCredId: "cred_404"}})
	require.Error(t, err)
	assert.True(t, apierr.IsNotFound(err))
}

func TestProjectEmailsSortedNewestFirst(t *testing.T) {
	s := state.NewStore()
	s.Dispatch(
		state.AddEmailMetadata{Metadata: model.EmailMetadata{Id: "a", ProjectId: "prj_1", CreatedAt: "2025-06-01T10:00:00Z"}},
		state.AddEmailMetadata{Metadata: model.EmailMetadata{Id: "b", ProjectId: "prj_1", CreatedAt: "2025-06-03T10:00:00Z"}},
		state.AddEmailMetadata{Metadata: model.EmailMetadata{Id: "c", ProjectId: "prj_2", CreatedAt: "2025-06-02T10:00:00Z"}},
	)
	r := New(s, &navSpy{})

	emails := r.ProjectEmails("prj_1")
	require.Len(t, emails, 2)
	assert.Equal(t, "b", emails[0].Id)
	assert.Equal(t, "a", emails[1].Id)
}
