package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigateSetsPendingImmediately(t *testing.T) {
	r := NewRouter(Location{Name: Organizations})

	r.Navigate(Emails, Params{ParamOrgId: "org_1", ParamProjectId: "prj_1"})

	require.NotNil(t, r.Pending())
	assert.Equal(t, Emails, r.Pending().Name)
	// current is untouched until the transition completes
	assert.Equal(t, Organizations, r.Current().Name)
	// consumers render against the destination
	assert.Equal(t, "prj_1", r.Active().Params.Get(ParamProjectId))
}

func TestCommitPromotesPending(t *testing.T) {
	r := NewRouter(Location{Name: Organizations})
	r.Navigate(Projects, Params{ParamOrgId: "org_1"})

	r.Commit()

	assert.Nil(t, r.Pending())
	assert.Equal(t, Projects, r.Current().Name)
	assert.Equal(t, "org_1", r.Current().Params.Get(ParamOrgId))
	assert.Equal(t, Projects, r.Active().Name)
}

func TestNavigateSupersedesPending(t *testing.T) {
	r := NewRouter(Location{Name: Organizations})
	r.Navigate(Projects, Params{ParamOrgId: "org_1"})
	r.Navigate(Emails, Params{ParamOrgId: "org_2", ParamProjectId: "prj_9"})

	require.NotNil(t, r.Pending())
	assert.Equal(t, Emails, r.Pending().Name)
	assert.Equal(t, "org_2", r.Active().Params.Get(ParamOrgId))
}

func TestForceParamIsOneShot(t *testing.T) {
	r := NewRouter(Location{Name: Emails, Params: Params{ParamProjectId: "prj_1"}})
	r.Navigate(Emails, Params{ParamProjectId: "prj_1", ParamForce: ForceReload})

	assert.Equal(t, ForceReload, r.Active().Params.Get(ParamForce))

	r.Commit()
	// the signal must not persist into the committed state
	assert.False(t, r.Current().Params.Has(ParamForce))
}

func TestCommitWithoutPendingIsNoop(t *testing.T) {
	r := NewRouter(Location{Name: Settings, Params: Params{ParamOrgId: "org_1"}})
	r.Commit()
	assert.Equal(t, Settings, r.Current().Name)
	assert.Equal(t, "org_1", r.Current().Params.Get(ParamOrgId))
}

func TestParamsWithWithout(t *testing.T) {
	p := Params{ParamOrgId: "org_1"}

	q := p.With(ParamBefore, "2025-06-01T00:00:00Z")
	assert.False(t, p.Has(ParamBefore)) // original untouched
	assert.True(t, q.Has(ParamBefore))

	assert.False(t, q.With(ParamBefore, "").Has(ParamBefore))
	assert.False(t, q.Without(ParamBefore).Has(ParamBefore))
}
