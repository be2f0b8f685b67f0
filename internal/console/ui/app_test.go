package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-mailroom/mailroom/internal/api"
	"github.com/go-mailroom/mailroom/internal/console/cursor"
	"github.com/go-mailroom/mailroom/internal/console/route"
	"github.com/go-mailroom/mailroom/internal/console/selector"
	"github.com/go-mailroom/mailroom/internal/console/state"
	"github.com/go-mailroom/mailroom/internal/console/workflow"
	"github.com/go-mailroom/mailroom/internal/model"
)

func newTestApp() *App {
	store := state.NewStore()
	router := route.NewRouter(route.Location{Name: route.Organizations})
	loop := NewLoop()
	res := selector.New(store, loop)
	wf := workflow.New(api.NewClient("http://127.0.0.1:0", ""), loop.Dispatch, loop, loop)
	pager := cursor.NewController(loop)

	a := NewApp(store, router, res, wf, pager, loop)
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return a
}

func TestLoopBuffersUntilSenderAttached(t *testing.T) {
	l := NewLoop()
	l.Info("early")
	l.Dispatch(state.SetUser{User: model.User{Id: "usr_1"}})

	var got []tea.Msg
	l.SetSender(func(m tea.Msg) { got = append(got, m) })
	require.Len(t, got, 2)
	assert.IsType(t, noticeMsg{}, got[0])
	assert.IsType(t, dispatchMsg{}, got[1])

	l.Error("late")
	require.Len(t, got, 3)
}

func TestDispatchMsgAppliesToStoreAndTable(t *testing.T) {
	a := newTestApp()

	a.Update(dispatchMsg{msgs: []state.Message{
		state.AddOrganization{Organization: model.Organization{Id: "org_1", Name: "Acme"}},
		state.AddOrganization{Organization: model.Organization{Id: "org_2", Name: "Beta"}},
	}})

	require.Len(t, a.store.Organizations, 2)
	require.Len(t, a.rowIds, 2)
	// rows sort by name
	assert.Equal(t, "org_1", a.rowIds[0])
	assert.Equal(t, "org_2", a.rowIds[1])
}

func TestNavigateCommitsAfterFetch(t *testing.T) {
	a := newTestApp()
	a.store.Dispatch(state.AddOrganization{Organization: model.Organization{Id: "org_1", Name: "Acme"}})

	a.Update(navigateMsg{name: route.Projects, params: route.Params{route.ParamOrgId: "org_1"}})
	require.NotNil(t, a.router.Pending())
	assert.True(t, a.loading)
	assert.Equal(t, route.Organizations, a.router.Current().Name)

	a.Update(fetchedMsg{})
	assert.Nil(t, a.router.Pending())
	assert.False(t, a.loading)
	assert.Equal(t, route.Projects, a.router.Current().Name)
}

func TestRoutedErrorRedirectsToErrorPage(t *testing.T) {
	a := newTestApp()
	a.Update(dispatchMsg{msgs: []state.Message{
		state.SetRoutedError{Err: nil},
	}})
	// nil 不触发跳转
	assert.Equal(t, route.Organizations, a.router.Current().Name)
}

func TestDeleteOpensConfirmAndCancelKeeps(t *testing.T) {
	a := newTestApp()
	a.Update(dispatchMsg{msgs: []state.Message{
		state.AddOrganization{Organization: model.Organization{Id: "org_1", Name: "Acme"}},
	}})

	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	require.NotNil(t, a.modal)
	_, isConfirm := a.modal.(*confirmModal)
	assert.True(t, isConfirm)

	// n 取消：弹窗关闭，什么都不执行
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	assert.Nil(t, a.modal)
	assert.Nil(t, cmd)
	assert.Len(t, a.store.Organizations, 1)
}

func TestNewOrgOpensForm(t *testing.T) {
	a := newTestApp()
	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	require.NotNil(t, a.modal)
	_, isForm := a.modal.(*formModal)
	assert.True(t, isForm)

	a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, a.modal)
}

func TestVisibleEmailsRespectsCursorWindow(t *testing.T) {
	a := newTestApp()
	for _, e := range []model.EmailMetadata{
		{Id: "em_1", ProjectId: "proj_1", Status: "sent", CreatedAt: "2025-06-01T00:00:00Z"},
		{Id: "em_2", ProjectId: "proj_1", Status: "failed", CreatedAt: "2025-06-02T00:00:00Z"},
		{Id: "em_3", ProjectId: "proj_1", Status: "sent", CreatedAt: "2025-06-03T00:00:00Z"},
		{Id: "em_4", ProjectId: "proj_2", Status: "sent", CreatedAt: "2025-06-04T00:00:00Z"},
	} {
		a.store.Dispatch(state.AddEmailMetadata{Metadata: e})
	}

	loc := route.Location{Name: route.Emails, Params: route.Params{route.ParamProjectId: "proj_1"}}
	emails := a.visibleEmails(loc)
	require.Len(t, emails, 3)
	assert.Equal(t, "em_3", emails[0].Id)

	// before 是排他上界
	loc.Params = loc.Params.With(route.ParamBefore, "2025-06-03T00:00:00Z")
	emails = a.visibleEmails(loc)
	require.Len(t, emails, 2)
	assert.Equal(t, "em_2", emails[0].Id)

	loc.Params = loc.Params.Without(route.ParamBefore).With(route.ParamStatus, "failed")
	emails = a.visibleEmails(loc)
	require.Len(t, emails, 1)
	assert.Equal(t, "em_2", emails[0].Id)
}

func TestPagerTrailResetsOnProjectSwitch(t *testing.T) {
	a := newTestApp()
	locX := route.Location{Name: route.Emails, Params: route.Params{route.ParamProjectId: "proj_x"}}
	a.pager.LoadOlder(locX, "2025-06-01T10:00:00Z")
	a.pager.LoadOlder(locX, "2025-06-01T08:00:00Z")
	require.Equal(t, 2, a.pager.Depth())

	// 换项目打开邮件列表:无 before 的进入必须清空游标轨迹
	a.Update(navigateMsg{name: route.Emails, params: route.Params{route.ParamProjectId: "proj_y"}})
	assert.Equal(t, 0, a.pager.Depth())
	assert.Empty(t, a.router.Active().Params.Get(route.ParamBefore))
	a.Update(fetchedMsg{paged: true, hasMore: true})

	// 轨迹空时 h 不翻页
	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	assert.Equal(t, 0, a.pager.Depth())

	// 翻页器自身的导航带 before,轨迹保留
	locY := a.router.Current()
	a.pager.LoadOlder(locY, "2025-06-02T00:00:00Z")
	a.Update(navigateMsg{name: route.Emails, params: locY.Params.With(route.ParamBefore, "2025-06-02T00:00:00Z")})
	assert.Equal(t, 1, a.pager.Depth())
}

func TestJumpToDateKey(t *testing.T) {
	a := newTestApp()
	a.Update(navigateMsg{name: route.Emails, params: route.Params{route.ParamProjectId: "proj_1"}})
	a.Update(fetchedMsg{paged: true})

	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	form, isForm := a.modal.(*formModal)
	require.True(t, isForm)

	// 非法时间戳:提示错误,不导航
	form.fields[0].input.SetValue("yesterday")
	a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, a.modal)
	assert.Equal(t, 0, a.pager.Depth())
	require.Len(t, a.notices, 1)

	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	form = a.modal.(*formModal)
	form.fields[0].input.SetValue("2025-06-01T00:00:00Z")
	a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, a.modal)
	assert.Equal(t, 1, a.pager.Depth())
}

func TestDomainsTableShowsVerification(t *testing.T) {
	a := newTestApp()
	a.store.Dispatch(
		state.AddOrganization{Organization: model.Organization{Id: "org_1", Name: "Acme"}},
		state.AddDomain{Domain: model.Domain{
			Id: "dom_1", OrgId: "org_1", Name: "mail.acme.test",
			VerificationStatus: model.DomainVerificationVerified,
		}},
	)
	a.Update(navigateMsg{name: route.Domains, params: route.Params{route.ParamOrgId: "org_1"}})
	a.Update(fetchedMsg{})

	rows := a.table.Rows()
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0][2], model.DomainVerificationVerified)
}

func TestNextLimitCycles(t *testing.T) {
	assert.Equal(t, 20, nextLimit(10))
	assert.Equal(t, 50, nextLimit(20))
	assert.Equal(t, 10, nextLimit(100))
	assert.Equal(t, cursor.DefaultLimit, nextLimit(7))
}

func TestViewRendersWithoutPanicking(t *testing.T) {
	a := newTestApp()
	a.Update(dispatchMsg{msgs: []state.Message{
		state.AddOrganization{Organization: model.Organization{Id: "org_1", Name: "Acme"}},
		state.SetUser{User: model.User{Id: "usr_1", Email: "dev@mailroom.local"}},
	}})
	out := a.View()
	assert.Contains(t, out, "mailroom")
	assert.Contains(t, out, "Acme")
}
