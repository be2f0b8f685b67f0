package cursor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-mailroom/mailroom/internal/console/route"
)

type navSpy struct {
	last route.Location
	n    int
}

func (s *navSpy) Navigate(name string, params route.Params) {
	s.last = route.Location{Name: name, Params: params}
	s.n++
}

func TestOlderPushesAndSetsBefore(t *testing.T) {
	stack, before := Older(nil, "2025-06-03T10:00:00Z")
	require.Len(t, stack, 1)
	assert.Equal(t, "2025-06-03T10:00:00Z", before)

	stack, before = Older(stack, "2025-06-02T10:00:00Z")
	require.Len(t, stack, 2)
	assert.Equal(t, "2025-06-02T10:00:00Z", before)
}

func TestNewerPopsToPreviousCursor(t *testing.T) {
	stack := Stack{"t1", "t2", "t3"}

	stack, before := Newer(stack)
	assert.Equal(t, Stack{"t1", "t2"}, stack)
	assert.Equal(t, "t2", before)

	stack, before = Newer(stack)
	assert.Equal(t, Stack{"t1"}, stack)
	assert.Equal(t, "t1", before)

	// popping the last entry returns to the cursor-less newest page
	stack, before = Newer(stack)
	assert.Empty(t, stack)
	assert.Equal(t, "", before)

	// and newer on the newest page stays there
	stack, before = Newer(stack)
	assert.Empty(t, stack)
	assert.Equal(t, "", before)
}

func TestOlderNewerRoundTrip(t *testing.T) {
	// pure-function restatement of the paging property: k older calls lead
	// to a depth-k trail, k newer calls return to the cursor-less state.
	const k = 5
	var stack Stack
	var before string
	for i := 0; i < k; i++ {
		stack, before = Older(stack, fmt.Sprintf("t%d", i))
		require.Len(t, stack, i+1)
		require.NotEmpty(t, before)
	}
	for i := k; i > 0; i-- {
		stack, before = Newer(stack)
		require.Len(t, stack, i-1)
	}
	assert.Equal(t, "", before)
}

func TestJumpResetsTrail(t *testing.T) {
	stack := Stack{"t1", "t2"}
	stack, before := Jump("2025-01-01T00:00:00Z")
	assert.Equal(t, Stack{"2025-01-01T00:00:00Z"}, stack)
	assert.Equal(t, "2025-01-01T00:00:00Z", before)
}

func TestPageProbe(t *testing.T) {
	records := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}

	page, hasMore := Page(records, 10)
	assert.True(t, hasMore)
	assert.Len(t, page, 10)
	assert.NotContains(t, page, 11) // probe record is never rendered

	page, hasMore = Page(records[:10], 10)
	assert.False(t, hasMore)
	assert.Len(t, page, 10)

	page, hasMore = Page(records[:3], 10)
	assert.False(t, hasMore)
	assert.Len(t, page, 3)
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, 10, ParseLimit(""))
	assert.Equal(t, 20, ParseLimit("20"))
	assert.Equal(t, 100, ParseLimit("100"))
	assert.Equal(t, 10, ParseLimit("37"))
	assert.Equal(t, 10, ParseLimit("bogus"))
}

func TestControllerNavigation(t *testing.T) {
	nav := &navSpy{}
	c := NewController(nav)
	loc := route.Location{Name: route.Emails, Params: route.Params{route.ParamProjectId: "prj_1"}}

	c.LoadOlder(loc, "t1")
	assert.Equal(t, 1, c.Depth())
	assert.Equal(t, "t1", nav.last.Params.Get(route.ParamBefore))

	c.LoadOlder(nav.last, "t2")
	assert.Equal(t, 2, c.Depth())
	assert.Equal(t, "t2", nav.last.Params.Get(route.ParamBefore))

	// limit change keeps the trail
	c.SetLimit(nav.last, 50)
	assert.Equal(t, 2, c.Depth())
	assert.Equal(t, "50", nav.last.Params.Get(route.ParamLimit))

	c.LoadNewer(nav.last)
	assert.Equal(t, 1, c.Depth())
	assert.Equal(t, "t1", nav.last.Params.Get(route.ParamBefore))

	c.LoadNewer(nav.last)
	assert.Equal(t, 0, c.Depth())
	assert.False(t, nav.last.Params.Has(route.ParamBefore))

	c.Refresh(nav.last)
	assert.Equal(t, route.ForceReload, nav.last.Params.Get(route.ParamForce))
	assert.Equal(t, 0, c.Depth())
}
