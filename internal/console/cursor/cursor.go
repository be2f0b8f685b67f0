// Package cursor implements reverse-chronological list paging over a stack
// of time cursors. The backend contract is a `before` parameter holding an
// exclusive upper timestamp bound; "has more" is detected by fetching one
// record past the page limit and rendering only the limit.
//
// The state machine is a pure function from (stack, action) to (stack,
// before-parameter) so it tests independently of rendering; Controller
// binds it to router navigation.
package cursor

import (
	"strconv"

	"github.com/go-mailroom/mailroom/internal/console/route"
)

/**
 * @time: 2025/6/19
 * @file: cursor.go
 * @description: 倒序分页游标栈。older 压栈 / newer 弹栈 / 日期跳转清栈。
 */

// DefaultLimit is the page size when the limit parameter is absent.
const DefaultLimit = 10

// Limits are the accepted page sizes.
var Limits = []int{10, 20, 50, 100}

// ParseLimit parses the limit parameter, falling back to DefaultLimit for
// absent or unrecognized values.
func ParseLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return DefaultLimit
	}
	for _, l := range Limits {
		if n == l {
			return l
		}
	}
	return DefaultLimit
}

// Stack is the trail of before-cursors for the pages visited by LoadOlder.
// The top entry is the cursor of the page currently shown; an empty stack
// means the newest (cursor-less) page.
type Stack []string

// Older pushes the timestamp of the oldest rendered record and returns the
// before parameter for the next older page.
func Older(s Stack, oldestRendered string) (Stack, string) {
	next := make(Stack, len(s), len(s)+1)
	copy(next, s)
	next = append(next, oldestRendered)
	return next, oldestRendered
}

// Newer pops the stack. The new top is the before parameter of the page one
// step newer; an emptied stack returns to the cursor-less newest page, with
// the before parameter cleared ("").
func Newer(s Stack) (Stack, string) {
	if len(s) <= 1 {
		return Stack{}, ""
	}
	next := make(Stack, len(s)-1)
	copy(next, s[:len(s)-1])
	return next, next[len(next)-1]
}

// Jump resets the trail and sets before directly to the chosen instant
// (explicit date picker). Paging newer from a jumped-to position goes
// straight back to the newest page.
func Jump(instant string) (Stack, string) {
	return Stack{instant}, instant
}

// Page splits a limit+1 probe fetch into the rendered page and the has-more
// flag. The extra record only confirms that older data exists; it is never
// rendered.
func Page[T any](records []T, limit int) ([]T, bool) {
	if len(records) > limit {
		return records[:limit], true
	}
	return records, false
}

// Controller binds the cursor stack to router navigation on the email list
// route. Changing the limit re-requests with the same trail; refresh
// re-issues the fetch for the current cursor state via the one-shot force
// parameter.
type Controller struct {
	nav   route.Navigator
	stack Stack
}

// NewController builds a controller over the navigator.
func NewController(nav route.Navigator) *Controller {
	return &Controller{nav: nav}
}

// Depth returns the number of older-pages on the trail.
func (c *Controller) Depth() int {
	return len(c.stack)
}

// LoadOlder navigates to the next older page. oldestRendered is the
// created_at of the last rendered record of the current page.
func (c *Controller) LoadOlder(loc route.Location, oldestRendered string) {
	stack, before := Older(c.stack, oldestRendered)
	c.stack = stack
	c.nav.Navigate(loc.Name, loc.Params.With(route.ParamBefore, before))
}

// LoadNewer navigates one page back toward the newest page.
func (c *Controller) LoadNewer(loc route.Location) {
	stack, before := Newer(c.stack)
	c.stack = stack
	c.nav.Navigate(loc.Name, loc.Params.With(route.ParamBefore, before))
}

// JumpTo resets the trail to the chosen instant.
func (c *Controller) JumpTo(loc route.Location, instant string) {
	stack, before := Jump(instant)
	c.stack = stack
	c.nav.Navigate(loc.Name, loc.Params.With(route.ParamBefore, before))
}

// SetLimit changes the page size without resetting the trail.
func (c *Controller) SetLimit(loc route.Location, limit int) {
	c.nav.Navigate(loc.Name, loc.Params.With(route.ParamLimit, strconv.Itoa(limit)))
}

// Refresh re-issues the fetch for the current cursor state.
func (c *Controller) Refresh(loc route.Location) {
	c.nav.Navigate(loc.Name, loc.Params.With(route.ParamForce, route.ForceReload))
}

// Reset drops the trail, e.g. when switching projects.
func (c *Controller) Reset() {
	c.stack = nil
}
