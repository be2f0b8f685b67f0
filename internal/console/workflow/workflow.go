// Package workflow orchestrates mutations: validate, call the backend,
// and only on a confirmed success dispatch store updates and navigate. A
// known conflict surfaces as a field error for the open form; any other
// failure raises a transient notification and leaves the store untouched.
// Destructive workflows expect the caller to have confirmed already; a
// cancelled confirmation never reaches this package.
package workflow

import (
	"time"

	"github.com/go-mailroom/mailroom/internal/api"
	"github.com/go-mailroom/mailroom/internal/apierr"
	"github.com/go-mailroom/mailroom/internal/console/route"
	"github.com/go-mailroom/mailroom/internal/console/state"
	"github.com/go-mailroom/mailroom/pkg/log"
)

/**
 * @time: 2025/6/23
 * @file: workflow.go
 * @description: 变更编排。请求成功才派发，失败绝不动 store。
 */

// Notifier surfaces transient, dismissible global notifications.
type Notifier interface {
	Info(msg string)
	Error(msg string)
}

const defaultReconcileDelay = 2 * time.Second

// Workflows bundles the collaborators every mutation workflow needs.
type Workflows struct {
	api      *api.Client
	dispatch state.Dispatcher
	nav      route.Navigator
	notify   Notifier

	// reconcileDelay is the pause before re-fetching an email after a
	// retry is acknowledged; injectable so tests don't sleep.
	reconcileDelay time.Duration
}

// Option configures a Workflows value.
type Option func(*Workflows)

// WithReconcileDelay overrides the retry reconciliation delay.
func WithReconcileDelay(d time.Duration) Option {
	return func(w *Workflows) { w.reconcileDelay = d }
}

// New builds the workflow controllers.
func New(client *api.Client, dispatch state.Dispatcher, nav route.Navigator, notify Notifier, opts ...Option) *Workflows {
	w := &Workflows{
		api:            client,
		dispatch:       dispatch,
		nav:            nav,
		notify:         notify,
		reconcileDelay: defaultReconcileDelay,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// fail classifies a workflow failure. Conflicts pass through untouched so
// the open form can render them field-scoped; everything else becomes a
// global notification.
func (w *Workflows) fail(op string, err error) error {
	if apierr.IsConflict(err) {
		return err
	}
	log.GetLogger().Errorw("workflow failed", "op", op, "err", err)
	w.notify.Error(op + " failed")
	return err
}

// requireName is the shared synchronous client-side validation for named
// resources.
func requireName(name string) error {
	if name == "" {
		return apierr.Invalid("name", "name is required")
	}
	return nil
}
