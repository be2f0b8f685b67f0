package workflow

import (
	"context"
	"time"

	"github.com/go-mailroom/mailroom/internal/console/route"
	"github.com/go-mailroom/mailroom/internal/console/state"
	"github.com/go-mailroom/mailroom/internal/model"
	"github.com/go-mailroom/mailroom/pkg/log"
	"github.com/go-mailroom/mailroom/pkg/retry"
)

/**
 * @time: 2025/6/24
 * @file: emails.go
 * @description: 邮件删除与重试工作流。重试后做有界对账。
 */

// DeleteEmail removes an email record and returns to the list. Caller
// confirms first.
func (w *Workflows) DeleteEmail(ctx context.Context, id string, listParams route.Params) error {
	if err := w.api.DeleteEmail(ctx, id); err != nil {
		return w.fail("delete email", err)
	}
	w.dispatch(state.RemoveEmail{Id: id})
	w.nav.Navigate(route.Emails, listParams)
	w.notify.Info("email deleted")
	return nil
}

// RetryEmail schedules a new delivery attempt. The backend acknowledges
// before the scheduler has actually moved the record, so after a short
// delay the single record is re-fetched and merged into the store; the
// view then reflects the authoritative status without a manual reload.
// Reconciliation is best effort: its failure is logged, not surfaced.
func (w *Workflows) RetryEmail(ctx context.Context, id string) error {
	if err := w.api.RetryEmail(ctx, id); err != nil {
		return w.fail("retry email", err)
	}
	w.notify.Info("retry scheduled")

	timer := time.NewTimer(w.reconcileDelay)
	select {
	case <-timer.C:
	case <-ctx.Done():
		timer.Stop()
		return nil
	}

	var fetched *model.Email
	err := retry.Do(ctx, func(ctx context.Context) error {
		e, err := w.api.GetEmail(ctx, id)
		if err != nil {
			return err
		}
		fetched = e
		return nil
	}, retry.WithAttempts(3), retry.WithBackoff(retry.Fixed(w.reconcileDelay)))
	if err != nil {
		log.GetLogger().Warnw("retry reconciliation failed", "email_id", id, "err", err)
		return nil
	}

	w.dispatch(state.UpdateEmail{Id: id, Patch: model.EmailPatch{
		Status:      &fetched.Status,
		Attempts:    &fetched.Attempts,
		NextAttempt: &fetched.NextAttempt,
		SentAt:      &fetched.SentAt,
	}})
	return nil
}
