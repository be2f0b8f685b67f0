package workflow

import (
	"context"

	"github.com/go-mailroom/mailroom/internal/console/route"
	"github.com/go-mailroom/mailroom/internal/console/state"
	"github.com/go-mailroom/mailroom/internal/model"
)

/**
 * @time: 2025/6/24
 * @file: credentials.go
 * @description: SMTP 凭证与 API Key 工作流。一次性密钥只走
 *               JustCreated，绝不入 store。
 */

// JustCreatedCredential carries the one-time cleartext secret to the reveal
// view. It lives in UI-local state only; the store holds the sanitized
// record.
type JustCreatedCredential struct {
	Credential model.SmtpCredential
	Password   string
}

// JustCreatedApiKey carries the one-time API key secret to the reveal view.
type JustCreatedApiKey struct {
	ApiKey   model.ApiKey
	Password string
}

// CreateCredential creates an SMTP credential. The sanitized record is
// dispatched; the returned value carries the cleartext password for the
// one-time reveal and must not outlive that view.
func (w *Workflows) CreateCredential(ctx context.Context, streamId, description string) (*JustCreatedCredential, error) {
	cred, err := w.api.CreateCredential(ctx, streamId, description)
	if err != nil {
		return nil, w.fail("create credential", err)
	}
	w.dispatch(state.AddCredential{Credential: cred.Sanitized()})
	return &JustCreatedCredential{Credential: cred.Sanitized(), Password: cred.Password}, nil
}

// DeleteCredential revokes a credential and returns to the credential list
// of its stream. Caller confirms first.
func (w *Workflows) DeleteCredential(ctx context.Context, id string, listParams route.Params) error {
	if err := w.api.DeleteCredential(ctx, id); err != nil {
		return w.fail("delete credential", err)
	}
	w.dispatch(state.RemoveCredential{Id: id})
	w.nav.Navigate(route.Credentials, listParams)
	w.notify.Info("credential deleted")
	return nil
}

// CreateApiKey creates an API key; the sanitized record is dispatched and
// the secret returned for the one-time reveal.
func (w *Workflows) CreateApiKey(ctx context.Context, orgId, description string, role model.Role) (*JustCreatedApiKey, error) {
	key, err := w.api.CreateApiKey(ctx, orgId, description, role)
	if err != nil {
		return nil, w.fail("create api key", err)
	}
	w.dispatch(state.AddApiKey{ApiKey: key.Sanitized()})
	return &JustCreatedApiKey{ApiKey: key.Sanitized(), Password: key.Password}, nil
}

// SetApiKeyRole changes the role of an API key.
func (w *Workflows) SetApiKeyRole(ctx context.Context, id string, role model.Role) error {
	key, err := w.api.SetApiKeyRole(ctx, id, role)
	if err != nil {
		return w.fail("change api key role", err)
	}
	w.dispatch(state.SetApiKeyRole{Id: key.Id, Role: key.Role})
	return nil
}

// DeleteApiKey revokes an API key. Caller confirms first.
func (w *Workflows) DeleteApiKey(ctx context.Context, id string) error {
	if err := w.api.DeleteApiKey(ctx, id); err != nil {
		return w.fail("delete api key", err)
	}
	w.dispatch(state.RemoveApiKey{Id: id})
	w.notify.Info("api key deleted")
	return nil
}
