package state

import (
	"github.com/go-mailroom/mailroom/internal/apierr"
	"github.com/go-mailroom/mailroom/internal/model"
)

/**
 * @time: 2025/6/18
 * @file: message.go
 * @description: 状态更新消息。封闭联合类型：每种实体一组
 *               add/remove 变体，外加少量实体特有变体。
 */

// Message is one tagged state change. The variant set is closed: Store.Apply
// switches exhaustively and panics on an unknown variant, so a new message
// kind that misses a case fails loudly in tests rather than silently.
type Message interface {
	isMessage()
}

// AddOrganization inserts or replaces by id (last-write-wins).
type AddOrganization struct{ Organization model.Organization }

// RemoveOrganization deletes by id; a no-op when absent.
type RemoveOrganization struct{ Id string }

type AddProject struct{ Project model.Project }
type RemoveProject struct{ Id string }

type AddStream struct{ Stream model.Stream }
type RemoveStream struct{ Id string }

// AddCredential stores the credential with its write-once secret stripped;
// the cleartext password never reaches the long-lived snapshot.
type AddCredential struct{ Credential model.SmtpCredential }
type RemoveCredential struct{ Id string }

// AddApiKey stores the key with its write-once secret stripped.
type AddApiKey struct{ ApiKey model.ApiKey }
type RemoveApiKey struct{ Id string }

// SetApiKeyRole updates the role of a resident API key in place.
type SetApiKeyRole struct {
	Id   string
	Role model.Role
}

type AddDomain struct{ Domain model.Domain }
type RemoveDomain struct{ Id string }

type AddInvite struct{ Invite model.Invite }
type RemoveInvite struct{ Id string }

type AddMember struct{ Member model.Member }
type RemoveMember struct{ Key model.MemberKey }

// SetMemberRole updates the role of a resident membership in place.
type SetMemberRole struct {
	Key  model.MemberKey
	Role model.Role
}

// AddEmailMetadata inserts the lightweight list form. A resident full
// record with the same id keeps its body fields; only the metadata is
// replaced, so list position and detail state survive a list refresh.
type AddEmailMetadata struct{ Metadata model.EmailMetadata }

// AddEmail inserts or upgrades to the full record (same id).
type AddEmail struct{ Email model.Email }

type RemoveEmail struct{ Id string }

// UpdateEmail shallow-merges the patch into the matching record; a no-op
// when the id is not resident.
type UpdateEmail struct {
	Id    string
	Patch model.EmailPatch
}

// SetUser replaces the authenticated user profile.
type SetUser struct{ User model.User }

// SetRuntimeConfig replaces the global runtime configuration.
type SetRuntimeConfig struct{ Config model.RuntimeConfig }

// SetRoutedError places a fatal routed error; the UI replaces the rendered
// view with an error page while it is set.
type SetRoutedError struct{ Err *apierr.Error }

// ClearRoutedError clears the fatal error slot.
type ClearRoutedError struct{}

func (AddOrganization) isMessage()    {}
func (RemoveOrganization) isMessage() {}
func (AddProject) isMessage()         {}
func (RemoveProject) isMessage()      {}
func (AddStream) isMessage()          {}
func (RemoveStream) isMessage()       {}
func (AddCredential) isMessage()      {}
func (RemoveCredential) isMessage()   {}
func (AddApiKey) isMessage()          {}
func (RemoveApiKey) isMessage()       {}
func (SetApiKeyRole) isMessage()      {}
func (AddDomain) isMessage()          {}
func (RemoveDomain) isMessage()       {}
func (AddInvite) isMessage()          {}
func (RemoveInvite) isMessage()       {}
func (AddMember) isMessage()          {}
func (RemoveMember) isMessage()       {}
func (SetMemberRole) isMessage()      {}
func (AddEmailMetadata) isMessage()   {}
func (AddEmail) isMessage()           {}
func (RemoveEmail) isMessage()        {}
func (UpdateEmail) isMessage()        {}
func (SetUser) isMessage()            {}
func (SetRuntimeConfig) isMessage()   {}
func (SetRoutedError) isMessage()     {}
func (ClearRoutedError) isMessage()   {}
