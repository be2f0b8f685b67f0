// Package state holds the shared client-side snapshot of fetched domain
// entities. The store is mutated only through Dispatch; all mutation happens
// on the single UI goroutine, so dispatches are atomic with respect to each
// other and the new snapshot is immediately visible to every reader.
package state

import (
	"fmt"

	"github.com/go-mailroom/mailroom/internal/apierr"
	"github.com/go-mailroom/mailroom/internal/model"
)

/**
 * @time: 2025/6/18
 * @file: store.go
 * @description: 实体快照 + 消息分发
 */

// Store is the in-memory mapping of every fetched collection, keyed by
// identifier. Collections retain previously fetched pages for the session;
// nothing is garbage-collected proactively.
type Store struct {
	Organizations map[string]model.Organization
	Projects      map[string]model.Project
	Streams       map[string]model.Stream
	Credentials   map[string]model.SmtpCredential
	ApiKeys       map[string]model.ApiKey
	Domains       map[string]model.Domain
	Invites       map[string]model.Invite
	Members       map[model.MemberKey]model.Member
	Emails        map[string]model.Email

	User          *model.User
	RuntimeConfig *model.RuntimeConfig

	// RoutedError replaces the rendered view when set.
	RoutedError *apierr.Error
}

// NewStore returns an empty snapshot.
func NewStore() *Store {
	return &Store{
		Organizations: make(map[string]model.Organization),
		Projects:      make(map[string]model.Project),
		Streams:       make(map[string]model.Stream),
		Credentials:   make(map[string]model.SmtpCredential),
		ApiKeys:       make(map[string]model.ApiKey),
		Domains:       make(map[string]model.Domain),
		Invites:       make(map[string]model.Invite),
		Members:       make(map[model.MemberKey]model.Member),
		Emails:        make(map[string]model.Email),
	}
}

// Dispatch applies messages in order. Callers issuing remove-then-add pairs
// rely on that order; there is no batching or reordering.
func (s *Store) Dispatch(msgs ...Message) {
	for _, msg := range msgs {
		s.apply(msg)
	}
}

// Dispatcher is the dispatch entry point handed to workflow controllers and
// views, so they depend on the protocol rather than on the concrete store.
type Dispatcher func(msgs ...Message)

func (s *Store) apply(msg Message) {
	switch m := msg.(type) {
	case AddOrganization:
		s.Organizations[m.Organization.Id] = m.Organization
	case RemoveOrganization:
		delete(s.Organizations, m.Id)
	case AddProject:
		s.Projects[m.Project.Id] = m.Project
	case RemoveProject:
		delete(s.Projects, m.Id)
	case AddStream:
		s.Streams[m.Stream.Id] = m.Stream
	case RemoveStream:
		delete(s.Streams, m.Id)
	case AddCredential:
		// 双保险：即使调用方没剥离密钥，快照里也绝不落明文
		s.Credentials[m.Credential.Id] = m.Credential.Sanitized()
	case RemoveCredential:
		delete(s.Credentials, m.Id)
	case AddApiKey:
		s.ApiKeys[m.ApiKey.Id] = m.ApiKey.Sanitized()
	case RemoveApiKey:
		delete(s.ApiKeys, m.Id)
	case SetApiKeyRole:
		if k, ok := s.ApiKeys[m.Id]; ok {
			k.Role = m.Role
			s.ApiKeys[m.Id] = k
		}
	case AddDomain:
		s.Domains[m.Domain.Id] = m.Domain
	case RemoveDomain:
		delete(s.Domains, m.Id)
	case AddInvite:
		s.Invites[m.Invite.Id] = m.Invite
	case RemoveInvite:
		delete(s.Invites, m.Id)
	case AddMember:
		s.Members[m.Member.Key()] = m.Member
	case RemoveMember:
		delete(s.Members, m.Key)
	case SetMemberRole:
		if mem, ok := s.Members[m.Key]; ok {
			mem.Role = m.Role
			s.Members[m.Key] = mem
		}
	case AddEmailMetadata:
		e := s.Emails[m.Metadata.Id] // zero value when absent
		e.EmailMetadata = m.Metadata
		s.Emails[m.Metadata.Id] = e
	case AddEmail:
		s.Emails[m.Email.Id] = m.Email
	case RemoveEmail:
		delete(s.Emails, m.Id)
	case UpdateEmail:
		if e, ok := s.Emails[m.Id]; ok {
			m.Patch.Apply(&e)
			s.Emails[m.Id] = e
		}
	case SetUser:
		u := m.User
		s.User = &u
	case SetRuntimeConfig:
		c := m.Config
		s.RuntimeConfig = &c
	case SetRoutedError:
		s.RoutedError = m.Err
	case ClearRoutedError:
		s.RoutedError = nil
	default:
		panic(fmt.Sprintf("state: unhandled message %T", msg))
	}
}
