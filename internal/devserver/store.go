package devserver

import (
	"sort"
	"strings"
	"sync"

	"github.com/go-mailroom/mailroom/internal/model"
)

/**
 * @time: 2025/6/23
 * @file: store.go
 * @description: 开发服务器的内存态。单互斥锁守护全部实体表。
 */

// account 带口令散列的用户记录，散列永不出网
type account struct {
	model.User
	PasswordHash []byte
}

// credentialRec pairs the credential with its bcrypt hash. The
// cleartext travels in the create response exactly once and is never stored.
type credentialRec struct {
	model.SmtpCredential
	Hash []byte
}

type apiKeyRec struct {
	model.ApiKey
	Hash []byte
}

// memory 全部实体表。开发服务器不做持久化，进程退出即丢。
type memory struct {
	mu sync.Mutex

	users       map[string]*account
	orgs        map[string]model.Organization
	members     map[model.MemberKey]model.Member
	invites     map[string]model.Invite
	projects    map[string]model.Project
	streams     map[string]model.Stream
	domains     map[string]model.Domain
	credentials map[string]credentialRec
	apiKeys     map[string]apiKeyRec
	emails      map[string]model.Email

	config model.RuntimeConfig
}

func newMemory() *memory {
	return &memory{
		users:       make(map[string]*account),
		orgs:        make(map[string]model.Organization),
		members:     make(map[model.MemberKey]model.Member),
		invites:     make(map[string]model.Invite),
		projects:    make(map[string]model.Project),
		streams:     make(map[string]model.Stream),
		domains:     make(map[string]model.Domain),
		credentials: make(map[string]credentialRec),
		apiKeys:     make(map[string]apiKeyRec),
		emails:      make(map[string]model.Email),
		config: model.RuntimeConfig{
			SystemEmail:    "noreply@mailroom.local",
			SignupsEnabled: true,
		},
	}
}

// orgNameTaken reports whether another organization already uses the name.
// Callers hold mu.
func (m *memory) orgNameTaken(name, exceptId string) bool {
	for _, o := range m.orgs {
		if o.Id != exceptId && strings.EqualFold(o.Name, name) {
			return true
		}
	}
	return false
}

// projectNameTaken 项目名在组织内唯一。Callers hold mu.
func (m *memory) projectNameTaken(orgId, name, exceptId string) bool {
	for _, p := range m.projects {
		if p.OrgId == orgId && p.Id != exceptId && strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

// domainTaken 域名在组织内唯一。Callers hold mu.
func (m *memory) domainTaken(orgId, name string) bool {
	for _, d := range m.domains {
		if d.OrgId == orgId && strings.EqualFold(d.Name, name) {
			return true
		}
	}
	return false
}

// dropOrg cascades the delete through every org-scoped table. Callers hold mu.
func (m *memory) dropOrg(orgId string) {
	for k := range m.members {
		if k.OrgId == orgId {
			delete(m.members, k)
		}
	}
	for id, inv := range m.invites {
		if inv.OrgId == orgId {
			delete(m.invites, id)
		}
	}
	for id, d := range m.domains {
		if d.OrgId == orgId {
			delete(m.domains, id)
		}
	}
	for id, k := range m.apiKeys {
		if k.OrgId == orgId {
			delete(m.apiKeys, id)
		}
	}
	for id, p := range m.projects {
		if p.OrgId == orgId {
			m.dropProject(id)
		}
	}
}

// dropProject removes a project with its streams and emails. Callers hold mu.
func (m *memory) dropProject(projectId string) {
	delete(m.projects, projectId)
	for id, s := range m.streams {
		if s.ProjectId == projectId {
			m.dropStream(id)
		}
	}
	for id, e := range m.emails {
		if e.ProjectId == projectId {
			delete(m.emails, id)
		}
	}
}

// dropStream removes a stream and its credentials. Callers hold mu.
func (m *memory) dropStream(streamId string) {
	delete(m.streams, streamId)
	for id, c := range m.credentials {
		if c.StreamId == streamId {
			delete(m.credentials, id)
		}
	}
}

// byCreated sorts any created_at carrying slice oldest-first with a stable
// id tie-break, so list responses are deterministic across requests.
func byCreated[T any](items []T, createdAt func(T) string, id func(T) string) {
	sort.Slice(items, func(i, j int) bool {
		ci, cj := createdAt(items[i]), createdAt(items[j])
		if ci != cj {
			return ci < cj
		}
		return id(items[i]) < id(items[j])
	})
}
