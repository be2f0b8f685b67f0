package devserver

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/go-mailroom/mailroom/internal/model"
	"github.com/go-mailroom/mailroom/pkg/id"
)

/**
 * @time: 2025/6/24
 * @file: seed.go
 * @description: 演示数据。一个组织、两个成员、一个项目和一批邮件记录。
 */

// SeedInfo 播种后的登录信息，devserver 子命令打印给使用者
type SeedInfo struct {
	Email    string
	Password string
	OrgId    string
}

// Seed loads a small demo dataset and returns credentials to log in with.
func (s *Server) Seed() SeedInfo {
	const password = "mailroom"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}

	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	m := s.mem

	owner := &account{
		User: model.User{
			Id:         id.New("usr"),
			Name:       "Dev Owner",
			Email:      "dev@mailroom.local",
			GlobalRole: model.GlobalRoleAdmin,
		},
		PasswordHash: hash,
	}
	mate := &account{
		User: model.User{
			Id:         id.New("usr"),
			Name:       "Sam Teammate",
			Email:      "sam@mailroom.local",
			GlobalRole: model.GlobalRoleUser,
		},
		PasswordHash: hash,
	}
	m.users[owner.Id] = owner
	m.users[mate.Id] = mate

	org := model.Organization{
		Id:           id.New("org"),
		Name:         "Acme Mail",
		QuotaMonthly: 10000,
		QuotaUsed:    1280,
		CreatedAt:    now(),
	}
	m.orgs[org.Id] = org

	for _, mem := range []model.Member{
		{UserId: owner.Id, OrgId: org.Id, Name: owner.Name, Email: owner.Email, Role: model.RoleOwner},
		{UserId: mate.Id, OrgId: org.Id, Name: mate.Name, Email: mate.Email, Role: model.RoleMember},
	} {
		m.members[mem.Key()] = mem
	}
	owner.OrgRoles = []model.OrgRole{{OrgId: org.Id, Role: model.RoleOwner}}
	mate.OrgRoles = []model.OrgRole{{OrgId: org.Id, Role: model.RoleMember}}

	proj := model.Project{
		Id:                  id.New("proj"),
		OrgId:               org.Id,
		Name:                "Transactional",
		RetentionPeriodDays: 30,
		CreatedAt:           now(),
	}
	m.projects[proj.Id] = proj

	stream := model.Stream{Id: id.New("strm"), ProjectId: proj.Id, CreatedAt: now()}
	m.streams[stream.Id] = stream

	dom := model.Domain{
		Id:                 id.New("dom"),
		OrgId:              org.Id,
		Name:               "mail.acme.test",
		VerificationStatus: model.DomainVerificationVerified,
		CreatedAt:          now(),
	}
	m.domains[dom.Id] = dom

	inv := model.Invite{
		Id:        id.New("inv"),
		OrgId:     org.Id,
		Role:      model.RoleMember,
		CreatedBy: owner.Id,
		ExpiresAt: time.Now().UTC().Add(inviteTTL).Format(time.RFC3339),
		CreatedAt: now(),
	}
	m.invites[inv.Id] = inv

	// 三十五条邮件，够翻几页；最老的一条留成 failed 方便演示重试
	base := time.Now().UTC().Add(-35 * time.Hour)
	for i := 0; i < 35; i++ {
		created := base.Add(time.Duration(i) * time.Hour)
		e := model.Email{
			EmailMetadata: model.EmailMetadata{
				Id:         id.NewEmail(),
				ProjectId:  proj.Id,
				StreamId:   stream.Id,
				Status:     model.EmailStatusSent,
				From:       "orders@mail.acme.test",
				Recipients: []string{fmt.Sprintf("customer%d@example.com", i)},
				Subject:    fmt.Sprintf("Order confirmation #%04d", 1000+i),
				Attempts:   1,
				CreatedAt:  created.Format(time.RFC3339),
				SentAt:     created.Add(2 * time.Second).Format(time.RFC3339),
			},
			TextBody: "Thanks for your order.",
		}
		switch {
		case i%7 == 0:
			e.Status = model.EmailStatusFailed
			e.Attempts = 3
			e.SentAt = ""
			e.Labels = []string{"billing"}
		case i%5 == 0:
			e.Labels = []string{"onboarding"}
		}
		m.emails[e.Id] = e
	}

	return SeedInfo{Email: owner.Email, Password: password, OrgId: org.Id}
}
