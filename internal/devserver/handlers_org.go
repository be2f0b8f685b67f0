package devserver

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/go-mailroom/mailroom/internal/model"
	"github.com/go-mailroom/mailroom/pkg/id"
)

/**
 * @time: 2025/6/23
 * @file: handlers_org.go
 * @description: 组织、成员、邀请
 */

const inviteTTL = 72 * time.Hour

type nameReq struct {
	Name string `json:"name"`
}

type roleReq struct {
	Role model.Role `json:"role"`
}

func (s *Server) listOrganizations(c *fiber.Ctx) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	u := s.caller(c)
	out := make([]model.Organization, 0)
	for _, o := range s.mem.orgs {
		if roleIn(u, o.Id) != "" {
			out = append(out, o)
		}
	}
	byCreated(out,
		func(o model.Organization) string { return o.CreatedAt },
		func(o model.Organization) string { return o.Id })
	return c.JSON(out)
}

func (s *Server) createOrganization(c *fiber.Ctx) error {
	var req nameReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "malformed body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return failField(c, fiber.StatusBadRequest, "name is required", "name")
	}

	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	if s.mem.orgNameTaken(req.Name, "") {
		return failField(c, fiber.StatusConflict, "organization name already in use", "name")
	}

	u := s.caller(c)
	org := model.Organization{
		Id:           id.New("org"),
		Name:         req.Name,
		QuotaMonthly: 10000,
		CreatedAt:    now(),
	}
	s.mem.orgs[org.Id] = org

	// 创建者成为 owner
	m := model.Member{UserId: u.Id, OrgId: org.Id, Name: u.Name, Email: u.Email, Role: model.RoleOwner}
	s.mem.members[m.Key()] = m
	u.OrgRoles = append(u.OrgRoles, model.OrgRole{OrgId: org.Id, Role: model.RoleOwner})

	return c.Status(fiber.StatusCreated).JSON(org)
}

func (s *Server) updateOrganization(c *fiber.Ctx) error {
	var req nameReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "malformed body")
	}
	req.Name = strings.TrimSpace(req.Name)

	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	org, ok := s.mem.orgs[c.Params("orgId")]
	if !ok {
		return notFound(c, "organization")
	}
	if !roleIn(s.caller(c), org.Id).CanManage() {
		return forbidden(c)
	}
	if req.Name == "" {
		return failField(c, fiber.StatusBadRequest, "name is required", "name")
	}
	if s.mem.orgNameTaken(req.Name, org.Id) {
		return failField(c, fiber.StatusConflict, "organization name already in use", "name")
	}

	org.Name = req.Name
	s.mem.orgs[org.Id] = org
	return c.JSON(org)
}

func (s *Server) deleteOrganization(c *fiber.Ctx) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	org, ok := s.mem.orgs[c.Params("orgId")]
	if !ok {
		return notFound(c, "organization")
	}
	if roleIn(s.caller(c), org.Id) != model.RoleOwner {
		return forbidden(c)
	}

	delete(s.mem.orgs, org.Id)
	s.mem.dropOrg(org.Id)
	for _, u := range s.mem.users {
		u.OrgRoles = dropOrgRole(u.OrgRoles, org.Id)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) listMembers(c *fiber.Ctx) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	orgId := c.Params("orgId")
	if _, ok := s.mem.orgs[orgId]; !ok {
		return notFound(c, "organization")
	}
	if roleIn(s.caller(c), orgId) == "" {
		return forbidden(c)
	}

	out := make([]model.Member, 0)
	for _, m := range s.mem.members {
		if m.OrgId == orgId {
			out = append(out, m)
		}
	}
	byCreated(out,
		func(m model.Member) string { return m.Email },
		func(m model.Member) string { return m.UserId })
	return c.JSON(out)
}

func (s *Server) setMemberRole(c *fiber.Ctx) error {
	var req roleReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "malformed body")
	}

	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	key := model.MemberKey{UserId: c.Params("userId"), OrgId: c.Params("orgId")}
	m, ok := s.mem.members[key]
	if !ok {
		return notFound(c, "member")
	}
	if !roleIn(s.caller(c), key.OrgId).CanManage() {
		return forbidden(c)
	}

	m.Role = req.Role
	s.mem.members[key] = m
	if u, ok := s.mem.users[key.UserId]; ok {
		u.OrgRoles = setOrgRole(u.OrgRoles, key.OrgId, req.Role)
	}
	return c.JSON(m)
}

func (s *Server) removeMember(c *fiber.Ctx) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	key := model.MemberKey{UserId: c.Params("userId"), OrgId: c.Params("orgId")}
	if _, ok := s.mem.members[key]; !ok {
		return notFound(c, "member")
	}
	// 成员可自行退出，其余情况需要管理权限
	u := s.caller(c)
	if u.Id != key.UserId && !roleIn(u, key.OrgId).CanManage() {
		return forbidden(c)
	}

	delete(s.mem.members, key)
	if target, ok := s.mem.users[key.UserId]; ok {
		target.OrgRoles = dropOrgRole(target.OrgRoles, key.OrgId)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) listInvites(c *fiber.Ctx) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	orgId := c.Params("orgId")
	if _, ok := s.mem.orgs[orgId]; !ok {
		return notFound(c, "organization")
	}
	if !roleIn(s.caller(c), orgId).CanManage() {
		return forbidden(c)
	}

	out := make([]model.Invite, 0)
	for _, inv := range s.mem.invites {
		if inv.OrgId == orgId {
			out = append(out, inv)
		}
	}
	byCreated(out,
		func(i model.Invite) string { return i.CreatedAt },
		func(i model.Invite) string { return i.Id })
	return c.JSON(out)
}

func (s *Server) createInvite(c *fiber.Ctx) error {
	var req roleReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "malformed body")
	}

	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	orgId := c.Params("orgId")
	if _, ok := s.mem.orgs[orgId]; !ok {
		return notFound(c, "organization")
	}
	u := s.caller(c)
	if !roleIn(u, orgId).CanManage() {
		return forbidden(c)
	}

	inv := model.Invite{
		Id:        id.New("inv"),
		OrgId:     orgId,
		Role:      req.Role,
		CreatedBy: u.Id,
		ExpiresAt: time.Now().UTC().Add(inviteTTL).Format(time.RFC3339),
		CreatedAt: now(),
	}
	if inv.Role == "" {
		inv.Role = model.RoleMember
	}
	s.mem.invites[inv.Id] = inv
	return c.Status(fiber.StatusCreated).JSON(inv)
}

func (s *Server) getInvite(c *fiber.Ctx) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	inv, ok := s.mem.invites[c.Params("inviteId")]
	// 过期邀请与不存在的邀请同样返回 404
	if !ok || expired(inv.ExpiresAt) {
		return notFound(c, "invite")
	}
	return c.JSON(inv)
}

func (s *Server) deleteInvite(c *fiber.Ctx) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	inv, ok := s.mem.invites[c.Params("inviteId")]
	if !ok {
		return notFound(c, "invite")
	}
	if !roleIn(s.caller(c), inv.OrgId).CanManage() {
		return forbidden(c)
	}
	delete(s.mem.invites, inv.Id)
	return c.SendStatus(fiber.StatusNoContent)
}

func expired(rfc3339 string) bool {
	t, err := time.Parse(time.RFC3339, rfc3339)
	return err != nil || t.Before(time.Now())
}

func dropOrgRole(roles []model.OrgRole, orgId string) []model.OrgRole {
	out := roles[:0]
	for _, r := range roles {
		if r.OrgId != orgId {
			out = append(out, r)
		}
	}
	return out
}

func setOrgRole(roles []model.OrgRole, orgId string, role model.Role) []model.OrgRole {
	for i, r := range roles {
		if r.OrgId == orgId {
			roles[i].Role = role
			return roles
		}
	}
	return append(roles, model.OrgRole{OrgId: orgId, Role: role})
}
