package devserver

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/go-mailroom/mailroom/internal/model"
	"github.com/go-mailroom/mailroom/pkg/id"
	"github.com/go-mailroom/mailroom/pkg/log"
)

/**
 * @time: 2025/6/24
 * @file: handlers_project.go
 * @description: 项目、消息流、域名、SMTP 凭证与 API Key
 */

type projectReq struct {
	Name                string `json:"name"`
	RetentionPeriodDays int    `json:"retention_period_days"`
}

type domainReq struct {
	Domain    string `json:"domain"`
	ProjectId string `json:"project_id"`
}

type credentialReq struct {
	Description string `json:"description"`
}

type apiKeyReq struct {
	Description string     `json:"description"`
	Role        model.Role `json:"role"`
}

func (s *Server) listProjects(c *fiber.Ctx) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	orgId := c.Params("orgId")
	if _, ok := s.mem.orgs[orgId]; !ok {
		return notFound(c, "organization")
	}
	if roleIn(s.caller(c), orgId) == "" {
		return forbidden(c)
	}

	out := make([]model.Project, 0)
	for _, p := range s.mem.projects {
		if p.OrgId == orgId {
			out = append(out, p)
		}
	}
	byCreated(out,
		func(p model.Project) string { return p.CreatedAt },
		func(p model.Project) string { return p.Id })
	return c.JSON(out)
}

func (s *Server) createProject(c *fiber.Ctx) error {
	var req projectReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "malformed body")
	}
	req.Name = strings.TrimSpace(req.Name)

	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	orgId := c.Params("orgId")
	if _, ok := s.mem.orgs[orgId]; !ok {
		return notFound(c, "organization")
	}
	if !roleIn(s.caller(c), orgId).CanManage() {
		return forbidden(c)
	}
	if req.Name == "" {
		return failField(c, fiber.StatusBadRequest, "name is required", "name")
	}
	if req.RetentionPeriodDays <= 0 {
		return failField(c, fiber.StatusBadRequest, "retention period must be positive", "retention_period_days")
	}
	if s.mem.projectNameTaken(orgId, req.Name, "") {
		return failField(c, fiber.StatusConflict, "project name already in use", "name")
	}

	p := model.Project{
		Id:                  id.New("proj"),
		OrgId:               orgId,
		Name:                req.Name,
		RetentionPeriodDays: req.RetentionPeriodDays,
		CreatedAt:           now(),
	}
	s.mem.projects[p.Id] = p

	// 每个项目默认带一条消息流
	st := model.Stream{Id: id.New("strm"), ProjectId: p.Id, CreatedAt: now()}
	s.mem.streams[st.Id] = st

	return c.Status(fiber.StatusCreated).JSON(p)
}

func (s *Server) updateProject(c *fiber.Ctx) error {
	var req projectReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "malformed body")
	}
	req.Name = strings.TrimSpace(req.Name)

	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	p, ok := s.mem.projects[c.Params("projectId")]
	if !ok {
		return notFound(c, "project")
	}
	if !roleIn(s.caller(c), p.OrgId).CanManage() {
		return forbidden(c)
	}
	if req.Name == "" {
		return failField(c, fiber.StatusBadRequest, "name is required", "name")
	}
	if req.RetentionPeriodDays <= 0 {
		return failField(c, fiber.StatusBadRequest, "retention period must be positive", "retention_period_days")
	}
	if s.mem.projectNameTaken(p.OrgId, req.Name, p.Id) {
		return failField(c, fiber.StatusConflict, "project name already in use", "name")
	}

	p.Name = req.Name
	p.RetentionPeriodDays = req.RetentionPeriodDays
	s.mem.projects[p.Id] = p
	return c.JSON(p)
}

func (s *Server) deleteProject(c *fiber.Ctx) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	p, ok := s.mem.projects[c.Params("projectId")]
	if !ok {
		return notFound(c, "project")
	}
	if !roleIn(s.caller(c), p.OrgId).CanManage() {
		return forbidden(c)
	}
	s.mem.dropProject(p.Id)
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) listStreams(c *fiber.Ctx) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	p, ok := s.mem.projects[c.Params("projectId")]
	if !ok {
		return notFound(c, "project")
	}
	if roleIn(s.caller(c), p.OrgId) == "" {
		return forbidden(c)
	}

	out := make([]model.Stream, 0)
	for _, st := range s.mem.streams {
		if st.ProjectId == p.Id {
			out = append(out, st)
		}
	}
	byCreated(out,
		func(st model.Stream) string { return st.CreatedAt },
		func(st model.Stream) string { return st.Id })
	return c.JSON(out)
}

func (s *Server) createStream(c *fiber.Ctx) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	p, ok := s.mem.projects[c.Params("projectId")]
	if !ok {
		return notFound(c, "project")
	}
	if !roleIn(s.caller(c), p.OrgId).CanManage() {
		return forbidden(c)
	}

	st := model.Stream{Id: id.New("strm"), ProjectId: p.Id, CreatedAt: now()}
	s.mem.streams[st.Id] = st
	return c.Status(fiber.StatusCreated).JSON(st)
}

func (s *Server) deleteStream(c *fiber.Ctx) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	st, ok := s.mem.streams[c.Params("streamId")]
	if !ok {
		return notFound(c, "stream")
	}
	p := s.mem.projects[st.ProjectId]
	if !roleIn(s.caller(c), p.OrgId).CanManage() {
		return forbidden(c)
	}
	s.mem.dropStream(st.Id)
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) listDomains(c *fiber.Ctx) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	orgId := c.Params("orgId")
	if _, ok := s.mem.orgs[orgId]; !ok {
		return notFound(c, "organization")
	}
	if roleIn(s.caller(c), orgId) == "" {
		return forbidden(c)
	}

	out := make([]model.Domain, 0)
	for _, d := range s.mem.domains {
		if d.OrgId == orgId {
			out = append(out, d)
		}
	}
	byCreated(out,
		func(d model.Domain) string { return d.CreatedAt },
		func(d model.Domain) string { return d.Id })
	return c.JSON(out)
}

func (s *Server) createDomain(c *fiber.Ctx) error {
	var req domainReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "malformed body")
	}
	req.Domain = strings.ToLower(strings.TrimSpace(req.Domain))

	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	orgId := c.Params("orgId")
	if _, ok := s.mem.orgs[orgId]; !ok {
		return notFound(c, "organization")
	}
	if !roleIn(s.caller(c), orgId).CanManage() {
		return forbidden(c)
	}
	if req.Domain == "" || !strings.Contains(req.Domain, ".") {
		return failField(c, fiber.StatusBadRequest, "a valid domain is required", "domain")
	}
	if req.ProjectId != "" {
		p, ok := s.mem.projects[req.ProjectId]
		if !ok || p.OrgId != orgId {
			return notFound(c, "project")
		}
	}
	if s.mem.domainTaken(orgId, req.Domain) {
		return failField(c, fiber.StatusConflict, "domain already registered", "domain")
	}

	d := model.Domain{
		Id:                 id.New("dom"),
		OrgId:              orgId,
		ProjectId:          req.ProjectId,
		Name:               req.Domain,
		VerificationStatus: model.DomainVerificationPending,
		CreatedAt:          now(),
	}
	s.mem.domains[d.Id] = d
	return c.Status(fiber.StatusCreated).JSON(d)
}

func (s *Server) verifyDomain(c *fiber.Ctx) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	d, ok := s.mem.domains[c.Params("domainId")]
	if !ok {
		return notFound(c, "domain")
	}
	if !roleIn(s.caller(c), d.OrgId).CanManage() {
		return forbidden(c)
	}

	// 开发环境不真正查 DNS：.invalid 永远失败，其余直接通过
	if strings.HasSuffix(d.Name, ".invalid") {
		d.VerificationStatus = model.DomainVerificationFailed
	} else {
		d.VerificationStatus = model.DomainVerificationVerified
	}
	s.mem.domains[d.Id] = d
	return c.JSON(d)
}

func (s *Server) deleteDomain(c *fiber.Ctx) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	d, ok := s.mem.domains[c.Params("domainId")]
	if !ok {
		return notFound(c, "domain")
	}
	if !roleIn(s.caller(c), d.OrgId).CanManage() {
		return forbidden(c)
	}
	delete(s.mem.domains, d.Id)
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) listCredentials(c *fiber.Ctx) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	st, ok := s.mem.streams[c.Params("streamId")]
	if !ok {
		return notFound(c, "stream")
	}
	p := s.mem.projects[st.ProjectId]
	if roleIn(s.caller(c), p.OrgId) == "" {
		return forbidden(c)
	}

	out := make([]model.SmtpCredential, 0)
	for _, rec := range s.mem.credentials {
		if rec.StreamId == st.Id {
			// 列表永远不带口令
			out = append(out, rec.Sanitized())
		}
	}
	byCreated(out,
		func(cr model.SmtpCredential) string { return cr.CreatedAt },
		func(cr model.SmtpCredential) string { return cr.Id })
	return c.JSON(out)
}

func (s *Server) createCredential(c *fiber.Ctx) error {
	var req credentialReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "malformed body")
	}

	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	st, ok := s.mem.streams[c.Params("streamId")]
	if !ok {
		return notFound(c, "stream")
	}
	p := s.mem.projects[st.ProjectId]
	if !roleIn(s.caller(c), p.OrgId).CanManage() {
		return forbidden(c)
	}

	cleartext := id.New("smtp")
	hash, err := bcrypt.GenerateFromPassword([]byte(cleartext), bcrypt.DefaultCost)
	if err != nil {
		log.Errorf("hash credential: %v", err)
		return fail(c, fiber.StatusInternalServerError, "internal error")
	}

	cred := model.SmtpCredential{
		Id:          id.New("cred"),
		StreamId:    st.Id,
		Username:    "smtp-" + id.Short(),
		Description: req.Description,
		CreatedAt:   now(),
	}
	s.mem.credentials[cred.Id] = credentialRec{SmtpCredential: cred, Hash: hash}

	// 明文只出现在这一个响应里
	cred.Password = cleartext
	return c.Status(fiber.StatusCreated).JSON(cred)
}

func (s *Server) deleteCredential(c *fiber.Ctx) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	rec, ok := s.mem.credentials[c.Params("credentialId")]
	if !ok {
		return notFound(c, "credential")
	}
	st := s.mem.streams[rec.StreamId]
	p := s.mem.projects[st.ProjectId]
	if !roleIn(s.caller(c), p.OrgId).CanManage() {
		return forbidden(c)
	}
	delete(s.mem.credentials, rec.Id)
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) listApiKeys(c *fiber.Ctx) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	orgId := c.Params("orgId")
	if _, ok := s.mem.orgs[orgId]; !ok {
		return notFound(c, "organization")
	}
	if roleIn(s.caller(c), orgId) == "" {
		return forbidden(c)
	}

	out := make([]model.ApiKey, 0)
	for _, rec := range s.mem.apiKeys {
		if rec.OrgId == orgId {
			out = append(out, rec.Sanitized())
		}
	}
	byCreated(out,
		func(k model.ApiKey) string { return k.CreatedAt },
		func(k model.ApiKey) string { return k.Id })
	return c.JSON(out)
}

func (s *Server) createApiKey(c *fiber.Ctx) error {
	var req apiKeyReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "malformed body")
	}

	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	orgId := c.Params("orgId")
	if _, ok := s.mem.orgs[orgId]; !ok {
		return notFound(c, "organization")
	}
	if !roleIn(s.caller(c), orgId).CanManage() {
		return forbidden(c)
	}
	if req.Role == "" {
		req.Role = model.RoleMember
	}

	cleartext := id.New("mk")
	hash, err := bcrypt.GenerateFromPassword([]byte(cleartext), bcrypt.DefaultCost)
	if err != nil {
		log.Errorf("hash api key: %v", err)
		return fail(c, fiber.StatusInternalServerError, "internal error")
	}

	key := model.ApiKey{
		Id:          id.New("key"),
		OrgId:       orgId,
		Description: req.Description,
		Role:        req.Role,
		CreatedAt:   now(),
	}
	s.mem.apiKeys[key.Id] = apiKeyRec{ApiKey: key, Hash: hash}

	key.Password = cleartext
	return c.Status(fiber.StatusCreated).JSON(key)
}

func (s *Server) setApiKeyRole(c *fiber.Ctx) error {
	var req roleReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "malformed body")
	}

	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	rec, ok := s.mem.apiKeys[c.Params("keyId")]
	if !ok {
		return notFound(c, "api key")
	}
	if !roleIn(s.caller(c), rec.OrgId).CanManage() {
		return forbidden(c)
	}

	rec.Role = req.Role
	s.mem.apiKeys[rec.Id] = rec
	return c.JSON(rec.Sanitized())
}

func (s *Server) deleteApiKey(c *fiber.Ctx) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	rec, ok := s.mem.apiKeys[c.Params("keyId")]
	if !ok {
		return notFound(c, "api key")
	}
	if !roleIn(s.caller(c), rec.OrgId).CanManage() {
		return forbidden(c)
	}
	delete(s.mem.apiKeys, rec.Id)
	return c.SendStatus(fiber.StatusNoContent)
}
