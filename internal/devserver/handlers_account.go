package devserver

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/go-mailroom/mailroom/internal/model"
	"github.com/go-mailroom/mailroom/pkg/log"
)

/**
 * @time: 2025/6/23
 * @file: handlers_account.go
 * @description: 会话、当前用户与运行时配置
 */

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

func (s *Server) login(c *fiber.Ctx) error {
	var req loginReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "malformed body")
	}

	s.mem.mu.Lock()
	var hit *account
	for _, u := range s.mem.users {
		if u.Email == req.Email {
			hit = u
			break
		}
	}
	s.mem.mu.Unlock()

	// 不区分“用户不存在”和“密码错误”
	if hit == nil || bcrypt.CompareHashAndPassword(hit.PasswordHash, []byte(req.Password)) != nil {
		return fail(c, fiber.StatusUnauthorized, "invalid email or password")
	}

	token, err := s.issueToken(hit.Id)
	if err != nil {
		log.Errorf("sign token: %v", err)
		return fail(c, fiber.StatusInternalServerError, "internal error")
	}
	return c.JSON(loginResp{Token: token, User: hit.User})
}

func (s *Server) me(c *fiber.Ctx) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	return c.JSON(s.caller(c).User)
}

func (s *Server) getConfig(c *fiber.Ctx) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	return c.JSON(s.mem.config)
}

func (s *Server) setConfig(c *fiber.Ctx) error {
	var cfg model.RuntimeConfig
	if err := c.BodyParser(&cfg); err != nil {
		return fail(c, fiber.StatusBadRequest, "malformed body")
	}

	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	if s.caller(c).GlobalRole != model.GlobalRoleAdmin {
		return forbidden(c)
	}
	s.mem.config = cfg
	return c.JSON(s.mem.config)
}
