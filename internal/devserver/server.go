// Copyright 2025 Mailroom Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package devserver is an in-memory rendition of the platform REST API,
// meant for developing the console without a real backend. It speaks the
// same wire contract: entity JSON, the {code,msg,field} error envelope,
// bearer-token sessions, and limit-probed reverse-chronological email pages.
package devserver

import (
	"crypto/rand"
	"errors"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/golang-jwt/jwt/v5"

	"github.com/go-mailroom/mailroom/internal/model"
	"github.com/go-mailroom/mailroom/pkg/log"
	"github.com/go-mailroom/mailroom/pkg/version"
)

/**
 * @time: 2025/6/23
 * @file: server.go
 * @description: fiber 应用装配、JWT 会话中间件与统一错误封套
 */

const (
	tokenIssuer = "mailroom-dev"
	tokenTTL    = 12 * time.Hour

	defaultRetryDelay = 500 * time.Millisecond
)

// errBody 与真实后端一致的错误封套
type errBody struct {
	Code  int    `json:"code"`
	Msg   string `json:"msg"`
	Field string `json:"field,omitempty"`
}

// Server hosts the dev API on a fiber app.
type Server struct {
	app        *fiber.App
	mem        *memory
	secret     []byte
	retryDelay time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithRetryDelay shortens the simulated delivery delay after a retry.
func WithRetryDelay(d time.Duration) Option {
	return func(s *Server) { s.retryDelay = d }
}

// New builds the dev server with a fresh in-memory dataset.
func New(opts ...Option) *Server {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic(err)
	}

	s := &Server{
		mem:        newMemory(),
		secret:     secret,
		retryDelay: defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(s)
	}

	app := fiber.New(fiber.Config{
		AppName:               "Mailroom Dev Server",
		DisableStartupMessage: true,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
	})
	app.Use(fiberrecover.New())

	// 健康检查
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	s.routes(app)

	// 找不到路径时的处理 - 必须在所有路由注册之后
	app.Use(func(c *fiber.Ctx) error {
		return fail(c, fiber.StatusNotFound, "request path not found")
	})

	s.app = app
	return s
}

// App exposes the fiber app, mainly for in-process tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until Shutdown.
func (s *Server) Listen(addr string) error {
	log.Infof("dev server listening on %s", addr)
	return s.app.Listen(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) routes(app *fiber.App) {
	v1 := app.Group("/api/v1")

	v1.Post("/session", s.login)

	auth := s.authMiddleware()

	v1.Get("/me", auth, s.me)
	v1.Get("/config", auth, s.getConfig)
	v1.Put("/config", auth, s.setConfig)

	orgs := v1.Group("/organizations", auth)
	{
		orgs.Get("/", s.listOrganizations)
		orgs.Post("/", s.createOrganization)
		orgs.Patch("/:orgId", s.updateOrganization)
		orgs.Delete("/:orgId", s.deleteOrganization)

		orgs.Get("/:orgId/members", s.listMembers)
		orgs.Put("/:orgId/members/:userId", s.setMemberRole)
		orgs.Delete("/:orgId/members/:userId", s.removeMember)

		orgs.Get("/:orgId/invites", s.listInvites)
		orgs.Post("/:orgId/invites", s.createInvite)

		orgs.Get("/:orgId/projects", s.listProjects)
		orgs.Post("/:orgId/projects", s.createProject)

		orgs.Get("/:orgId/domains", s.listDomains)
		orgs.Post("/:orgId/domains", s.createDomain)

		orgs.Get("/:orgId/api_keys", s.listApiKeys)
		orgs.Post("/:orgId/api_keys", s.createApiKey)
	}

	v1.Get("/invites/:inviteId", auth, s.getInvite)
	v1.Delete("/invites/:inviteId", auth, s.deleteInvite)

	v1.Patch("/projects/:projectId", auth, s.updateProject)
	v1.Delete("/projects/:projectId", auth, s.deleteProject)
	v1.Get("/projects/:projectId/streams", auth, s.listStreams)
	v1.Post("/projects/:projectId/streams", auth, s.createStream)
	v1.Get("/projects/:projectId/emails", auth, s.listEmails)

	v1.Delete("/streams/:streamId", auth, s.deleteStream)
	v1.Get("/streams/:streamId/credentials", auth, s.listCredentials)
	v1.Post("/streams/:streamId/credentials", auth, s.createCredential)

	v1.Delete("/credentials/:credentialId", auth, s.deleteCredential)

	v1.Put("/domains/:domainId/verify", auth, s.verifyDomain)
	v1.Delete("/domains/:domainId", auth, s.deleteDomain)

	v1.Put("/api_keys/:keyId/role", auth, s.setApiKeyRole)
	v1.Delete("/api_keys/:keyId", auth, s.deleteApiKey)

	v1.Get("/emails/:emailId", auth, s.getEmail)
	v1.Delete("/emails/:emailId", auth, s.deleteEmail)
	v1.Put("/emails/:emailId/retry", auth, s.retryEmail)
}

// sessionClaims 会话令牌载荷
type sessionClaims struct {
	UserId string `json:"user_id"`
	jwt.RegisteredClaims
}

func (s *Server) issueToken(userId string) (string, error) {
	claims := &sessionClaims{
		UserId: userId,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// authMiddleware resolves the bearer token into the calling user and stores
// the user id in fiber locals.
func (s *Server) authMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get("Authorization")
		parts := strings.SplitN(raw, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return fail(c, fiber.StatusUnauthorized, "missing bearer token")
		}

		claims := &sessionClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (any, error) {
			return s.secret, nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return fail(c, fiber.StatusUnauthorized, "token expired")
			}
			log.Debugf("parse token failed: %v", err)
			return fail(c, fiber.StatusUnauthorized, "invalid token")
		}
		if !token.Valid {
			return fail(c, fiber.StatusUnauthorized, "invalid token")
		}

		s.mem.mu.Lock()
		_, known := s.mem.users[claims.UserId]
		s.mem.mu.Unlock()
		if !known {
			return fail(c, fiber.StatusUnauthorized, "unknown user")
		}

		c.Locals("userId", claims.UserId)
		return c.Next()
	}
}

// caller returns the authenticated user. Callers hold mem.mu.
func (s *Server) caller(c *fiber.Ctx) *account {
	id, _ := c.Locals("userId").(string)
	return s.mem.users[id]
}

// roleIn 调用方在组织内的角色；平台管理员视同 owner
func roleIn(u *account, orgId string) model.Role {
	if u.GlobalRole == model.GlobalRoleAdmin {
		return model.RoleOwner
	}
	return u.RoleIn(orgId)
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(errBody{Code: status, Msg: msg})
}

func failField(c *fiber.Ctx, status int, msg, field string) error {
	return c.Status(status).JSON(errBody{Code: status, Msg: msg, Field: field})
}

func notFound(c *fiber.Ctx, kind string) error {
	return fail(c, fiber.StatusNotFound, kind+" not found")
}

func forbidden(c *fiber.Ctx) error {
	return fail(c, fiber.StatusForbidden, "insufficient role")
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
