package devserver

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/go-mailroom/mailroom/internal/model"
	"github.com/go-mailroom/mailroom/pkg/safe"
)

/**
 * @time: 2025/6/24
 * @file: handlers_email.go
 * @description: 邮件记录。列表按 created_at 倒序，before 为排他上界；
 *               limit 原样生效，探测多一条由调用方自己加。
 */

func (s *Server) listEmails(c *fiber.Ctx) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	p, ok := s.mem.projects[c.Params("projectId")]
	if !ok {
		return notFound(c, "project")
	}
	if roleIn(s.caller(c), p.OrgId) == "" {
		return forbidden(c)
	}

	before := c.Query("before")
	labels := splitCSV(c.Query("labels"))
	status := splitCSV(c.Query("status"))
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return failField(c, fiber.StatusBadRequest, "limit must be a positive integer", "limit")
		}
		limit = n
	}

	out := make([]model.EmailMetadata, 0)
	for _, e := range s.mem.emails {
		if e.ProjectId != p.Id {
			continue
		}
		if before != "" && e.CreatedAt >= before {
			continue
		}
		if len(status) > 0 && !contains(status, e.Status) {
			continue
		}
		if len(labels) > 0 && !anyLabel(e.Labels, labels) {
			continue
		}
		out = append(out, e.EmailMetadata)
	}

	// 最新的在前；RFC3339 的字典序即时间序
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].Id > out[j].Id
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return c.JSON(out)
}

func (s *Server) getEmail(c *fiber.Ctx) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	e, ok := s.mem.emails[c.Params("emailId")]
	if !ok {
		return notFound(c, "email")
	}
	if roleIn(s.caller(c), s.mem.projects[e.ProjectId].OrgId) == "" {
		return forbidden(c)
	}
	return c.JSON(e)
}

func (s *Server) deleteEmail(c *fiber.Ctx) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	e, ok := s.mem.emails[c.Params("emailId")]
	if !ok {
		return notFound(c, "email")
	}
	if !roleIn(s.caller(c), s.mem.projects[e.ProjectId].OrgId).CanManage() {
		return forbidden(c)
	}
	delete(s.mem.emails, e.Id)
	return c.SendStatus(fiber.StatusNoContent)
}

// retryEmail acknowledges the retry immediately and completes the delivery
// a moment later, the way the real queue does. The console reconciles by
// re-fetching after its own delay.
func (s *Server) retryEmail(c *fiber.Ctx) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	e, ok := s.mem.emails[c.Params("emailId")]
	if !ok {
		return notFound(c, "email")
	}
	if !roleIn(s.caller(c), s.mem.projects[e.ProjectId].OrgId).CanManage() {
		return forbidden(c)
	}
	if e.Status != model.EmailStatusFailed {
		return fail(c, fiber.StatusConflict, "only failed emails can be retried")
	}

	e.Status = model.EmailStatusQueued
	e.NextAttempt = time.Now().UTC().Add(s.retryDelay).Format(time.RFC3339)
	s.mem.emails[e.Id] = e

	emailId := e.Id
	delay := s.retryDelay
	safe.Go(func() {
		time.Sleep(delay)
		s.completeDelivery(emailId)
	})

	return c.SendStatus(fiber.StatusAccepted)
}

// completeDelivery flips a queued email to sent after the simulated delay.
func (s *Server) completeDelivery(emailId string) {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	e, ok := s.mem.emails[emailId]
	if !ok || e.Status != model.EmailStatusQueued {
		return
	}
	e.Status = model.EmailStatusSent
	e.Attempts++
	e.NextAttempt = ""
	e.SentAt = now()
	s.mem.emails[emailId] = e
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func anyLabel(have, want []string) bool {
	for _, w := range want {
		if contains(have, w) {
			return true
		}
	}
	return false
}
