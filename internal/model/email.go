package model

/**
 * @time: 2025/6/16
 * @file: email.go
 * @description: 邮件记录模型。EmailMetadata 是列表用的轻量形态，
 *               Email 带完整正文，可在同一 id 上原位升级。
 */

// 邮件投递状态
const (
	EmailStatusQueued   = "queued"
	EmailStatusSent     = "sent"
	EmailStatusFailed   = "failed"
	EmailStatusCanceled = "canceled"
)

// EmailMetadata 列表视图使用的轻量记录。CreatedAt 同时是
// 倒序分页的游标字段。
type EmailMetadata struct {
	Id          string   `json:"id"`
	ProjectId   string   `json:"project_id"`
	StreamId    string   `json:"stream_id"`
	Status      string   `json:"status"`
	From        string   `json:"from"`
	Recipients  []string `json:"recipients"`
	Subject     string   `json:"subject"`
	Labels      []string `json:"labels,omitempty"`
	Attempts    int      `json:"attempts"`
	NextAttempt string   `json:"next_attempt,omitempty"` // 为空表示没有排期的重试
	CreatedAt   string   `json:"created_at"`
	SentAt      string   `json:"sent_at,omitempty"`
}

// Email 完整记录，EmailMetadata 的超集
type Email struct {
	EmailMetadata
	TextBody string `json:"text_body,omitempty"`
	HtmlBody string `json:"html_body,omitempty"`
	Headers  map[string]string `json:"headers,omitempty"`
}

// EmailPatch is a shallow field merge applied to a resident email record.
// Nil fields are left untouched.
type EmailPatch struct {
	Status      *string `json:"status,omitempty"`
	Attempts    *int    `json:"attempts,omitempty"`
	NextAttempt *string `json:"next_attempt,omitempty"`
	SentAt      *string `json:"sent_at,omitempty"`
}

// Apply merges the patch into e, field by field.
func (p EmailPatch) Apply(e *Email) {
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.Attempts != nil {
		e.Attempts = *p.Attempts
	}
	if p.NextAttempt != nil {
		e.NextAttempt = *p.NextAttempt
	}
	if p.SentAt != nil {
		e.SentAt = *p.SentAt
	}
}
