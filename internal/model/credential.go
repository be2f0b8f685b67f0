package model

/**
 * @time: 2025/6/15
 * @file: credential.go
 * @description: SMTP 凭证与 API Key 模型
 */

// SmtpCredential 流级 SMTP 凭证。Password 仅在创建响应中出现一次，
// 入库（进入客户端状态）前必须剥离。
type SmtpCredential struct {
	Id          string `json:"id"`
	StreamId    string `json:"stream_id"`
	Username    string `json:"username"`
	Description string `json:"description"`
	Password    string `json:"password,omitempty"` // write-once
	CreatedAt   string `json:"created_at"`
}

// Sanitized returns a copy with the write-once secret removed.
func (c SmtpCredential) Sanitized() SmtpCredential {
	c.Password = ""
	return c
}

// ApiKey 组织级 API Key。与凭证一样，Password 只出现一次。
type ApiKey struct {
	Id          string `json:"id"`
	OrgId       string `json:"org_id"`
	Description string `json:"description"`
	Role        Role   `json:"role"`
	Password    string `json:"password,omitempty"` // write-once
	CreatedAt   string `json:"created_at"`
}

// Sanitized returns a copy with the write-once secret removed.
func (k ApiKey) Sanitized() ApiKey {
	k.Password = ""
	return k
}
