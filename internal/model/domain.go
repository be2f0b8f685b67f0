package model

/**
 * @time: 2025/6/15
 * @file: domain.go
 * @description: 发信域名模型
 */

// Domain 发信域名，组织级或项目级（ProjectId 为空时是组织级）。
type Domain struct {
	Id                 string `json:"id"`
	OrgId              string `json:"org_id"`
	ProjectId          string `json:"project_id,omitempty"`
	Name               string `json:"domain"`
	VerificationStatus string `json:"verification_status"` // pending / verified / failed
	CreatedAt          string `json:"created_at"`
}

// 域名验证状态
const (
	DomainVerificationPending  = "pending"
	DomainVerificationVerified = "verified"
	DomainVerificationFailed   = "failed"
)
