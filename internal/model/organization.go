package model

/**
 * @time: 2025/6/14
 * @file: organization.go
 * @description: 组织模型（顶级租户）
 */

// Organization 顶级租户。配额计数按自然月滚动。
type Organization struct {
	Id             string `json:"id"`
	Name           string `json:"name"`
	Blocked        bool   `json:"blocked"`          // 冻结后拒绝发信
	QuotaMonthly   int64  `json:"quota_monthly"`    // 月度发信配额
	QuotaUsed      int64  `json:"quota_used"`       // 本月已用
	BillingAccount string `json:"billing_account"`  // 计费账户外键
	CreatedAt      string `json:"created_at"`
}

// Role 组织内角色
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleViewer Role = "viewer"
)

// CanManage reports whether the role may mutate org-scoped resources.
func (r Role) CanManage() bool {
	return r == RoleOwner || r == RoleAdmin
}
