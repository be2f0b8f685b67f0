package model

/**
 * @time: 2025/6/16
 * @file: user.go
 * @description: 当前登录用户与全局运行时配置
 */

// 全局角色
const (
	GlobalRoleUser  = "user"
	GlobalRoleAdmin = "admin" // 平台管理员，可改运行时配置
)

// OrgRole 用户在某个组织内的角色
type OrgRole struct {
	OrgId string `json:"org_id"`
	Role  Role   `json:"role"`
}

// User 已认证的当前用户
type User struct {
	Id         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	OrgRoles   []OrgRole `json:"org_roles"`
	GlobalRole string    `json:"global_role"`
}

// RoleIn returns the user's role in the given organization, or "" when the
// user is not a member.
func (u User) RoleIn(orgId string) Role {
	for _, r := range u.OrgRoles {
		if r.OrgId == orgId {
			return r.Role
		}
	}
	return ""
}

// RuntimeConfig 进程级全局配置，平台管理员可改
type RuntimeConfig struct {
	SystemEmail    string          `json:"system_email"`
	SignupsEnabled bool            `json:"signups_enabled"`
	FeatureFlags   map[string]bool `json:"feature_flags,omitempty"`
}
