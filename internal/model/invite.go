package model

/**
 * @time: 2025/6/15
 * @file: invite.go
 * @description: 组织邀请与成员模型
 */

// Invite 组织邀请，短时效
type Invite struct {
	Id        string `json:"id"`
	OrgId     string `json:"org_id"`
	Role      Role   `json:"role"`
	CreatedBy string `json:"created_by"` // 邀请人用户ID
	ExpiresAt string `json:"expires_at"`
	CreatedAt string `json:"created_at"`
}

// Member 组织成员关系，复合主键 (user_id, org_id)
type Member struct {
	UserId string `json:"user_id"`
	OrgId  string `json:"org_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// MemberKey is the composite identity of a membership record.
type MemberKey struct {
	UserId string
	OrgId  string
}

// Key returns the composite identity of the membership.
func (m Member) Key() MemberKey {
	return MemberKey{UserId: m.UserId, OrgId: m.OrgId}
}
