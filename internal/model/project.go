package model

/**
 * @time: 2025/6/14
 * @file: project.go
 * @description: 项目与消息流模型
 */

// Project 归属于单个组织
type Project struct {
	Id                  string `json:"id"`
	OrgId               string `json:"org_id"`
	Name                string `json:"name"`
	RetentionPeriodDays int    `json:"retention_period_days"` // 邮件正文保留天数
	CreatedAt           string `json:"created_at"`
}

// Stream 消息流，归属于单个项目。SMTP 凭证挂在流上。
type Stream struct {
	Id        string `json:"id"`
	ProjectId string `json:"project_id"`
	CreatedAt string `json:"created_at"`
}
