package models

import (
	"time"
)

// ResetRequest 密码重置请求凭据。验证码校验通过后签发，
// 一次性使用，消费即删除。
type ResetRequest struct {
	ID        string    `gorm:"primarykey;size:36" json:"request_id"`  // 主键（UUID）
	Step      string    `gorm:"not null" json:"step"`                  // 所属流程（forgot-password）
	UserID    string    `gorm:"index;size:36;not null" json:"user_id"` // 关联用户ID
	CreatedAt time.Time `gorm:"index" json:"created_at"`               // 签发时间
}

// TableName 指定表名
func (ResetRequest) TableName() string {
	return "reset_requests"
}
