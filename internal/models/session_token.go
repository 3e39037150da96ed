package models

import (
	"time"
)

// SessionToken 会话令牌表。令牌是不透明的 UUID 字符串，
// 不携带任何声明，失效通过删除行实现。
type SessionToken struct {
	Token     string    `gorm:"primarykey;size:36" json:"token"` // 主键（UUID）
	UserID    string    `gorm:"index;size:36;not null" json:"user_id"` // 关联用户ID
	CreatedAt time.Time `gorm:"index" json:"created_at"`         // 签发时间
}

// TableName 指定表名
func (SessionToken) TableName() string {
	return "session_tokens"
}
