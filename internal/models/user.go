package models

import (
	"time"
)

// User 用户表
type User struct {
	ID           string    `gorm:"primarykey;size:36" json:"user_id"` // 主键（UUID）
	Name         string    `gorm:"default:''" json:"name"`            // 昵称
	Email        string    `gorm:"uniqueIndex;not null" json:"email"` // 邮箱
	PasswordHash string    `gorm:"not null" json:"-"`                 // 密码哈希（不返回给前端）
	Country      string    `gorm:"default:''" json:"country"`         // 国家（features.country 开启时有效）
	PendingEmail string    `gorm:"default:''" json:"-"`               // 待确认的新邮箱（换绑流程中暂存）
	Status       bool      `gorm:"not null;default:false" json:"status"` // 是否已完成邮箱验证
	CreatedAt    time.Time `gorm:"index" json:"created_at"`           // 创建时间
	UpdatedAt    time.Time `gorm:"index" json:"updated_at"`           // 更新时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
