package models

import (
	"time"
)

// VerifyCode 邮箱验证码记录。每个 (user_id, step) 最多一行，
// 重发复用同一行。过期为惰性判定，读取时才检查。
type VerifyCode struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                    // 主键
	UserID    string    `gorm:"uniqueIndex:idx_verify_codes_user_step;size:36;not null" json:"user_id"` // 关联用户ID
	Step      string    `gorm:"uniqueIndex:idx_verify_codes_user_step;not null" json:"step"`            // 用途（signup/deleteme/forgot/changeemail）
	Code      string    `gorm:"not null" json:"-"`                                       // 验证码（不返回给前端）
	Attempts  int       `gorm:"not null;default:0" json:"attempts"`                      // 尝试次数
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                                 // 最近生成/刷新时间（冷却与过期基准）
}

// TableName 指定表名
func (VerifyCode) TableName() string {
	return "verify_codes"
}
