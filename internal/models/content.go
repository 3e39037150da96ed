package models

import (
	"time"
)

// Video 视频内容表（双语字段，按请求语言选取）
type Video struct {
	ID            uint      `gorm:"primarykey" json:"id"`             // 主键
	TitleEN       string    `gorm:"not null" json:"-"`                // 英文标题
	TitleIT       string    `gorm:"default:''" json:"-"`              // 意大利语标题
	DescriptionEN string    `gorm:"type:text" json:"-"`               // 英文描述
	DescriptionIT string    `gorm:"type:text" json:"-"`               // 意大利语描述
	URL           string    `gorm:"not null" json:"url"`              // 视频地址
	PreviewURL    string    `gorm:"default:''" json:"preview_url"`    // 预览图地址
	SortOrder     int       `gorm:"index;default:0" json:"sort_order"` // 排序
	CreatedAt     time.Time `gorm:"index" json:"created_at"`          // 创建时间
}

// TableName 指定表名
func (Video) TableName() string {
	return "videos"
}

// Faq 常见问题表
type Faq struct {
	ID         uint      `gorm:"primarykey" json:"id"`              // 主键
	QuestionEN string    `gorm:"not null" json:"-"`                 // 英文问题
	QuestionIT string    `gorm:"default:''" json:"-"`               // 意大利语问题
	AnswerEN   string    `gorm:"type:text" json:"-"`                // 英文答案
	AnswerIT   string    `gorm:"type:text" json:"-"`                // 意大利语答案
	SortOrder  int       `gorm:"index;default:0" json:"sort_order"` // 排序
	CreatedAt  time.Time `gorm:"index" json:"created_at"`           // 创建时间
}

// TableName 指定表名
func (Faq) TableName() string {
	return "faqs"
}

// Number 数字命理表，value 为日期各位数字之和
type Number struct {
	ID            uint   `gorm:"primarykey" json:"id"`          // 主键
	Value         int    `gorm:"uniqueIndex;not null" json:"value"` // 数字（1..11）
	TitleEN       string `gorm:"not null" json:"-"`             // 英文标题
	TitleIT       string `gorm:"default:''" json:"-"`           // 意大利语标题
	DescriptionEN string `gorm:"type:text" json:"-"`            // 英文描述
	DescriptionIT string `gorm:"type:text" json:"-"`            // 意大利语描述
}

// TableName 指定表名
func (Number) TableName() string {
	return "numbers"
}
