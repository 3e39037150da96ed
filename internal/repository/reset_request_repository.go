package repository

import (
	"github.com/numora-app/numora-api/internal/models"

	"gorm.io/gorm"
)

// ResetRequestRepository 密码重置请求数据访问接口
type ResetRequestRepository interface {
	Create(request *models.ResetRequest) error
	// Consume 按 (id, step, user_id) 条件删除，返回是否真的删除了一行。
	// 单条 DELETE 保证同一凭据并发消费时只有一方成功。
	Consume(id, step, userID string) (bool, error)
	DeleteByUser(userID string) error
}

// GormResetRequestRepository GORM 实现
type GormResetRequestRepository struct {
	db *gorm.DB
}

// NewResetRequestRepository 创建密码重置请求仓库
func NewResetRequestRepository(db *gorm.DB) *GormResetRequestRepository {
	return &GormResetRequestRepository{db: db}
}

// Create 创建重置请求记录
func (r *GormResetRequestRepository) Create(request *models.ResetRequest) error {
	return r.db.Create(request).Error
}

// Consume 消费重置请求
func (r *GormResetRequestRepository) Consume(id, step, userID string) (bool, error) {
	result := r.db.Where("id = ? AND step = ? AND user_id = ?", id, step, userID).
		Delete(&models.ResetRequest{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteByUser 删除用户的全部重置请求
func (r *GormResetRequestRepository) DeleteByUser(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.ResetRequest{}).Error
}
