package repository

import (
	"errors"
	"time"

	"github.com/numora-app/numora-api/internal/models"

	"gorm.io/gorm"
)

// VerifyCodeRepository 验证码数据访问接口
type VerifyCodeRepository interface {
	Create(code *models.VerifyCode) error
	Get(userID, step string) (*models.VerifyCode, error)
	// Refresh 重置验证码内容与尝试次数。UPDATE 以 seenAt 为条件，
	// 并发刷新时只有观察到旧时间戳的一方生效，返回是否命中。
	Refresh(id uint, code string, seenAt, now time.Time) (bool, error)
	IncrementAttempts(id uint) error
	// Delete 删除验证码记录，返回是否真的删除了一行。
	Delete(id uint) (bool, error)
	DeleteByUserAndStep(userID, step string) error
}

// GormVerifyCodeRepository GORM 实现
type GormVerifyCodeRepository struct {
	db *gorm.DB
}

// NewVerifyCodeRepository 创建验证码仓库
func NewVerifyCodeRepository(db *gorm.DB) *GormVerifyCodeRepository {
	return &GormVerifyCodeRepository{db: db}
}

// Create 创建验证码记录
func (r *GormVerifyCodeRepository) Create(code *models.VerifyCode) error {
	return r.db.Create(code).Error
}

// Get 获取用户在指定步骤下的验证码记录
func (r *GormVerifyCodeRepository) Get(userID, step string) (*models.VerifyCode, error) {
	var record models.VerifyCode
	if err := r.db.Where("user_id = ? AND step = ?", userID, step).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// Refresh 重置验证码内容与尝试次数
func (r *GormVerifyCodeRepository) Refresh(id uint, code string, seenAt, now time.Time) (bool, error) {
	result := r.db.Model(&models.VerifyCode{}).
		Where("id = ? AND updated_at = ?", id, seenAt).
		Updates(map[string]interface{}{
			"code":       code,
			"attempts":   0,
			"updated_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IncrementAttempts 增加验证次数
func (r *GormVerifyCodeRepository) IncrementAttempts(id uint) error {
	return r.db.Model(&models.VerifyCode{}).
		Where("id = ?", id).
		UpdateColumn("attempts", gorm.Expr("attempts + 1")).Error
}

// Delete 删除验证码记录
func (r *GormVerifyCodeRepository) Delete(id uint) (bool, error) {
	result := r.db.Where("id = ?", id).Delete(&models.VerifyCode{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteByUserAndStep 删除用户在指定步骤下的验证码记录
func (r *GormVerifyCodeRepository) DeleteByUserAndStep(userID, step string) error {
	return r.db.Where("user_id = ? AND step = ?", userID, step).
		Delete(&models.VerifyCode{}).Error
}
