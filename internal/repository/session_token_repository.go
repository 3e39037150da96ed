package repository

import (
	"errors"

	"github.com/numora-app/numora-api/internal/models"

	"gorm.io/gorm"
)

// SessionTokenRepository 会话令牌数据访问接口
type SessionTokenRepository interface {
	Create(token *models.SessionToken) error
	Get(token string) (*models.SessionToken, error)
	ListByUser(userID string) ([]models.SessionToken, error)
	Delete(token string) error
	DeleteByUser(userID string) error
}

// GormSessionTokenRepository GORM 实现
type GormSessionTokenRepository struct {
	db *gorm.DB
}

// NewSessionTokenRepository 创建会话令牌仓库
func NewSessionTokenRepository(db *gorm.DB) *GormSessionTokenRepository {
	return &GormSessionTokenRepository{db: db}
}

// Create 创建令牌记录
func (r *GormSessionTokenRepository) Create(token *models.SessionToken) error {
	return r.db.Create(token).Error
}

// Get 获取令牌记录
func (r *GormSessionTokenRepository) Get(token string) (*models.SessionToken, error) {
	var record models.SessionToken
	if err := r.db.Where("token = ?", token).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// ListByUser 获取用户的全部令牌
func (r *GormSessionTokenRepository) ListByUser(userID string) ([]models.SessionToken, error) {
	var records []models.SessionToken
	if err := r.db.Where("user_id = ?", userID).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Delete 删除令牌记录
func (r *GormSessionTokenRepository) Delete(token string) error {
	return r.db.Where("token = ?", token).Delete(&models.SessionToken{}).Error
}

// DeleteByUser 删除用户的全部令牌
func (r *GormSessionTokenRepository) DeleteByUser(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.SessionToken{}).Error
}
