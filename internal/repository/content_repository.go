package repository

import (
	"errors"

	"github.com/numora-app/numora-api/internal/models"

	"gorm.io/gorm"
)

// ContentListFilter 查询内容列表的过滤条件
type ContentListFilter struct {
	Offset int
	Limit  int
}

// ContentRepository 只读内容数据访问接口
type ContentRepository interface {
	ListVideos(filter ContentListFilter) ([]models.Video, int64, error)
	ListFaqs(filter ContentListFilter) ([]models.Faq, int64, error)
	GetFaq(id uint) (*models.Faq, error)
	GetNumberByValue(value int) (*models.Number, error)
}

// GormContentRepository GORM 实现
type GormContentRepository struct {
	db *gorm.DB
}

// NewContentRepository 创建内容仓库
func NewContentRepository(db *gorm.DB) *GormContentRepository {
	return &GormContentRepository{db: db}
}

// ListVideos 视频列表
func (r *GormContentRepository) ListVideos(filter ContentListFilter) ([]models.Video, int64, error) {
	query := r.db.Model(&models.Video{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyLimitOffset(query, filter.Offset, filter.Limit)

	var videos []models.Video
	if err := query.Order("sort_order ASC, id ASC").Find(&videos).Error; err != nil {
		return nil, 0, err
	}
	return videos, total, nil
}

// ListFaqs 常见问题列表
func (r *GormContentRepository) ListFaqs(filter ContentListFilter) ([]models.Faq, int64, error) {
	query := r.db.Model(&models.Faq{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyLimitOffset(query, filter.Offset, filter.Limit)

	var faqs []models.Faq
	if err := query.Order("sort_order ASC, id ASC").Find(&faqs).Error; err != nil {
		return nil, 0, err
	}
	return faqs, total, nil
}

// GetFaq 获取单条常见问题
func (r *GormContentRepository) GetFaq(id uint) (*models.Faq, error) {
	var faq models.Faq
	if err := r.db.First(&faq, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &faq, nil
}

// GetNumberByValue 按数值获取命理数字
func (r *GormContentRepository) GetNumberByValue(value int) (*models.Number, error) {
	var number models.Number
	if err := r.db.Where("value = ?", value).First(&number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &number, nil
}
