package repository

import "gorm.io/gorm"

// applyLimitOffset 应用 offset/limit 参数，统一处理非法值。
func applyLimitOffset(query *gorm.DB, offset, limit int) *gorm.DB {
	if query == nil || limit <= 0 {
		return query
	}
	if offset < 0 {
		offset = 0
	}
	return query.Limit(limit).Offset(offset)
}
