package repository

import "gorm.io/gorm"

// applyPagination 应用分页参数，统一处理非法页码与偏移量。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}
	return query.Limit(pageSize).Offset(offset)
}

// persistInactive 补写 is_active=false。
// 带 default:true 的布尔列在 Create 时会跳过零值，数据库会落成默认值。
func persistInactive(db *gorm.DB, model interface{}, isActive bool) error {
	if isActive {
		return nil
	}
	return db.Model(model).Update("is_active", false).Error
}
