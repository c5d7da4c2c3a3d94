package tenant

import "gorm.io/gorm"

// Scope membatasi query ke satu department (dipakai antrian HOD/staff)
func Scope(departmentID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("department_id = ?", departmentID)
	}
}
