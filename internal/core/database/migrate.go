package database

import (
	"gorm.io/gorm"

	"member-management/internal/feature/team"
	"member-management/internal/feature/user"
)

// Models 参与 AutoMigrate 的表
func Models() []any {
	return []any{&user.UserModel{}, &team.TeamModel{}, &team.MemberModel{}}
}

// Migrate 注意：MySQL 不支持部分索引，name/email 的唯一索引会忽略 where 条件，
// 软删后同名重建会被拒绝；生产环境用迁移脚本建索引
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
