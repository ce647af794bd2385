package user

import (
	"time"

	"gorm.io/gorm"
)

// UserModel 邮箱只在未删除记录中唯一（部分索引）
type UserModel struct {
	ID           int64      `gorm:"primaryKey;autoIncrement"`
	Name         string     `gorm:"size:255;not null"`
	Email        string     `gorm:"size:191;not null;uniqueIndex:idx_users_email_active,where:deleted_at IS NULL"`
	PasswordHash string     `gorm:"column:password_hash;size:255;not null"`
	Birthday     *time.Time `gorm:"type:date"`
	Role         string     `gorm:"size:16;not null;default:MEMBER"`
	Status       string     `gorm:"size:16;not null;default:ACTIVE"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (UserModel) TableName() string { return "users" }
