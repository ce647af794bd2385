package team

import (
	"time"

	"gorm.io/gorm"
)

// TeamModel 名称只在未删除记录中唯一（部分索引）
type TeamModel struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"size:255;not null;uniqueIndex:idx_teams_name_active,where:deleted_at IS NULL"`
	Description string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (TeamModel) TableName() string { return "teams" }

type MemberModel struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	TeamID    int64 `gorm:"not null;uniqueIndex:idx_team_members_pair"`
	UserID    int64 `gorm:"not null;uniqueIndex:idx_team_members_pair;index"`
	CreatedAt time.Time
}

func (MemberModel) TableName() string { return "team_members" }
