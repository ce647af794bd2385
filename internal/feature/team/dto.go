package team

import (
	"time"

	"member-management/internal/feature/user"
)

type DTO struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateInput struct {
	Name        string `json:"name"        binding:"required,max=255"`
	Description string `json:"description" binding:"max=2000"`
}

// UpdateInput name 为空表示不改名；description 总是覆盖
type UpdateInput struct {
	Name        *string `json:"name"        binding:"omitempty,min=1,max=255"`
	Description string  `json:"description" binding:"max=2000"`
}

type ListQuery struct {
	Offset int `form:"offset,default=0" binding:"min=0"`
	Limit  int `form:"limit,default=20"`
}

type Page struct {
	Total int64 `json:"total"`
	Items []DTO `json:"items"`
}

type AddMemberInput struct {
	UserID int64 `json:"userId" binding:"required,min=1"`
}

type MemberDTO struct {
	TeamID   int64     `json:"teamId"`
	UserID   int64     `json:"userId"`
	JoinedAt time.Time `json:"joinedAt"`
}

type MembersDTO struct {
	Team    DTO        `json:"team"`
	Members []user.DTO `json:"members"`
}
