package user

import "time"

const DateLayout = "2006-01-02"

type DTO struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Birthday  string     `json:"birthday,omitempty"`
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

type CreateInput struct {
	Name     string `json:"name"     binding:"required,max=255"`
	Email    string `json:"email"    binding:"required,email,max=191"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Birthday string `json:"birthday" binding:"omitempty,datetime=2006-01-02"`
	Role     string `json:"role"     binding:"omitempty,oneof=ADMIN MEMBER"`
}

// UpdateInput nil 字段保持原值
type UpdateInput struct {
	Name     *string `json:"name"     binding:"omitempty,min=1,max=255"`
	Email    *string `json:"email"    binding:"omitempty,email,max=191"`
	Password *string `json:"password" binding:"omitempty,min=8,max=72"`
	Birthday *string `json:"birthday" binding:"omitempty,datetime=2006-01-02"`
	Role     *string `json:"role"     binding:"omitempty,oneof=ADMIN MEMBER"`
	Status   *string `json:"status"   binding:"omitempty,oneof=ACTIVE INACTIVE"`
}

type ListQuery struct {
	Offset      int    `form:"offset,default=0"  binding:"min=0"`
	Limit       int    `form:"limit,default=20"`
	Q           string `form:"q"`            // 按 email/name 模糊搜
	WithDeleted bool   `form:"with_deleted"` // 是否包含软删
}

type Page struct {
	Total int64 `json:"total"`
	Items []DTO `json:"items"`
}
