package team

import (
	"gorm.io/gorm"

	"member-management/internal/domain"
)

func ToModel(t *domain.Team) *TeamModel {
	m := &TeamModel{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if at, ok := t.Lifecycle.DeletedAt(); ok {
		m.DeletedAt = gorm.DeletedAt{Time: at, Valid: true}
	}
	return m
}

func ToDomain(m *TeamModel) domain.Team {
	t := domain.Team{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.DeletedAt.Valid {
		t.Lifecycle = domain.DeletedAt(m.DeletedAt.Time)
	}
	return t
}

func ToDTO(t domain.Team) DTO {
	return DTO{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func ToDTOs(ts []domain.Team) []DTO {
	out := make([]DTO, 0, len(ts))
	for _, t := range ts {
		out = append(out, ToDTO(t))
	}
	return out
}

func MemberToModel(m *domain.Membership) *MemberModel {
	return &MemberModel{TeamID: m.TeamID, UserID: m.UserID, CreatedAt: m.JoinedAt}
}

func MemberToDTO(m domain.Membership) MemberDTO {
	return MemberDTO{TeamID: m.TeamID, UserID: m.UserID, JoinedAt: m.JoinedAt}
}
