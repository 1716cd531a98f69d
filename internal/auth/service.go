package auth

import (
	"context"

	"gorm.io/gorm"

	"github.com/fitcircle/fitcircle/internal/db/controller/group"
	"github.com/fitcircle/fitcircle/internal/db/models"
)

// Service provides authentication and group access checks.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// WithContext returns a service whose queries are bound to ctx.
func (s *Service) WithContext(ctx context.Context) *Service {
	return &Service{db: s.db.WithContext(ctx)}
}

// Access is what a user may do in one group.
type Access struct {
	Group  *models.FitnessGroup
	Member *models.GroupMember // nil for readers of public groups
}

// IsMember reports whether the user is a member.
func (a Access) IsMember() bool {
	return a.Member != nil
}

// IsAdmin reports whether the user is an admin of the group.
func (a Access) IsAdmin() bool {
	return a.Member.IsAdmin()
}

// IsOwner reports whether the user owns the group.
func (a Access) IsOwner() bool {
	return a.Member != nil && group.IsOwner(a.Group, a.Member.UserID)
}

// GroupAccess loads the group and checks userID may read it.
func (s *Service) GroupAccess(groupID, userID string) (Access, error) {
	g, err := group.Get(s.db, groupID)
	if err != nil {
		return Access{}, err
	}

	m, err := group.CanRead(s.db, g, userID)
	if err != nil {
		return Access{}, err
	}

	return Access{Group: g, Member: m}, nil
}
