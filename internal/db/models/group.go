package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the role of a member inside one group.
type Role string

const (
	// RoleMember can read, post, comment, react and report.
	RoleMember Role = "member"
	// RoleAdmin can additionally moderate members and content.
	RoleAdmin Role = "admin"
)

// FitnessGroup is a community group. AdminID is the owner, who is always an admin member.
type FitnessGroup struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	Name          string     `gorm:"size:100;not null;index" json:"name"`
	Description   string     `gorm:"size:2000" json:"description"`
	Category      string     `gorm:"size:50;index" json:"category"`
	Location      string     `gorm:"size:255" json:"location"`
	MembersCount  int64      `gorm:"not null;default:0" json:"membersCount"`
	IsPrivate     bool       `gorm:"not null;default:false" json:"isPrivate"`
	AdminID       string     `gorm:"size:36;not null;index" json:"adminId"`
	NextEventDate *time.Time `json:"nextEventDate,omitempty"`
	InviteCode    string     `gorm:"size:32" json:"-"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// TableName specifies the database table name for the FitnessGroup model.
func (FitnessGroup) TableName() string {
	return "fitness_groups"
}

// BeforeCreate assigns a uuid.
func (g *FitnessGroup) BeforeCreate(_ *gorm.DB) error {
	newID(&g.ID)
	return nil
}

// GroupMember is the membership of one user in one group.
type GroupMember struct {
	ID       string    `gorm:"primaryKey;size:36" json:"id"`
	GroupID  string    `gorm:"size:36;not null;uniqueIndex:idx_group_member" json:"groupId"`
	UserID   string    `gorm:"size:36;not null;uniqueIndex:idx_group_member;index" json:"userId"`
	Role     Role      `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	JoinedAt time.Time `gorm:"not null" json:"joinedAt"`
	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the database table name for the GroupMember model.
func (GroupMember) TableName() string {
	return "fitness_group_members"
}

// BeforeCreate assigns a uuid and the join time.
func (m *GroupMember) BeforeCreate(_ *gorm.DB) error {
	newID(&m.ID)

	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now().UTC()
	}

	return nil
}

// IsAdmin reports whether the member holds the admin role.
func (m *GroupMember) IsAdmin() bool {
	return m != nil && m.Role == RoleAdmin
}

// GroupBan keeps a user out of a group until unbanned.
type GroupBan struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	GroupID   string    `gorm:"size:36;not null;uniqueIndex:idx_group_ban" json:"groupId"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_group_ban" json:"userId"`
	BannedBy  string    `gorm:"size:36;not null" json:"bannedBy"`
	Reason    string    `gorm:"size:500" json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the database table name for the GroupBan model.
func (GroupBan) TableName() string {
	return "fitness_group_bans"
}

// BeforeCreate assigns a uuid.
func (b *GroupBan) BeforeCreate(_ *gorm.DB) error {
	newID(&b.ID)
	return nil
}
