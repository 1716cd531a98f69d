package models

import (
	"time"

	"gorm.io/gorm"
)

// ReportStatus is the state of a member report.
type ReportStatus string

const (
	// ReportPending waits for an admin decision.
	ReportPending ReportStatus = "pending"
	// ReportDismissed was closed without action.
	ReportDismissed ReportStatus = "dismissed"
	// ReportResolved was closed after the admins acted on it.
	ReportResolved ReportStatus = "resolved"
)

// MemberReport is a complaint of one member about another.
type MemberReport struct {
	ID             string       `gorm:"primaryKey;size:36" json:"id"`
	GroupID        string       `gorm:"size:36;not null;index:idx_report_group,priority:1" json:"groupId"`
	ReporterID     string       `gorm:"size:36;not null" json:"reporterId"`
	ReportedUserID string       `gorm:"size:36;not null" json:"reportedUserId"`
	Reason         string       `gorm:"size:1000;not null" json:"reason"`
	Status         ReportStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_report_group,priority:2" json:"status"`
	ResolvedBy     string       `gorm:"size:36" json:"resolvedBy,omitempty"`
	ResolvedAt     *time.Time   `json:"resolvedAt,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// TableName specifies the database table name for the MemberReport model.
func (MemberReport) TableName() string {
	return "fitness_group_member_reports"
}

// BeforeCreate assigns a uuid and the pending status.
func (r *MemberReport) BeforeCreate(_ *gorm.DB) error {
	newID(&r.ID)

	if r.Status == "" {
		r.Status = ReportPending
	}

	return nil
}

// AdminAction names a logged moderation action.
type AdminAction string

// Logged moderation actions.
const (
	ActionPromote            AdminAction = "promote"
	ActionDemote             AdminAction = "demote"
	ActionRemove             AdminAction = "remove"
	ActionBan                AdminAction = "ban"
	ActionUnban              AdminAction = "unban"
	ActionDismissReport      AdminAction = "dismiss_report"
	ActionResolveReport      AdminAction = "resolve_report"
	ActionDeletePost         AdminAction = "delete_post"
	ActionPinPost            AdminAction = "pin_post"
	ActionUnpinPost          AdminAction = "unpin_post"
	ActionDeleteComment      AdminAction = "delete_comment"
	ActionDeleteMessage      AdminAction = "delete_message"
	ActionPinMessage         AdminAction = "pin_message"
	ActionUnpinMessage       AdminAction = "unpin_message"
	ActionCreateAnnouncement AdminAction = "create_announcement"
	ActionDeleteAnnouncement AdminAction = "delete_announcement"
	ActionUpdateGroup        AdminAction = "update_group"
	ActionRotateInviteCode   AdminAction = "rotate_invite_code"
	ActionUpdatePolicy       AdminAction = "update_policy"
)

// AdminLog records one moderation action.
type AdminLog struct {
	ID           string      `gorm:"primaryKey;size:36" json:"id"`
	GroupID      string      `gorm:"size:36;not null;index" json:"groupId"`
	AdminID      string      `gorm:"size:36;not null" json:"adminId"`
	Action       AdminAction `gorm:"type:varchar(40);not null" json:"action"`
	TargetUserID string      `gorm:"size:36" json:"targetUserId,omitempty"`
	TargetID     string      `gorm:"size:64" json:"targetId,omitempty"`
	Details      string      `gorm:"size:1000" json:"details,omitempty"`
	CreatedAt    time.Time   `gorm:"index" json:"createdAt"`
}

// TableName specifies the database table name for the AdminLog model.
func (AdminLog) TableName() string {
	return "fitness_group_admin_logs"
}

// BeforeCreate assigns a uuid.
func (l *AdminLog) BeforeCreate(_ *gorm.DB) error {
	newID(&l.ID)
	return nil
}

// GroupAnnouncement is an admin notice shown on top of a group.
type GroupAnnouncement struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	GroupID   string    `gorm:"size:36;not null;index" json:"groupId"`
	AuthorID  string    `gorm:"size:36;not null" json:"authorId"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Content   string    `gorm:"size:5000" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the database table name for the GroupAnnouncement model.
func (GroupAnnouncement) TableName() string {
	return "fitness_group_announcements"
}

// BeforeCreate assigns a uuid.
func (a *GroupAnnouncement) BeforeCreate(_ *gorm.DB) error {
	newID(&a.ID)
	return nil
}
