package moderation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/fitcircle/fitcircle/internal/db/controller"
	"github.com/fitcircle/fitcircle/internal/db/controller/group"
	"github.com/fitcircle/fitcircle/internal/db/models"
)

// Report files a complaint of reporterID about reportedID. Both must be members.
func Report(db *gorm.DB, groupID, reporterID, reportedID, reason string) (*models.MemberReport, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	reason = strings.TrimSpace(reason)

	switch {
	case reporterID == reportedID:
		return nil, ErrSelfReport
	case reason == "":
		return nil, ErrReasonEmpty
	}

	if _, err := group.RequireMember(db, groupID, reporterID); err != nil {
		return nil, err
	}

	if _, err := group.Membership(db, groupID, reportedID); err != nil {
		return nil, err
	}

	report := &models.MemberReport{
		GroupID:        groupID,
		ReporterID:     reporterID,
		ReportedUserID: reportedID,
		Reason:         reason,
		Status:         models.ReportPending,
	}

	if err := db.Create(report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	return report, nil
}

// ListReports returns the reports of a group, newest first, optionally of one status.
func ListReports(db *gorm.DB, groupID, actorID string, status models.ReportStatus) ([]models.MemberReport, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	switch status {
	case "", models.ReportPending, models.ReportDismissed, models.ReportResolved:
	default:
		return nil, ErrInvalidStatus
	}

	if _, err := group.RequireAdmin(db, groupID, actorID); err != nil {
		return nil, err
	}

	tx := db.Where("group_id = ?", groupID)
	if status != "" {
		tx = tx.Where("status = ?", status)
	}

	var reports []models.MemberReport

	if err := tx.Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	return reports, nil
}

// Dismiss closes a pending report without action.
func Dismiss(db *gorm.DB, groupID, actorID, reportID string) (*models.MemberReport, error) {
	return closeReport(db, groupID, actorID, reportID, models.ReportDismissed, models.ActionDismissReport)
}

// Resolve closes a pending report after the admins acted on it.
func Resolve(db *gorm.DB, groupID, actorID, reportID string) (*models.MemberReport, error) {
	return closeReport(db, groupID, actorID, reportID, models.ReportResolved, models.ActionResolveReport)
}

func closeReport(
	db *gorm.DB, groupID, actorID, reportID string, status models.ReportStatus, action models.AdminAction,
) (*models.MemberReport, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var report models.MemberReport

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := group.RequireAdmin(tx, groupID, actorID); err != nil {
			return err
		}

		if err := tx.Where("id = ? AND group_id = ?", reportID, groupID).First(&report).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReportNotFound
			}

			return fmt.Errorf("failed to get report: %w", err)
		}

		now := time.Now().UTC()

		// the status condition keeps two admins from closing the same report
		result := tx.Model(&models.MemberReport{}).
			Where("id = ? AND status = ?", reportID, models.ReportPending).
			Updates(map[string]any{"status": status, "resolved_by": actorID, "resolved_at": now})
		if result.Error != nil {
			return fmt.Errorf("failed to close report: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			return ErrReportClosed
		}

		report.Status = status
		report.ResolvedBy = actorID
		report.ResolvedAt = &now

		return controller.LogAction(tx, groupID, actorID, action, report.ReportedUserID, report.ID, "")
	})
	if err != nil {
		return nil, err
	}

	return &report, nil
}

// ListLogs returns one page of the admin log of a group, newest first.
func ListLogs(db *gorm.DB, groupID, actorID string, p controller.Page) (controller.Result[models.AdminLog], error) {
	if db == nil {
		return controller.Result[models.AdminLog]{}, controller.ErrDBNil
	}

	if _, err := group.RequireAdmin(db, groupID, actorID); err != nil {
		return controller.Result[models.AdminLog]{}, err
	}

	var total int64

	tx := db.Model(&models.AdminLog{}).Where("group_id = ?", groupID)
	if err := tx.Count(&total).Error; err != nil {
		return controller.Result[models.AdminLog]{}, fmt.Errorf("failed to count admin logs: %w", err)
	}

	var logs []models.AdminLog
	if err := tx.Scopes(p.Scope).Order("created_at DESC").Find(&logs).Error; err != nil {
		return controller.Result[models.AdminLog]{}, fmt.Errorf("failed to list admin logs: %w", err)
	}

	return controller.NewResult(logs, p, total), nil
}
