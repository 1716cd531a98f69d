package moderation

import (
	"fmt"

	"github.com/fitcircle/fitcircle/internal/db/controller"
)

var (
	// ErrAlreadyAdmin is returned when promoting an admin.
	ErrAlreadyAdmin = fmt.Errorf("%w: member is already an admin", controller.ErrConflict)
	// ErrNotAdmin is returned when demoting a plain member.
	ErrNotAdmin = fmt.Errorf("%w: member is not an admin", controller.ErrConflict)
	// ErrOwnerProtected is returned when an action targets the group owner.
	ErrOwnerProtected = fmt.Errorf("%w: the group owner cannot be demoted, removed or banned", controller.ErrForbidden)
	// ErrOwnerRequired is returned when a non-owner admin demotes, removes or bans another admin.
	ErrOwnerRequired = fmt.Errorf("%w: only the group owner can demote, remove or ban an admin", controller.ErrForbidden)
	// ErrSelfAction is returned when an admin targets themselves.
	ErrSelfAction = fmt.Errorf("%w: you cannot moderate yourself", controller.ErrInvalid)
	// ErrAlreadyBanned is returned when banning a banned user.
	ErrAlreadyBanned = fmt.Errorf("%w: user is already banned", controller.ErrConflict)
	// ErrBanNotFound is returned when unbanning a user that is not banned.
	ErrBanNotFound = fmt.Errorf("ban %w", controller.ErrNotFound)
	// ErrReportNotFound is returned when a report does not exist in the group.
	ErrReportNotFound = fmt.Errorf("report %w", controller.ErrNotFound)
	// ErrReportClosed is returned when dismissing or resolving a report that is not pending.
	ErrReportClosed = fmt.Errorf("%w: report is already closed", controller.ErrConflict)
	// ErrSelfReport is returned when a member reports themselves.
	ErrSelfReport = fmt.Errorf("%w: you cannot report yourself", controller.ErrInvalid)
	// ErrReasonEmpty is returned for reports without a reason.
	ErrReasonEmpty = fmt.Errorf("%w: reason cannot be empty", controller.ErrInvalid)
	// ErrInvalidStatus is returned when filtering reports by an unknown status.
	ErrInvalidStatus = fmt.Errorf("%w: unknown report status", controller.ErrInvalid)
)
