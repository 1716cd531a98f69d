package group

import (
	"fmt"

	"github.com/fitcircle/fitcircle/internal/db/controller"
)

var (
	// ErrGroupNotFound is returned when a group does not exist.
	ErrGroupNotFound = fmt.Errorf("group %w", controller.ErrNotFound)
	// ErrMemberNotFound is returned when a user is not a member of the group.
	ErrMemberNotFound = fmt.Errorf("member %w", controller.ErrNotFound)
	// ErrGroupNameEmpty is returned when creating or renaming a group without a name.
	ErrGroupNameEmpty = fmt.Errorf("%w: group name cannot be empty", controller.ErrInvalid)
	// ErrEventDateConflict is returned when a patch both sets and clears the event date.
	ErrEventDateConflict = fmt.Errorf("%w: cannot set and clear the next event date at once", controller.ErrInvalid)
	// ErrNotMember is returned when the actor must be a member of the group.
	ErrNotMember = fmt.Errorf("%w: not a member of this group", controller.ErrForbidden)
	// ErrNotGroupAdmin is returned when the actor must be an admin of the group.
	ErrNotGroupAdmin = fmt.Errorf("%w: only group admins can do this", controller.ErrForbidden)
	// ErrBanned is returned when a banned user tries to join.
	ErrBanned = fmt.Errorf("%w: you are banned from this group", controller.ErrForbidden)
	// ErrInvalidInviteCode is returned when joining a private group with a wrong code.
	ErrInvalidInviteCode = fmt.Errorf("%w: invalid invite code", controller.ErrForbidden)
	// ErrAlreadyMember is returned when joining a group twice.
	ErrAlreadyMember = fmt.Errorf("%w: already a member of this group", controller.ErrConflict)
	// ErrOwnerCannotLeave is returned when the owner tries to leave the group.
	ErrOwnerCannotLeave = fmt.Errorf("%w: the group owner cannot leave the group", controller.ErrConflict)
)
