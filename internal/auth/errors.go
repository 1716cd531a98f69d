package auth

import (
	"fmt"

	"github.com/fitcircle/fitcircle/internal/db/controller"
)

var (
	// ErrInvalidCredentials is returned for an unknown username or a wrong password.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", controller.ErrInvalid)
	// ErrUserAccountDisabled is returned when the account has been deactivated.
	ErrUserAccountDisabled = fmt.Errorf("%w: user account is disabled", controller.ErrForbidden)
	// ErrUserNameOrEmailExists is returned when registering a taken username or email.
	ErrUserNameOrEmailExists = fmt.Errorf("%w: username or email already exists", controller.ErrConflict)
	// ErrUserNotFound is returned when a session points to a deleted user.
	ErrUserNotFound = fmt.Errorf("user %w", controller.ErrNotFound)
	// ErrPasswordTooShort is returned when registering with a short password.
	ErrPasswordTooShort = fmt.Errorf("%w: password must be at least %d characters", controller.ErrInvalid, MinPasswordLength)
)
