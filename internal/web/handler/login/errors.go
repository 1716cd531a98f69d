// Package login provides the session endpoint of the API.
//
// This file defines exported error values used throughout the login flow.
package login

import (
	"fmt"

	"github.com/fitcircle/fitcircle/internal/db/controller"
)

// ErrMissingCredentials is returned when username or password is empty.
var ErrMissingCredentials = fmt.Errorf("%w: username and password are required", controller.ErrInvalid)
