// Package auth provides the session middleware of the JSON API.
//
// The middleware accepts the session id from the session cookie or from an
// "Authorization: Bearer <id>" header, resolves it through the session package
// and stores the user id and username in fiber.Locals. Requests without a valid
// session are answered with 401.
//
// Usage:
//
//	router.Get(path, authmiddleware.New(cfg), handler)
package auth
