package handler

const (
	// APIPrefix is mounted in front of every API route.
	APIPrefix = "/api/v1"

	// RootPath is the root path the route group.
	RootPath = "/"

	// GroupPath is the base path of all routes of one group.
	GroupPath = RootPath + "groups/:groupID"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)
