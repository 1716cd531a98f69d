// Package group provides the group and membership endpoints.
package group

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fitcircle/fitcircle/internal/auth"
	"github.com/fitcircle/fitcircle/internal/db/controller/group"
	"github.com/fitcircle/fitcircle/internal/db/models"
	"github.com/fitcircle/fitcircle/internal/realtime"
	"github.com/fitcircle/fitcircle/internal/web/handler"
)

const (
	// Path is the base path for group listing and creation.
	Path = handler.RootPath + "groups"
	// MyGroupsPath lists the groups of the signed in user.
	MyGroupsPath = handler.RootPath + "me/groups"
)

// Service provides the group routes.
type Service struct {
	env *handler.Env
}

// Handler is the exported instance.
var Handler = Service{} //nolint:gochecknoglobals

// View is a group as seen by the requesting user.
type View struct {
	models.FitnessGroup
	IsMember bool        `json:"isMember"`
	IsOwner  bool        `json:"isOwner"`
	Role     models.Role `json:"role,omitempty"`
}

// JoinInput is the body of a join request.
type JoinInput struct {
	InviteCode string `json:"inviteCode" validate:"max=32"`
}

// InviteCodeResponse carries the invite code of a private group.
type InviteCodeResponse struct {
	InviteCode string `json:"inviteCode"`
}

// Init registers routes.
func (s *Service) Init(env *handler.Env) error {
	s.env = env
	r := env.Router

	r.Get(Path, env.RequireUser, s.List)
	r.Post(Path, env.RequireUser, s.Create)
	r.Get(MyGroupsPath, env.RequireUser, s.Mine)
	r.Get(handler.GroupPath, env.RequireUser, env.GroupReader, s.Get)
	r.Patch(handler.GroupPath, env.RequireUser, s.Update)
	r.Post(handler.GroupPath+"/join", env.RequireUser, s.Join)
	r.Post(handler.GroupPath+"/leave", env.RequireUser, s.Leave)
	r.Get(handler.GroupPath+"/invite-code", env.RequireUser, s.InviteCode)
	r.Post(handler.GroupPath+"/invite-code", env.RequireUser, s.RotateInviteCode)
	r.Get(handler.GroupPath+"/members", env.RequireUser, env.GroupReader, s.Members)

	return nil
}

// List shows groups with pagination, search and category filter.
func (s *Service) List(c *fiber.Ctx) error {
	result, err := group.List(s.env.Conn(c), group.Filter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Page:     s.env.Page(c),
	})
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(result)
}

// Create makes the signed in user owner of a new group.
func (s *Service) Create(c *fiber.Ctx) error {
	var in group.Input
	if err := handler.Parse(c, &in); err != nil {
		return handler.Error(c, err)
	}

	g, err := group.Create(s.env.Conn(c), auth.UserID(c), in)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(View{
		FitnessGroup: *g,
		IsMember:     true,
		IsOwner:      true,
		Role:         models.RoleAdmin,
	})
}

// Mine lists the groups of the signed in user with their role.
func (s *Service) Mine(c *fiber.Ctx) error {
	groups, err := group.MyGroups(s.env.Conn(c), auth.UserID(c))
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(groups)
}

// Get returns one group.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.JSON(newView(auth.GroupAccessFrom(c)))
}

// Update changes group details, admins only.
func (s *Service) Update(c *fiber.Ctx) error {
	var in group.Patch
	if err := handler.Parse(c, &in); err != nil {
		return handler.Error(c, err)
	}

	db := s.env.Conn(c)
	userID := auth.UserID(c)

	if _, err := group.Update(db, c.Params("groupID"), userID, in); err != nil {
		return handler.Error(c, err)
	}

	access, err := s.env.Auth.WithContext(c.UserContext()).GroupAccess(c.Params("groupID"), userID)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(newView(access))
}

// Join adds the signed in user to the group. Private groups need the invite code.
func (s *Service) Join(c *fiber.Ctx) error {
	var in JoinInput
	if len(c.Body()) > 0 {
		if err := handler.Parse(c, &in); err != nil {
			return handler.Error(c, err)
		}
	}

	groupID := c.Params("groupID")
	userID := auth.UserID(c)

	m, err := group.Join(s.env.Conn(c), groupID, userID, in.InviteCode)
	if err != nil {
		return handler.Error(c, err)
	}

	s.env.Publish(realtime.GroupEvent(realtime.EventMemberChanged, groupID, userID))

	return c.Status(fiber.StatusCreated).JSON(m)
}

// Leave removes the signed in user from the group.
func (s *Service) Leave(c *fiber.Ctx) error {
	groupID := c.Params("groupID")
	userID := auth.UserID(c)

	if err := group.Leave(s.env.Conn(c), groupID, userID); err != nil {
		return handler.Error(c, err)
	}

	s.env.Publish(realtime.GroupEvent(realtime.EventMemberChanged, groupID, userID))

	return c.SendStatus(fiber.StatusNoContent)
}

// InviteCode shows the invite code to admins.
func (s *Service) InviteCode(c *fiber.Ctx) error {
	code, err := group.InviteCode(s.env.Conn(c), c.Params("groupID"), auth.UserID(c))
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(InviteCodeResponse{InviteCode: code})
}

// RotateInviteCode replaces the invite code, admins only.
func (s *Service) RotateInviteCode(c *fiber.Ctx) error {
	code, err := group.RotateInviteCode(s.env.Conn(c), c.Params("groupID"), auth.UserID(c))
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(InviteCodeResponse{InviteCode: code})
}

// Members lists the members of the group, admins first.
func (s *Service) Members(c *fiber.Ctx) error {
	members, err := group.Members(s.env.Conn(c), c.Params("groupID"))
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(members)
}

func newView(a auth.Access) View {
	v := View{
		FitnessGroup: *a.Group,
		IsMember:     a.IsMember(),
		IsOwner:      a.IsOwner(),
	}

	if a.Member != nil {
		v.Role = a.Member.Role
	}

	return v
}
