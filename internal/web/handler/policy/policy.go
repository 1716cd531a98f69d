// Package policy provides the endpoints of the group posting policy.
package policy

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/fitcircle/fitcircle/internal/auth"
	"github.com/fitcircle/fitcircle/internal/db/controller"
	"github.com/fitcircle/fitcircle/internal/db/controller/group"
	"github.com/fitcircle/fitcircle/internal/db/controller/policy"
	"github.com/fitcircle/fitcircle/internal/db/models"
	"github.com/fitcircle/fitcircle/internal/metrics"
	"github.com/fitcircle/fitcircle/internal/web/handler"
)

// Path of the policy resource.
const Path = handler.GroupPath + "/policy"

// Service provides the policy routes.
type Service struct {
	env *handler.Env
}

// Handler is the exported instance.
var Handler = Service{} //nolint:gochecknoglobals

// Init registers routes.
func (s *Service) Init(env *handler.Env) error {
	s.env = env

	env.Router.Get(Path, env.RequireUser, s.Get)
	env.Router.Put(Path, env.RequireUser, s.Put)
	env.Router.Delete(Path, env.RequireUser, s.Reset)

	return nil
}

// Get returns the policy, admins only.
func (s *Service) Get(c *fiber.Ctx) error {
	db := s.env.Conn(c)
	groupID := c.Params("groupID")

	if _, err := group.RequireAdmin(db, groupID, auth.UserID(c)); err != nil {
		return handler.Error(c, err)
	}

	p, err := policy.Load(db, groupID)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(p)
}

// Put replaces the policy, admins only.
func (s *Service) Put(c *fiber.Ctx) error {
	var in policy.Policy
	if err := handler.Parse(c, &in); err != nil {
		return handler.Error(c, err)
	}

	groupID := c.Params("groupID")
	actorID := auth.UserID(c)

	err := s.env.Conn(c).Transaction(func(tx *gorm.DB) error {
		if _, err := group.RequireAdmin(tx, groupID, actorID); err != nil {
			return err
		}

		if err := policy.Save(tx, groupID, in); err != nil {
			return err
		}

		details := fmt.Sprintf("posting=%s messaging=%s", in.PostingMode, in.MessagingMode)

		return controller.LogAction(tx, groupID, actorID, models.ActionUpdatePolicy, "", "", details)
	})
	if err != nil {
		return handler.Error(c, err)
	}

	metrics.ModerationActions.WithLabelValues(string(models.ActionUpdatePolicy)).Inc()

	return c.JSON(in)
}

// Reset restores the default policy, admins only.
func (s *Service) Reset(c *fiber.Ctx) error {
	groupID := c.Params("groupID")
	actorID := auth.UserID(c)

	err := s.env.Conn(c).Transaction(func(tx *gorm.DB) error {
		if _, err := group.RequireAdmin(tx, groupID, actorID); err != nil {
			return err
		}

		if err := policy.Reset(tx, groupID); err != nil {
			return err
		}

		return controller.LogAction(tx, groupID, actorID, models.ActionUpdatePolicy, "", "", "reset")
	})
	if err != nil {
		return handler.Error(c, err)
	}

	metrics.ModerationActions.WithLabelValues(string(models.ActionUpdatePolicy)).Inc()

	return c.SendStatus(fiber.StatusNoContent)
}
