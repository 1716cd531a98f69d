// Package moderation provides the admin endpoints of a group: member roles,
// removals, bans, reports and the admin log.
//
// Member mutations answer with the refreshed member list.
package moderation

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/fitcircle/fitcircle/internal/auth"
	"github.com/fitcircle/fitcircle/internal/db/controller/group"
	"github.com/fitcircle/fitcircle/internal/db/controller/moderation"
	"github.com/fitcircle/fitcircle/internal/db/models"
	"github.com/fitcircle/fitcircle/internal/metrics"
	"github.com/fitcircle/fitcircle/internal/realtime"
	"github.com/fitcircle/fitcircle/internal/web/handler"
)

const (
	memberPath = handler.GroupPath + "/members/:userID"
	bansPath   = handler.GroupPath + "/bans"
	reportPath = handler.GroupPath + "/reports"
	logsPath   = handler.GroupPath + "/logs"
)

// Service provides the moderation routes.
type Service struct {
	env *handler.Env
}

// Handler is the exported instance.
var Handler = Service{} //nolint:gochecknoglobals

// BanInput is the body of a ban request.
type BanInput struct {
	Reason string `json:"reason" validate:"max=500"`
}

// ReportInput is the body of a report.
type ReportInput struct {
	ReportedUserID string `json:"reportedUserId" validate:"required"`
	Reason         string `json:"reason"         validate:"required,max=1000"`
}

// Init registers routes.
func (s *Service) Init(env *handler.Env) error {
	s.env = env
	r := env.Router

	r.Post(memberPath+"/promote", env.RequireUser, s.memberAction(models.ActionPromote, promote))
	r.Post(memberPath+"/demote", env.RequireUser, s.memberAction(models.ActionDemote, demote))
	r.Post(memberPath+"/remove", env.RequireUser, s.memberAction(models.ActionRemove, remove))
	r.Post(memberPath+"/ban", env.RequireUser, s.memberAction(models.ActionBan, ban))
	r.Get(bansPath, env.RequireUser, s.ListBans)
	r.Delete(bansPath+"/:userID", env.RequireUser, s.Unban)

	r.Post(reportPath, env.RequireUser, s.Report)
	r.Get(reportPath, env.RequireUser, s.ListReports)
	r.Post(reportPath+"/:reportID/dismiss", env.RequireUser, s.closeReport(models.ActionDismissReport, moderation.Dismiss))
	r.Post(reportPath+"/:reportID/resolve", env.RequireUser, s.closeReport(models.ActionResolveReport, moderation.Resolve))

	r.Get(logsPath, env.RequireUser, s.ListLogs)

	return nil
}

// memberFunc applies one member mutation. c gives access to the request body.
type memberFunc func(c *fiber.Ctx, db *gorm.DB, groupID, actorID, targetID string) error

func promote(_ *fiber.Ctx, db *gorm.DB, groupID, actorID, targetID string) error {
	_, err := moderation.Promote(db, groupID, actorID, targetID)
	return err
}

func demote(_ *fiber.Ctx, db *gorm.DB, groupID, actorID, targetID string) error {
	_, err := moderation.Demote(db, groupID, actorID, targetID)
	return err
}

func remove(_ *fiber.Ctx, db *gorm.DB, groupID, actorID, targetID string) error {
	return moderation.Remove(db, groupID, actorID, targetID)
}

func ban(c *fiber.Ctx, db *gorm.DB, groupID, actorID, targetID string) error {
	var in BanInput
	if len(c.Body()) > 0 {
		if err := handler.Parse(c, &in); err != nil {
			return err
		}
	}

	_, err := moderation.Ban(db, groupID, actorID, targetID, in.Reason)

	return err
}

func (s *Service) memberAction(action models.AdminAction, fn memberFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		db := s.env.Conn(c)
		groupID := c.Params("groupID")
		targetID := c.Params("userID")

		if err := fn(c, db, groupID, auth.UserID(c), targetID); err != nil {
			return handler.Error(c, err)
		}

		s.done(action, groupID, targetID)

		members, err := group.Members(db, groupID)
		if err != nil {
			return handler.Error(c, err)
		}

		return c.JSON(members)
	}
}

func (s *Service) done(action models.AdminAction, groupID, targetID string) {
	metrics.ModerationActions.WithLabelValues(string(action)).Inc()
	s.env.Publish(realtime.GroupEvent(realtime.EventMemberChanged, groupID, targetID))
}

// ListBans lists the bans of the group, admins only.
func (s *Service) ListBans(c *fiber.Ctx) error {
	bans, err := moderation.ListBans(s.env.Conn(c), c.Params("groupID"), auth.UserID(c))
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(bans)
}

// Unban lifts the ban of a user.
func (s *Service) Unban(c *fiber.Ctx) error {
	groupID := c.Params("groupID")
	targetID := c.Params("userID")

	if err := moderation.Unban(s.env.Conn(c), groupID, auth.UserID(c), targetID); err != nil {
		return handler.Error(c, err)
	}

	s.done(models.ActionUnban, groupID, targetID)

	return c.SendStatus(fiber.StatusNoContent)
}

// Report files a complaint about another member.
func (s *Service) Report(c *fiber.Ctx) error {
	var in ReportInput
	if err := handler.Parse(c, &in); err != nil {
		return handler.Error(c, err)
	}

	report, err := moderation.Report(s.env.Conn(c), c.Params("groupID"), auth.UserID(c), in.ReportedUserID, in.Reason)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}

// ListReports lists reports, optionally filtered by the status query parameter.
func (s *Service) ListReports(c *fiber.Ctx) error {
	reports, err := moderation.ListReports(
		s.env.Conn(c), c.Params("groupID"), auth.UserID(c), models.ReportStatus(c.Query("status")),
	)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(reports)
}

type reportFunc func(db *gorm.DB, groupID, actorID, reportID string) (*models.MemberReport, error)

func (s *Service) closeReport(action models.AdminAction, fn reportFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		report, err := fn(s.env.Conn(c), c.Params("groupID"), auth.UserID(c), c.Params("reportID"))
		if err != nil {
			return handler.Error(c, err)
		}

		metrics.ModerationActions.WithLabelValues(string(action)).Inc()

		return c.JSON(report)
	}
}

// ListLogs pages through the admin log, newest first.
func (s *Service) ListLogs(c *fiber.Ctx) error {
	result, err := moderation.ListLogs(s.env.Conn(c), c.Params("groupID"), auth.UserID(c), s.env.Page(c))
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(result)
}
