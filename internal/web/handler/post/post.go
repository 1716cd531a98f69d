// Package post provides the feed endpoints of a group: posts, reactions and comments.
package post

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/fitcircle/fitcircle/internal/auth"
	"github.com/fitcircle/fitcircle/internal/db/controller"
	"github.com/fitcircle/fitcircle/internal/db/controller/comment"
	"github.com/fitcircle/fitcircle/internal/db/controller/post"
	"github.com/fitcircle/fitcircle/internal/db/controller/reaction"
	"github.com/fitcircle/fitcircle/internal/db/models"
	"github.com/fitcircle/fitcircle/internal/feed"
	"github.com/fitcircle/fitcircle/internal/realtime"
	"github.com/fitcircle/fitcircle/internal/web/handler"
)

const (
	// Path of the post collection.
	Path = handler.GroupPath + "/posts"

	postPath    = Path + "/:postID"
	commentPath = postPath + "/comments"
)

// Service provides the feed routes.
type Service struct {
	env *handler.Env
}

// Handler is the exported instance.
var Handler = Service{} //nolint:gochecknoglobals

// ReactionInput is the body of a reaction toggle.
type ReactionInput struct {
	Type models.ReactionType `json:"type" validate:"required"`
}

// CommentInput is the body of a comment.
type CommentInput struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// Init registers routes.
func (s *Service) Init(env *handler.Env) error {
	s.env = env
	r := env.Router

	r.Get(Path, env.RequireUser, env.GroupReader, s.List)
	r.Post(Path, env.RequireUser, s.Create)
	r.Patch(postPath, env.RequireUser, s.Update)
	r.Delete(postPath, env.RequireUser, s.Delete)
	r.Post(postPath+"/pin", env.RequireUser, s.Pin)

	r.Get(postPath+"/reactions", env.RequireUser, env.GroupReader, s.Reactions)
	r.Post(postPath+"/reactions", env.RequireUser, s.React)

	r.Get(commentPath, env.RequireUser, env.GroupReader, s.Comments)
	r.Post(commentPath, env.RequireUser, s.Comment)
	r.Patch(commentPath+"/:commentID", env.RequireUser, s.UpdateComment)
	r.Delete(commentPath+"/:commentID", env.RequireUser, s.DeleteComment)

	return nil
}

// List returns one page of the feed, pinned posts first.
func (s *Service) List(c *fiber.Ctx) error {
	db := s.env.Conn(c)

	result, err := post.List(db, c.Params("groupID"), s.env.Page(c))
	if err != nil {
		return handler.Error(c, err)
	}

	views, err := s.views(db, result.Items, auth.UserID(c))
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(controller.Result[feed.PostView]{
		Items:      views,
		Page:       result.Page,
		PageSize:   result.PageSize,
		Total:      result.Total,
		TotalPages: result.TotalPages,
		HasNext:    result.HasNext,
	})
}

func (s *Service) views(db *gorm.DB, posts []models.FeedPost, viewerID string) ([]feed.PostView, error) {
	ids := feed.PostIDs(posts)

	reactions, err := reaction.ForPosts(db, ids)
	if err != nil {
		return nil, err
	}

	counts, err := comment.Counts(db, ids)
	if err != nil {
		return nil, err
	}

	return feed.BuildPostViews(posts, reactions, counts, viewerID), nil
}

func (s *Service) view(c *fiber.Ctx, p *models.FeedPost) error {
	views, err := s.views(s.env.Conn(c), []models.FeedPost{*p}, auth.UserID(c))
	if err != nil {
		return handler.Error(c, err)
	}

	if len(views) == 0 {
		return handler.Error(c, post.ErrPostNotFound)
	}

	return c.JSON(views[0])
}

// Create adds a post to the feed.
func (s *Service) Create(c *fiber.Ctx) error {
	var in post.Input
	if err := handler.Parse(c, &in); err != nil {
		return handler.Error(c, err)
	}

	p, err := post.Create(s.env.Conn(c), c.Params("groupID"), auth.UserID(c), in)
	if err != nil {
		return handler.Error(c, err)
	}

	s.env.Publish(realtime.GroupEvent(realtime.EventPostCreated, p.GroupID, p.ID))

	c.Status(fiber.StatusCreated)

	return s.view(c, p)
}

// Update changes a post of the signed in user.
func (s *Service) Update(c *fiber.Ctx) error {
	var in post.Input
	if err := handler.Parse(c, &in); err != nil {
		return handler.Error(c, err)
	}

	p, err := post.Update(s.env.Conn(c), c.Params("groupID"), c.Params("postID"), auth.UserID(c), in)
	if err != nil {
		return handler.Error(c, err)
	}

	return s.view(c, p)
}

// Delete soft deletes a post, by its author or an admin.
func (s *Service) Delete(c *fiber.Ctx) error {
	groupID := c.Params("groupID")
	postID := c.Params("postID")

	if err := post.Delete(s.env.Conn(c), groupID, postID, auth.UserID(c)); err != nil {
		return handler.Error(c, err)
	}

	s.env.Publish(realtime.GroupEvent(realtime.EventPostDeleted, groupID, postID))

	return c.SendStatus(fiber.StatusNoContent)
}

// Pin toggles the pin of a post, admins only.
func (s *Service) Pin(c *fiber.Ctx) error {
	p, err := post.Pin(s.env.Conn(c), c.Params("groupID"), c.Params("postID"), auth.UserID(c))
	if err != nil {
		return handler.Error(c, err)
	}

	return s.view(c, p)
}

// Reactions returns the reaction summary of a post.
func (s *Service) Reactions(c *fiber.Ctx) error {
	db := s.env.Conn(c)

	p, err := post.Get(db, c.Params("groupID"), c.Params("postID"))
	if err != nil {
		return handler.Error(c, err)
	}

	summary, err := reaction.Summary(db, p.ID, auth.UserID(c))
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(summary)
}

// React toggles one reaction of the signed in user and returns the new summary.
func (s *Service) React(c *fiber.Ctx) error {
	var in ReactionInput
	if err := handler.Parse(c, &in); err != nil {
		return handler.Error(c, err)
	}

	db := s.env.Conn(c)
	postID := c.Params("postID")
	userID := auth.UserID(c)

	if _, err := reaction.Toggle(db, c.Params("groupID"), postID, userID, in.Type); err != nil {
		return handler.Error(c, err)
	}

	summary, err := reaction.Summary(db, postID, userID)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(summary)
}

// Comments lists the comments of a post, oldest first.
func (s *Service) Comments(c *fiber.Ctx) error {
	db := s.env.Conn(c)

	p, err := post.Get(db, c.Params("groupID"), c.Params("postID"))
	if err != nil {
		return handler.Error(c, err)
	}

	comments, err := comment.List(db, p.ID)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(comments)
}

// Comment adds a comment below a post.
func (s *Service) Comment(c *fiber.Ctx) error {
	var in CommentInput
	if err := handler.Parse(c, &in); err != nil {
		return handler.Error(c, err)
	}

	cm, err := comment.Create(s.env.Conn(c), c.Params("groupID"), c.Params("postID"), auth.UserID(c), in.Content)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(cm)
}

// UpdateComment changes a comment of the signed in user.
func (s *Service) UpdateComment(c *fiber.Ctx) error {
	var in CommentInput
	if err := handler.Parse(c, &in); err != nil {
		return handler.Error(c, err)
	}

	cm, err := comment.Update(s.env.Conn(c), c.Params("groupID"), c.Params("postID"), c.Params("commentID"),
		auth.UserID(c), in.Content)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(cm)
}

// DeleteComment soft deletes a comment, by its author or an admin.
func (s *Service) DeleteComment(c *fiber.Ctx) error {
	err := comment.Delete(s.env.Conn(c), c.Params("groupID"), c.Params("postID"), c.Params("commentID"), auth.UserID(c))
	if err != nil {
		return handler.Error(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
