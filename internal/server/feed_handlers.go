package server

import (
	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetGroups handles GET /api/groups.
func (s *Server) GetGroups(c *fiber.Ctx) error {
	groups, err := s.groupService.ListGroups(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(groups)
}

// GetGroupFeed handles GET /api/groups/:slug?page=N.
func (s *Server) GetGroupFeed(c *fiber.Ctx) error {
	feed, err := s.feedService.GetGroupPage(c.UserContext(), c.Params("slug"), pageNumber(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(feed)
}

// GetProfileFeed handles GET /api/profiles/:username?page=N. The following
// flag is only ever true for an authenticated viewer.
func (s *Server) GetProfileFeed(c *fiber.Ctx) error {
	feed, err := s.feedService.GetProfilePage(c.UserContext(), c.Params("username"), viewerID(c), pageNumber(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(feed)
}

// GetFollowFeed handles GET /api/follow?page=N.
func (s *Server) GetFollowFeed(c *fiber.Ctx) error {
	page, err := s.feedService.GetFollowedFeedPage(c.UserContext(), viewerID(c), pageNumber(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(page)
}

// FollowAuthor handles POST /api/profiles/:username/follow.
func (s *Server) FollowAuthor(c *fiber.Ctx) error {
	if err := s.followService.Follow(c.UserContext(), viewerID(c), c.Params("username")); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UnfollowAuthor handles DELETE /api/profiles/:username/follow.
func (s *Server) UnfollowAuthor(c *fiber.Ctx) error {
	if err := s.followService.Unfollow(c.UserContext(), viewerID(c), c.Params("username")); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PurgeFeedCache handles DELETE /api/admin/cache.
func (s *Server) PurgeFeedCache(c *fiber.Ctx) error {
	if err := s.feedService.InvalidateIndexCache(c.UserContext()); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
