package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"blogapi/repositories"
	"blogapi/utils"
)

// StatsController provides aggregate site statistics.
type StatsController struct {
	users     repositories.UserRepository
	posts     repositories.PostRepository
	comments  repositories.CommentRepository
	pageViews repositories.PageViewRepository
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(
	users repositories.UserRepository,
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	pageViews repositories.PageViewRepository,
) *StatsController {
	return &StatsController{users: users, posts: posts, comments: comments, pageViews: pageViews}
}

// GetStats returns entity counts and today's page views. Individual failures
// degrade to zero instead of failing the whole endpoint.
func (s *StatsController) GetStats(ctx *gin.Context) {
	reqCtx := ctx.Request.Context()

	userCount, err := s.users.Count(reqCtx)
	if err != nil {
		userCount = 0
	}
	postCount, err := s.posts.Count(reqCtx)
	if err != nil {
		postCount = 0
	}
	commentCount, err := s.comments.Count(reqCtx)
	if err != nil {
		commentCount = 0
	}

	now := time.Now().In(time.Local)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	pageViews, err := s.pageViews.SumForDate(reqCtx, today)
	if err != nil {
		pageViews = 0
	}

	utils.Success(ctx, gin.H{
		"user_count":    userCount,
		"post_count":    postCount,
		"comment_count": commentCount,
		"page_views":    pageViews,
	})
}
