package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"blogapi/models"
	"blogapi/repositories"
	"blogapi/utils"
)

// CommentController manages comments on posts. Comments are append-only.
type CommentController struct {
	comments repositories.CommentRepository
	posts    repositories.PostRepository
	users    repositories.UserRepository
}

// NewCommentController creates a CommentController.
func NewCommentController(
	comments repositories.CommentRepository,
	posts repositories.PostRepository,
	users repositories.UserRepository,
) *CommentController {
	return &CommentController{comments: comments, posts: posts, users: users}
}

type commentView struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Nickname  string    `json:"nickname"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Create adds a comment to an existing post.
func (c *CommentController) Create(ctx *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(ctx.Param("postId"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid post id")
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if !utils.ValidCommentContent(content) {
		utils.Error(ctx, http.StatusBadRequest, 40002, "comment content must be 1-120 characters")
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	// Reject comments on posts that do not exist so no orphans accumulate.
	if _, err := c.posts.FindByID(ctx.Request.Context(), postID); err != nil {
		if err == repositories.ErrNotFound {
			utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load post")
		return
	}

	comment := models.Comment{
		Post:    postID,
		Author:  userID,
		Content: content,
	}
	if err := c.comments.Create(ctx.Request.Context(), &comment); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to create comment")
		return
	}

	utils.Success(ctx, gin.H{"comment": comment})
}

// ListByPost returns a post's comments in insertion order, enriched with
// author display fields.
func (c *CommentController) ListByPost(ctx *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(ctx.Param("postId"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid post id")
		return
	}

	comments, err := c.comments.ListByPost(ctx.Request.Context(), postID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to list comments")
		return
	}

	// Authors repeat across comments; look each one up once.
	authors := map[primitive.ObjectID]*models.User{}
	views := make([]commentView, 0, len(comments))
	for _, comment := range comments {
		author, ok := authors[comment.Author]
		if !ok {
			author, err = c.users.FindByID(ctx.Request.Context(), comment.Author)
			if err != nil && err != repositories.ErrNotFound {
				utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to list comments")
				return
			}
			authors[comment.Author] = author
		}

		view := commentView{
			ID:        comment.ID.Hex(),
			Content:   comment.Content,
			CreatedAt: comment.CreatedAt,
			UpdatedAt: comment.UpdatedAt,
		}
		if author != nil {
			view.Author = author.Username
			view.Nickname = author.Nickname
		}
		views = append(views, view)
	}

	utils.Success(ctx, gin.H{"items": views})
}
