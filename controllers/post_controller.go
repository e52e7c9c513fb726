package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"blogapi/models"
	"blogapi/repositories"
	"blogapi/utils"
)

const postListCacheKey = "cache:posts:list:all"

// PostController manages the post lifecycle: creation, author-only mutation,
// category resolution and the single-like-per-user counter.
type PostController struct {
	posts      repositories.PostRepository
	categories repositories.CategoryRepository
	comments   repositories.CommentRepository
	users      repositories.UserRepository
}

// NewPostController creates a new PostController instance.
func NewPostController(
	posts repositories.PostRepository,
	categories repositories.CategoryRepository,
	comments repositories.CommentRepository,
	users repositories.UserRepository,
) *PostController {
	return &PostController{posts: posts, categories: categories, comments: comments, users: users}
}

// postView is the enriched representation: reference ids replaced by display
// values and the like flag computed for the viewer.
type postView struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Author        string    `json:"author"`
	Categories    []string  `json:"categories"`
	Likes         int       `json:"likes"`
	IsLikedByUser bool      `json:"is_liked_by_user"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreatePost allows authenticated users to create new posts.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req struct {
		Title      string   `json:"title" binding:"required"`
		Content    string   `json:"content" binding:"required"`
		Categories []string `json:"categories"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	title := utils.SanitizePlain(strings.TrimSpace(req.Title))
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, 40002, "title cannot be empty")
		return
	}
	content := utils.Sanitize(req.Content)
	if strings.TrimSpace(content) == "" {
		utils.Error(ctx, http.StatusBadRequest, 40002, "content cannot be empty")
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	categoryIDs, ok := p.resolveCategories(ctx, req.Categories)
	if !ok {
		return
	}

	post := models.Post{
		Title:      title,
		Content:    content,
		Author:     userID,
		Categories: categoryIDs,
	}
	if err := p.posts.Create(ctx.Request.Context(), &post); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to create post")
		return
	}

	utils.InvalidateByPrefix("cache:posts:")

	view, err := p.buildView(ctx.Request.Context(), &post, userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load post")
		return
	}
	utils.Success(ctx, gin.H{"post": view})
}

// ListPosts returns all posts, optionally filtered by category names.
// Filter semantics: each name is resolved by exact match, and a post qualifies
// when its category set intersects the resolved ids. Unknown names match nothing.
func (p *PostController) ListPosts(ctx *gin.Context) {
	viewerID, authed := currentUserID(ctx)

	rawFilter := strings.TrimSpace(ctx.Query("categories"))

	// Cache only the anonymous unfiltered listing; the like flag makes
	// authenticated responses viewer-specific.
	cacheable := rawFilter == "" && !authed
	if cacheable {
		if b, ok := utils.CacheGetBytes(postListCacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	var filterIDs []primitive.ObjectID
	if rawFilter != "" {
		filterIDs = []primitive.ObjectID{}
		for _, name := range utils.UniqueStrings(strings.Split(rawFilter, ",")) {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			category, err := p.categories.FindByName(ctx.Request.Context(), name)
			if err != nil {
				if err == repositories.ErrNotFound {
					continue
				}
				utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to list posts")
				return
			}
			filterIDs = append(filterIDs, category.ID)
		}
	}

	posts, err := p.posts.List(ctx.Request.Context(), filterIDs)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to list posts")
		return
	}

	views := make([]postView, 0, len(posts))
	for i := range posts {
		view, err := p.buildView(ctx.Request.Context(), &posts[i], viewerID)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load post")
			return
		}
		views = append(views, view)
	}

	payload := gin.H{"items": views, "total": len(views)}
	if cacheable {
		wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
		utils.CacheSetJSON(postListCacheKey, wrapper, 5*time.Minute)
	}
	utils.Success(ctx, payload)
}

// GetPost returns one post enriched for the current viewer.
func (p *PostController) GetPost(ctx *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid post id")
		return
	}

	post, err := p.posts.FindByID(ctx.Request.Context(), postID)
	if err != nil {
		if err == repositories.ErrNotFound {
			utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load post")
		return
	}

	viewerID, _ := currentUserID(ctx)
	view, err := p.buildView(ctx.Request.Context(), post, viewerID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load post")
		return
	}
	utils.Success(ctx, gin.H{"post": view})
}

// UpdatePost applies title/content/category changes, author only. A categories
// field in the patch replaces the full list; omitting it leaves the list untouched.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid post id")
		return
	}

	var req struct {
		Title      *string   `json:"title"`
		Content    *string   `json:"content"`
		Categories *[]string `json:"categories"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	post, err := p.posts.FindByID(ctx.Request.Context(), postID)
	if err != nil {
		if err == repositories.ErrNotFound {
			utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load post")
		return
	}

	if post.Author != userID {
		utils.Error(ctx, http.StatusForbidden, 40301, "you do not have permission to edit this post")
		return
	}

	if req.Title != nil {
		title := utils.SanitizePlain(strings.TrimSpace(*req.Title))
		if title == "" {
			utils.Error(ctx, http.StatusBadRequest, 40002, "title cannot be empty")
			return
		}
		post.Title = title
	}
	if req.Content != nil {
		content := utils.Sanitize(*req.Content)
		if strings.TrimSpace(content) == "" {
			utils.Error(ctx, http.StatusBadRequest, 40002, "content cannot be empty")
			return
		}
		post.Content = content
	}
	if req.Categories != nil {
		categoryIDs, ok := p.resolveCategories(ctx, *req.Categories)
		if !ok {
			return
		}
		post.Categories = categoryIDs
	}

	if err := p.posts.Update(ctx.Request.Context(), post); err != nil {
		if err == repositories.ErrNotFound {
			utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to update post")
		return
	}

	utils.InvalidateByPrefix("cache:posts:")

	view, err := p.buildView(ctx.Request.Context(), post, userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load post")
		return
	}
	utils.Success(ctx, gin.H{"post": view})
}

// DeletePost removes a post and its comments, author only.
func (p *PostController) DeletePost(ctx *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid post id")
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	post, err := p.posts.FindByID(ctx.Request.Context(), postID)
	if err != nil {
		if err == repositories.ErrNotFound {
			utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load post")
		return
	}

	if post.Author != userID {
		utils.Error(ctx, http.StatusForbidden, 40301, "you do not have permission to delete this post")
		return
	}

	if err := p.posts.Delete(ctx.Request.Context(), postID); err != nil {
		if err == repositories.ErrNotFound {
			utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to delete post")
		return
	}

	// Comments belong to their post; remove them with it.
	if err := p.comments.DeleteByPost(ctx.Request.Context(), postID); err != nil {
		utils.Sugar.Warnf("failed to delete comments of post %s: %v", postID.Hex(), err)
	}

	utils.InvalidateByPrefix("cache:posts:")
	utils.Success(ctx, nil)
}

// LikePost records a like, at most once per user. There is no unlike.
func (p *PostController) LikePost(ctx *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid post id")
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	liked, err := p.posts.Like(ctx.Request.Context(), postID, userID)
	if err != nil {
		if err == repositories.ErrNotFound {
			utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to like post")
		return
	}
	if !liked {
		utils.Error(ctx, http.StatusConflict, 40903, "you have already liked this post")
		return
	}

	utils.InvalidateByPrefix("cache:posts:")

	post, err := p.posts.FindByID(ctx.Request.Context(), postID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load post")
		return
	}
	view, err := p.buildView(ctx.Request.Context(), post, userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load post")
		return
	}
	utils.Success(ctx, gin.H{"post": view})
}

// resolveCategories maps names to category ids via find-or-create. It writes
// the error response itself and returns ok=false on failure.
func (p *PostController) resolveCategories(ctx *gin.Context, names []string) ([]primitive.ObjectID, bool) {
	ids := []primitive.ObjectID{}
	for _, name := range utils.UniqueStrings(names) {
		name = utils.SanitizePlain(strings.TrimSpace(name))
		if !utils.ValidCategoryName(name) {
			utils.Error(ctx, http.StatusBadRequest, 40002, "category name must be 1-8 characters")
			return nil, false
		}
		category, err := p.categories.FindOrCreate(ctx.Request.Context(), name)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to resolve categories")
			return nil, false
		}
		ids = append(ids, category.ID)
	}
	return ids, true
}

// buildView assembles the enriched representation. Category ids that no longer
// resolve (deleted categories) are skipped rather than failing the read.
func (p *PostController) buildView(ctx context.Context, post *models.Post, viewerID primitive.ObjectID) (postView, error) {
	author, err := p.users.FindByID(ctx, post.Author)
	authorName := ""
	if err == nil {
		authorName = author.Username
	} else if err != repositories.ErrNotFound {
		return postView{}, err
	}

	categories, err := p.categories.FindByIDs(ctx, post.Categories)
	if err != nil {
		return postView{}, err
	}
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}

	return postView{
		ID:            post.ID.Hex(),
		Title:         post.Title,
		Content:       post.Content,
		Author:        authorName,
		Categories:    names,
		Likes:         post.Likes,
		IsLikedByUser: viewerID != primitive.NilObjectID && post.IsLikedBy(viewerID),
		CreatedAt:     post.CreatedAt,
		UpdatedAt:     post.UpdatedAt,
	}, nil
}
