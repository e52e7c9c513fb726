package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"blogapi/repositories"
	"blogapi/utils"
)

// CategoryController manages the category catalog.
type CategoryController struct {
	categories repositories.CategoryRepository
}

// NewCategoryController creates a CategoryController.
func NewCategoryController(categories repositories.CategoryRepository) *CategoryController {
	return &CategoryController{categories: categories}
}

// Create adds a new category, failing on duplicates.
func (c *CategoryController) Create(ctx *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	name := utils.SanitizePlain(strings.TrimSpace(req.Name))
	if !utils.ValidCategoryName(name) {
		utils.Error(ctx, http.StatusBadRequest, 40002, "category name must be 1-8 characters")
		return
	}

	category, err := c.categories.Create(ctx.Request.Context(), name)
	if err != nil {
		if err == repositories.ErrDuplicate {
			utils.Error(ctx, http.StatusConflict, 40902, "category already exists")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to create category")
		return
	}

	utils.Success(ctx, gin.H{"category": category})
}

// List returns all categories.
func (c *CategoryController) List(ctx *gin.Context) {
	categories, err := c.categories.List(ctx.Request.Context())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to list categories")
		return
	}
	utils.Success(ctx, gin.H{"items": categories})
}

// Search matches category names by case-insensitive substring.
func (c *CategoryController) Search(ctx *gin.Context) {
	query := strings.TrimSpace(ctx.Query("query"))
	if query == "" {
		utils.Error(ctx, http.StatusBadRequest, 40002, "query parameter is required")
		return
	}

	categories, err := c.categories.Search(ctx.Request.Context(), query)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to search categories")
		return
	}
	utils.Success(ctx, gin.H{"items": categories})
}

// Delete removes a category by id. Posts referencing it keep the dangling id;
// reads skip ids that no longer resolve.
func (c *CategoryController) Delete(ctx *gin.Context) {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid category id")
		return
	}

	if err := c.categories.Delete(ctx.Request.Context(), id); err != nil {
		if err == repositories.ErrNotFound {
			utils.Error(ctx, http.StatusNotFound, 40402, "category not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to delete category")
		return
	}

	utils.Success(ctx, nil)
}
