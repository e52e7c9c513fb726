package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"blogapi/config"
	"blogapi/middleware"
	"blogapi/models"
	"blogapi/repositories"
	"blogapi/utils"
)

// AuthController handles registration, login, logout and the profile endpoints.
type AuthController struct {
	users repositories.UserRepository
}

// NewAuthController creates an AuthController.
func NewAuthController(users repositories.UserRepository) *AuthController {
	return &AuthController{users: users}
}

// Register handles account registration with bcrypt hashing.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Nickname string `json:"nickname" binding:"required"`
		Bio      string `json:"bio"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if !utils.ValidUsername(req.Username) {
		utils.Error(ctx, http.StatusBadRequest, 40002, "username must be 8-20 alphanumeric characters")
		return
	}
	if !utils.ValidPassword(req.Password) {
		utils.Error(ctx, http.StatusBadRequest, 40002, "password must be 8-20 characters with a letter, a digit and a special character")
		return
	}
	req.Nickname = utils.SanitizePlain(strings.TrimSpace(req.Nickname))
	if !utils.ValidNickname(req.Nickname) {
		utils.Error(ctx, http.StatusBadRequest, 40002, "nickname must be 1-8 characters")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to hash password")
		return
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: hash,
		Nickname:     req.Nickname,
		Bio:          utils.Sanitize(req.Bio),
	}

	if err := a.users.Create(ctx.Request.Context(), &user); err != nil {
		if err == repositories.ErrDuplicate {
			utils.Error(ctx, http.StatusConflict, 40901, "username already exists")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to create user")
		return
	}

	utils.Sugar.Infow("user registered", "user_id", user.ID.Hex(), "username", user.Username)
	utils.Success(ctx, gin.H{"user": user})
}

// Login verifies credentials and issues a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	user, err := a.users.FindByUsername(ctx.Request.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		if err == repositories.ErrNotFound {
			utils.Error(ctx, http.StatusUnauthorized, 40110, "invalid username or password")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to look up user")
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "invalid username or password")
		return
	}

	ttl := time.Duration(config.Get().TokenTTLHours) * time.Hour
	token, err := utils.GenerateToken(user.ID.Hex(), user.Username, ttl)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to issue token")
		return
	}

	utils.Success(ctx, gin.H{
		"token": token,
		"user":  user,
	})
}

// Logout revokes the presented token until its natural expiry.
func (a *AuthController) Logout(ctx *gin.Context) {
	v, ok := ctx.Get(middleware.ContextTokenKey)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}
	tokenString := v.(string)

	claims, err := utils.ParseToken(tokenString)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	utils.BlacklistToken(tokenString, claims.ExpiresAt.Time)
	utils.Success(ctx, nil)
}

// Profile returns the authenticated user's own account.
func (a *AuthController) Profile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	user, err := a.users.FindByID(ctx.Request.Context(), userID)
	if err != nil {
		if err == repositories.ErrNotFound {
			utils.Error(ctx, http.StatusNotFound, 40403, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to look up user")
		return
	}

	utils.Success(ctx, gin.H{"user": user})
}

// UpdateProfile applies nickname/bio changes for the authenticated user.
func (a *AuthController) UpdateProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	var req struct {
		Nickname *string `json:"nickname"`
		Bio      *string `json:"bio"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	user, err := a.users.FindByID(ctx.Request.Context(), userID)
	if err != nil {
		if err == repositories.ErrNotFound {
			utils.Error(ctx, http.StatusNotFound, 40403, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to look up user")
		return
	}

	if req.Nickname != nil {
		nickname := utils.SanitizePlain(strings.TrimSpace(*req.Nickname))
		if !utils.ValidNickname(nickname) {
			utils.Error(ctx, http.StatusBadRequest, 40002, "nickname must be 1-8 characters")
			return
		}
		if other, err := a.users.FindByNickname(ctx.Request.Context(), nickname); err == nil && other.ID != user.ID {
			utils.Error(ctx, http.StatusConflict, 40904, "nickname already taken")
			return
		} else if err != nil && err != repositories.ErrNotFound {
			utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to look up user")
			return
		}
		user.Nickname = nickname
	}
	if req.Bio != nil {
		user.Bio = utils.Sanitize(*req.Bio)
	}

	if err := a.users.Update(ctx.Request.Context(), user); err != nil {
		if err == repositories.ErrNotFound {
			utils.Error(ctx, http.StatusNotFound, 40403, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50005, "failed to update profile")
		return
	}

	utils.Success(ctx, gin.H{"user": user})
}
