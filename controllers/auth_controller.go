package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/justyn/meow/checkin"
	"github.com/justyn/meow/metrics"
	"github.com/justyn/meow/middleware"
	"github.com/justyn/meow/models"
	"github.com/justyn/meow/utils"
)

const tokenLifetime = 72 * time.Hour

// AuthController handles account registration, login and session endpoints.
type AuthController struct {
	db    *gorm.DB
	store *checkin.Store
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB, store *checkin.Store) *AuthController {
	return &AuthController{db: db, store: store}
}

// Register handles account registration with bcrypt hashing.
func (a *AuthController) Register(ctx *gin.Context) {
	type request struct {
		Username string `json:"username" binding:"required"`
		Nickname string `json:"nickname"`
		Password string `json:"password" binding:"required"`
		Confirm  string `json:"confirm" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	// Nickname and username get trimmed, the password never is.
	req.Username = strings.TrimSpace(req.Username)
	req.Nickname = strings.TrimSpace(utils.SanitizeText(req.Nickname))
	if req.Username == "" {
		utils.Error(ctx, http.StatusBadRequest, 40002, "username must not be empty")
		return
	}
	if l := len([]rune(req.Username)); l < 2 || l > 32 {
		utils.Error(ctx, http.StatusBadRequest, 40002, "username must be 2-32 characters")
		return
	}
	if !validUsername(req.Username) {
		utils.Error(ctx, http.StatusBadRequest, 40002, "username may contain letters, digits, CJK and '-'")
		return
	}
	if req.Password != req.Confirm {
		utils.Error(ctx, http.StatusBadRequest, 40003, "passwords do not match")
		return
	}
	if len(req.Password) < 6 || len(req.Password) > 64 {
		utils.Error(ctx, http.StatusBadRequest, 40003, "password must be 6-64 characters")
		return
	}
	if req.Nickname == "" {
		req.Nickname = req.Username
	}

	var existing models.User
	if err := a.db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusConflict, utils.CodeConflict, "username already exists")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to hash password")
		return
	}

	user := models.User{
		Username:     req.Username,
		Nickname:     req.Nickname,
		PasswordHash: hash,
	}
	if err := a.db.Create(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to create user")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, tokenLifetime)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to generate token")
		return
	}
	metrics.Registrations.Inc()

	utils.Success(ctx, gin.H{
		"token": token,
		"user":  userResponse(user),
	})
}

// Login verifies user credentials and issues a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	type request struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40004, "invalid request payload")
		return
	}

	var user models.User
	if err := a.db.Where("username = ?", strings.TrimSpace(req.Username)).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, tokenLifetime)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}
	metrics.Logins.Inc()

	utils.Success(ctx, gin.H{
		"token": token,
		"user":  userResponse(user),
	})
}

// Logout invalidates the token by blacklisting it until expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	token := ctx.GetString(middleware.ContextTokenKey)
	if token == "" {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "missing token")
		return
	}

	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	expiresAt := time.Now().Add(tokenLifetime)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	utils.BlacklistToken(token, expiresAt)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the current user's profile together with the check-in streak
// shown on the home screen.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		utils.Error(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "unauthorized")
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50005, "failed to get user")
		return
	}

	streak, err := a.store.GetStreak(user.Username)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50006, "failed to read check-in record")
		return
	}
	todayChecked, err := a.store.IsTodayCheckedIn(user.Username)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50006, "failed to read check-in record")
		return
	}

	resp := userResponse(user)
	resp["streak"] = streak
	resp["today_checked"] = todayChecked
	utils.Success(ctx, resp)
}

// validUsername allows CJK, letters, digits and '-'.
func validUsername(s string) bool {
	for _, r := range s {
		if r == '-' {
			continue
		}
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		if r >= 0x4E00 && r <= 0x9FFF {
			continue
		}
		return false
	}
	return true
}

func userResponse(user models.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"nickname":   user.Nickname,
		"created_at": user.CreatedAt,
	}
}
