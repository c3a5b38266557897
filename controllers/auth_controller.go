package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"acacia-hotel-backend/middleware"
	"acacia-hotel-backend/models"
	"acacia-hotel-backend/services"
	"acacia-hotel-backend/utils"
)

type AuthController struct {
	DB        *gorm.DB
	JWTSecret string
	Activity  *services.ActivityService
}

func NewAuthController(db *gorm.DB, jwtSecret string, activity *services.ActivityService) *AuthController {
	return &AuthController{DB: db, JWTSecret: jwtSecret, Activity: activity}
}

type signupPayload struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginPayload struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type changePasswordPayload struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// Signup self-registers a staff account. New accounts sit in PENDING until
// an admin approves them.
func (ctrl *AuthController) Signup(c *gin.Context) {
	var payload signupPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "full_name, email and a password of at least 8 characters are required")
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	var existing models.User
	if err := ctrl.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		utils.JSONError(c, http.StatusConflict, "an account with this email already exists")
		return
	}

	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
		return
	}

	user := models.User{
		FullName: strings.TrimSpace(payload.FullName),
		Email:    email,
		Password: hash,
		Role:     models.RoleStaff,
		Status:   models.UserPending,
	}
	if err := ctrl.DB.Create(&user).Error; err != nil {
		// the pre-check can lose a race with a concurrent signup
		if isDuplicateEntry(err) {
			utils.JSONError(c, http.StatusConflict, "an account with this email already exists")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
		return
	}

	ctrl.Activity.Record(email, "user.signup", "user", user.ID, gin.H{"email": email})
	utils.JSONSuccess(c, http.StatusCreated, gin.H{
		"id":     user.ID,
		"email":  user.Email,
		"status": user.Status,
	})
}

// Login checks credentials, stamps last_login_at and issues a 7-day token.
func (ctrl *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "email and password required")
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	var user models.User
	if err := ctrl.DB.Where("email = ?", email).First(&user).Error; err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if !utils.CheckPassword(user.Password, payload.Password) {
		utils.JSONError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if user.Status != models.UserActive {
		utils.JSONError(c, http.StatusUnauthorized, "account is pending approval")
		return
	}

	token, err := utils.GenerateToken(ctrl.JWTSecret, user.ID, user.Email, user.Role)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to generate token")
		return
	}

	now := time.Now()
	ctrl.DB.Model(&user).Update("last_login_at", now)

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":        user.ID,
			"full_name": user.FullName,
			"email":     user.Email,
			"role":      user.Role,
		},
	})
}

// Me returns the authenticated user's profile.
func (ctrl *AuthController) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthenticated")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}

func (ctrl *AuthController) ChangePassword(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthenticated")
		return
	}

	var payload changePasswordPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "current_password and a new_password of at least 8 characters are required")
		return
	}

	if !utils.CheckPassword(user.Password, payload.CurrentPassword) {
		utils.JSONError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	hash, err := utils.HashPassword(payload.NewPassword)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
		return
	}
	if err := ctrl.DB.Model(&user).Update("password", hash).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
		return
	}

	ctrl.Activity.Record(user.Email, "user.changePassword", "user", user.ID, nil)
	utils.JSONMessage(c, http.StatusOK, "password updated")
}
