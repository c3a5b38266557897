package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"acacia-hotel-backend/middleware"
	"acacia-hotel-backend/models"
	"acacia-hotel-backend/services"
	"acacia-hotel-backend/utils"
)

// UserController is the admin-only user management surface.
type UserController struct {
	DB       *gorm.DB
	Activity *services.ActivityService
}

func NewUserController(db *gorm.DB, activity *services.ActivityService) *UserController {
	return &UserController{DB: db, Activity: activity}
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func (ctrl *UserController) List(c *gin.Context) {
	var users []models.User
	if err := ctrl.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, users)
}

type createUserPayload struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required"`
}

// Create is the admin path; accounts created here are active immediately.
func (ctrl *UserController) Create(c *gin.Context) {
	var payload createUserPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "full_name, email, password and role are required")
		return
	}
	if !models.ValidRole(payload.Role) {
		utils.JSONError(c, http.StatusBadRequest, "role must be one of ADMIN, MANAGER, STAFF")
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
		Role:     payload.Role,
		Status:   models.UserActive,
	}
	if err := ctrl.DB.Create(&user).Error; err != nil {
		if isDuplicateEntry(err) {
			utils.JSONError(c, http.StatusConflict, "an account with this email already exists")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
		return
	}

	actor, _ := middleware.CurrentUser(c)
	ctrl.Activity.Record(actor.Email, "user.create", "user", user.ID, gin.H{"email": email, "role": user.Role})
	utils.JSONSuccess(c, http.StatusCreated, user)
}

// Approve activates a PENDING self-registered account.
func (ctrl *UserController) Approve(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var user models.User
	if err := ctrl.DB.First(&user, id).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "user not found")
		return
	}
	if user.Status != models.UserPending {
		utils.JSONError(c, http.StatusConflict, "user is not pending approval")
		return
	}

	if err := ctrl.DB.Model(&user).Update("status", models.UserActive).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
		return
	}

	actor, _ := middleware.CurrentUser(c)
	ctrl.Activity.Record(actor.Email, "user.approve", "user", user.ID, nil)
	utils.JSONSuccess(c, http.StatusOK, user)
}

// Reject hard-deletes a PENDING account.
func (ctrl *UserController) Reject(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var user models.User
	if err := ctrl.DB.First(&user, id).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "user not found")
		return
	}
	if user.Status != models.UserPending {
		utils.JSONError(c, http.StatusConflict, "user is not pending approval")
		return
	}

	if err := ctrl.DB.Unscoped().Delete(&user).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
		return
	}

	actor, _ := middleware.CurrentUser(c)
	ctrl.Activity.Record(actor.Email, "user.reject", "user", id, gin.H{"email": user.Email})
	utils.JSONMessage(c, http.StatusOK, "user rejected")
}

type updateUserPayload struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
}

func (ctrl *UserController) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var payload updateUserPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	var user models.User
	if err := ctrl.DB.First(&user, id).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "user not found")
		return
	}

	updates := map[string]interface{}{}
	if payload.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*payload.FullName)
	}
	if payload.Email != nil {
		updates["email"] = strings.ToLower(strings.TrimSpace(*payload.Email))
	}
	if payload.Role != nil {
		if !models.ValidRole(*payload.Role) {
			utils.JSONError(c, http.StatusBadRequest, "role must be one of ADMIN, MANAGER, STAFF")
			return
		}
		updates["role"] = *payload.Role
	}

	if len(updates) > 0 {
		if err := ctrl.DB.Model(&user).Updates(updates).Error; err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "internal error")
			return
		}
	}

	actor, _ := middleware.CurrentUser(c)
	ctrl.Activity.Record(actor.Email, "user.update", "user", user.ID, updates)
	utils.JSONSuccess(c, http.StatusOK, user)
}

// Delete removes the account for good (hard delete).
func (ctrl *UserController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	actor, _ := middleware.CurrentUser(c)
	if actor.ID == id {
		utils.JSONError(c, http.StatusConflict, "cannot delete your own account")
		return
	}

	result := ctrl.DB.Unscoped().Delete(&models.User{}, id)
	if result.Error != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
		return
	}
	if result.RowsAffected == 0 {
		utils.JSONError(c, http.StatusNotFound, "user not found")
		return
	}

	ctrl.Activity.Record(actor.Email, "user.delete", "user", id, nil)
	utils.JSONMessage(c, http.StatusOK, "user deleted")
}
