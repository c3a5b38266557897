package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"acacia-hotel-backend/middleware"
	"acacia-hotel-backend/models"
	"acacia-hotel-backend/services"
	"acacia-hotel-backend/utils"
)

type RoomTypeController struct {
	DB       *gorm.DB
	Activity *services.ActivityService
}

func NewRoomTypeController(db *gorm.DB, activity *services.ActivityService) *RoomTypeController {
	return &RoomTypeController{DB: db, Activity: activity}
}

func (ctrl *RoomTypeController) List(c *gin.Context) {
	var types []models.RoomType
	if err := ctrl.DB.Order("name").Find(&types).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, types)
}

func (ctrl *RoomTypeController) Create(c *gin.Context) {
	var rt models.RoomType
	if err := c.ShouldBindJSON(&rt); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	rt.Name = strings.TrimSpace(rt.Name)
	if rt.Name == "" {
		utils.JSONError(c, http.StatusBadRequest, "name is required")
		return
	}
	if rt.Slug == "" {
		rt.Slug = strings.ToLower(strings.ReplaceAll(rt.Name, " ", "-"))
	}

	if err := ctrl.DB.Create(&rt).Error; err != nil {
		if isDuplicateEntry(err) {
			utils.JSONError(c, http.StatusConflict, "a room type with this slug already exists")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
		return
	}

	actor, _ := middleware.CurrentUser(c)
	ctrl.Activity.Record(actor.Email, "roomType.create", "room_type", rt.ID, gin.H{"slug": rt.Slug})
	utils.JSONSuccess(c, http.StatusCreated, rt)
}

func (ctrl *RoomTypeController) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	delete(updateData, "id")
	delete(updateData, "created_at")
	delete(updateData, "updated_at")
	delete(updateData, "deleted_at")

	result := ctrl.DB.Model(&models.RoomType{}).Where("id = ?", id).Updates(updateData)
	if result.Error != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
		return
	}
	if result.RowsAffected == 0 {
		utils.JSONError(c, http.StatusNotFound, "room type not found")
		return
	}

	actor, _ := middleware.CurrentUser(c)
	ctrl.Activity.Record(actor.Email, "roomType.update", "room_type", id, updateData)
	utils.JSONMessage(c, http.StatusOK, "room type updated")
}

func (ctrl *RoomTypeController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result := ctrl.DB.Delete(&models.RoomType{}, id)
	if result.Error != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
		return
	}
	if result.RowsAffected == 0 {
		utils.JSONError(c, http.StatusNotFound, "room type not found")
		return
	}

	actor, _ := middleware.CurrentUser(c)
	ctrl.Activity.Record(actor.Email, "roomType.delete", "room_type", id, nil)
	utils.JSONMessage(c, http.StatusOK, "room type deleted")
}
