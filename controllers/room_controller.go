package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	mysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"acacia-hotel-backend/middleware"
	"acacia-hotel-backend/models"
	"acacia-hotel-backend/services"
	"acacia-hotel-backend/utils"
)

type RoomController struct {
	DB       *gorm.DB
	Activity *services.ActivityService
}

func NewRoomController(db *gorm.DB, activity *services.ActivityService) *RoomController {
	return &RoomController{DB: db, Activity: activity}
}

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return strings.Contains(err.Error(), "Duplicate entry")
}

func (ctrl *RoomController) List(c *gin.Context) {
	var rooms []models.Room
	if err := ctrl.DB.Preload("RoomType").Order("room_number").Find(&rooms).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

type createRoomPayload struct {
	RoomNumber string `json:"room_number" binding:"required"`
	Floor      string `json:"floor"`
	RoomTypeID uint   `json:"room_type_id" binding:"required"`
}

func (ctrl *RoomController) Create(c *gin.Context) {
	var payload createRoomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "room_number and room_type_id are required")
		return
	}

	roomNumber := strings.TrimSpace(payload.RoomNumber)
	if roomNumber == "" {
		utils.JSONError(c, http.StatusBadRequest, "room number is required")
		return
	}

	var rt models.RoomType
	if err := ctrl.DB.First(&rt, payload.RoomTypeID).Error; err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid room_type_id")
		return
	}

	room := models.Room{
		RoomTypeID: &rt.ID,
		RoomNumber: roomNumber,
		Floor:      strings.TrimSpace(payload.Floor),
		Status:     models.RoomAvailable,
	}
	if err := ctrl.DB.Create(&room).Error; err != nil {
		if isDuplicateEntry(err) {
			utils.JSONError(c, http.StatusConflict, fmt.Sprintf("room number '%s' already exists", roomNumber))
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
		return
	}

	actor, _ := middleware.CurrentUser(c)
	ctrl.Activity.Record(actor.Email, "room.create", "room", room.ID, gin.H{"room_number": roomNumber})
	utils.JSONSuccess(c, http.StatusCreated, room)
}

func (ctrl *RoomController) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	// protect immutable fields
	delete(updateData, "id")
	delete(updateData, "created_at")
	delete(updateData, "updated_at")
	delete(updateData, "deleted_at")

	if status, found := updateData["status"]; found {
		s, _ := status.(string)
		if !models.ValidRoomStatus(s) {
			utils.JSONError(c, http.StatusBadRequest, "invalid room status")
			return
		}
	}

	result := ctrl.DB.Model(&models.Room{}).Where("id = ?", id).Updates(updateData)
	if result.Error != nil {
		if isDuplicateEntry(result.Error) {
			utils.JSONError(c, http.StatusConflict, "room number already exists")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
		return
	}
	if result.RowsAffected == 0 {
		utils.JSONError(c, http.StatusNotFound, "room not found")
		return
	}

	actor, _ := middleware.CurrentUser(c)
	ctrl.Activity.Record(actor.Email, "room.update", "room", id, updateData)
	utils.JSONMessage(c, http.StatusOK, "room updated")
}

func (ctrl *RoomController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result := ctrl.DB.Delete(&models.Room{}, id)
	if result.Error != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
		return
	}
	if result.RowsAffected == 0 {
		utils.JSONError(c, http.StatusNotFound, "room not found")
		return
	}

	actor, _ := middleware.CurrentUser(c)
	ctrl.Activity.Record(actor.Email, "room.delete", "room", id, nil)
	utils.JSONMessage(c, http.StatusOK, "room deleted")
}
