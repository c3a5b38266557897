package services

import (
	"encoding/json"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"acacia-hotel-backend/models"
)

// ActivityService appends audit entries. Writes are best-effort: a failed
// audit write is logged and never fails the operation it describes.
type ActivityService struct {
	DB  *gorm.DB
	Log zerolog.Logger
}

func NewActivityService(db *gorm.DB, logg zerolog.Logger) *ActivityService {
	return &ActivityService{DB: db, Log: logg}
}

func (s *ActivityService) Record(actor, action, entityType string, entityID uint, details interface{}) {
	var blob datatypes.JSON
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			s.Log.Warn().Err(err).Str("action", action).Msg("failed to marshal activity details")
		} else {
			blob = datatypes.JSON(b)
		}
	}

	entry := models.ActivityLog{
		Actor:      actor,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    blob,
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		s.Log.Warn().Err(err).Str("action", action).Msg("failed to write activity log")
	}
}
