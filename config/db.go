package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"acacia-hotel-backend/models"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN(cfg *Config) (string, error) {
	raw := strings.TrimSpace(cfg.DatabaseURL)
	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName,
	), nil
}

// ConnectDatabase opens MySQL, runs migrations and seeding, and returns the
// handle. The handle is injected into services rather than held as a global.
func ConnectDatabase(cfg *Config, logg zerolog.Logger) (*gorm.DB, error) {
	dsn, err := resolveMySQLDSN(cfg)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Warn
	if cfg.Env == "development" {
		logLevel = logger.Info
	}
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logLevel,
			Colorful:      cfg.Env == "development",
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, err
	}

	// AutoMigrate in parent->child order
	if err := db.AutoMigrate(
		&models.User{},
		&models.RoomType{},
		&models.Room{},
		&models.Booking{},
		&models.BookingRoom{},
		&models.Payment{},
		&models.ActivityLog{},
	); err != nil {
		return nil, err
	}

	if err := SeedDatabase(db, cfg, logg); err != nil {
		return nil, err
	}

	return db, nil
}

// SeedDatabase creates the default admin and a starter room inventory when
// the relevant tables are empty.
func SeedDatabase(db *gorm.DB, cfg *Config, logg zerolog.Logger) error {
	// ---------------- Admin user ----------------
	var userCount int64
	db.Model(&models.User{}).Count(&userCount)
	if userCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.SeedAdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash default admin password: %w", err)
		}
		admin := models.User{
			FullName: "Admin User",
			Email:    cfg.SeedAdminEmail,
			Password: string(hash),
			Role:     models.RoleAdmin,
			Status:   models.UserActive,
		}
		if err := db.Create(&admin).Error; err != nil {
			return fmt.Errorf("failed to create default admin: %w", err)
		}
		logg.Info().Str("email", admin.Email).Msg("default admin seeded")
	}

	// ---------------- Room types ----------------
	var rtCount int64
	db.Model(&models.RoomType{}).Count(&rtCount)
	if rtCount == 0 {
		roomTypes := []models.RoomType{
			{
				Name: "Standard", Slug: "standard", Description: "Standard Room",
				Capacity: 2, BedType: "Queen", SizeSqm: 22, Amenities: "WiFi,TV",
				SingleRateEA: 3000, DoubleRateEA: 3500, SingleRateIntl: 40, DoubleRateIntl: 45,
			},
			{
				Name: "Deluxe", Slug: "deluxe", Description: "Deluxe Room",
				Capacity: 3, BedType: "King", SizeSqm: 32, Amenities: "WiFi,TV,Minibar",
				SingleRateEA: 5000, DoubleRateEA: 6000, SingleRateIntl: 65, DoubleRateIntl: 75,
			},
			{
				Name: "Suite", Slug: "suite", Description: "Executive Suite",
				Capacity: 4, BedType: "King", SizeSqm: 48, Amenities: "WiFi,TV,Minibar,Balcony",
				SingleRateEA: 9000, DoubleRateEA: 10500, SingleRateIntl: 110, DoubleRateIntl: 125,
			},
		}
		if err := db.Create(&roomTypes).Error; err != nil {
			return fmt.Errorf("failed to seed room types: %w", err)
		}
		logg.Info().Int("count", len(roomTypes)).Msg("room types seeded")
	}

	return nil
}
