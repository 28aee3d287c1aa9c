package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/database"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db       *sql.DB
	features map[string]bool
}

// NewSystemService creates a new SystemService. features lists the optional
// capabilities this instance was started with.
func NewSystemService(db *sql.DB, features map[string]bool) *SystemService {
	if features == nil {
		features = map[string]bool{}
	}
	return &SystemService{
		db:       db,
		features: features,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth(ctx context.Context) model.HealthStatus {
	if err := database.HealthCheck(ctx, s.db); err != nil {
		return model.HealthStatus{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		}
	}
	return model.HealthStatus{
		Status:   "healthy",
		Database: "connected",
	}
}

// CheckVersion reports the application version, the applied and latest schema
// versions and whether a migration is pending.
func (s *SystemService) CheckVersion(ctx context.Context) (model.VersionInfo, error) {
	current, latest, err := database.SchemaVersion(ctx, s.db)
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToGetVersionInfo, err)
	}

	info := model.VersionInfo{
		AppVersion:      version.Version,
		DbVersion:       strconv.FormatInt(current, 10),
		LatestDbVersion: strconv.FormatInt(latest, 10),
		Features:        s.features,
		MigrationNeeded: current < latest,
	}
	if info.MigrationNeeded {
		msg := fmt.Sprintf("database is at version %d, %d is available", current, latest)
		info.MigrationMessage = &msg
	}
	return info, nil
}
