package services

import (
	"context"
	"fmt"
	"time"

	"github.com/localnerve/clientsdb/internal/config"
	"github.com/localnerve/clientsdb/internal/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	DatabaseHost string            `json:"databaseHost,omitempty"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck checks the database connection pool and, for networked
// databases, that the database host accepts TCP connections.
func HealthCheck(ctx context.Context, cfg *config.Config, db *gorm.DB, log logrus.FieldLogger) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	fail := func(component, detail string, err error) {
		result.Status = "unhealthy"
		result.Details[component+"_error"] = err.Error()
		msg := fmt.Sprintf("%s: %v", detail, err)
		if result.ErrorMessage == "" {
			result.ErrorMessage = msg
		} else {
			result.ErrorMessage += "; " + msg
		}
		log.WithError(err).Warnf("Health check failed - %s", detail)
	}

	sqlDB, err := db.DB()
	if err != nil {
		result.Database = "error"
		fail("database", "Database connection error", err)
	} else {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(pingCtx); err != nil {
			result.Database = "unreachable"
			fail("database_ping", "Database ping failed", err)
		} else {
			result.Database = "ok"
			result.Details["database_type"] = cfg.DBType
			result.Details["database_name"] = cfg.DBDatabase
		}
	}

	if !cfg.IsEmbeddedDB() {
		if err := utils.PingDatabaseHost(cfg.DBHost, cfg.DBPort); err != nil {
			result.DatabaseHost = "unreachable"
			fail("database_host", "Database host ping failed", err)
		} else {
			result.DatabaseHost = "ok"
		}
	}

	if result.Status == "healthy" {
		log.Debug("Health check passed - all systems operational")
	}

	return result
}
