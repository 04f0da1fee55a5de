package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"tracker/contexts/audience-insights/tracking-service/domain/entities"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const sourceTag = "tracker"

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// InsertEvent writes one row per event. The full enriched event document is
// serialized into the data column alongside the fixed column mapping.
func (r *Repository) InsertEvent(ctx context.Context, event entities.TrackingEvent) error {
	document, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode tracking event document: %w", err)
	}

	row := trackerModel{
		SessionID: event.SessionID.String(),
		Version:   event.Version,
		SendOrder: event.Order,
		Env:       nullable(event.Env),
		Source:    sourceTag,
		Page:      nullable(event.Page),
		Action:    string(event.Action),
		Data:      string(document),
		IsAdmin:   event.IsAdmin(),
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			r.logger.Error("tracker insert rejected by postgres",
				"event", "tracker_insert_pg_error",
				"module", "audience-insights/tracking-service",
				"layer", "adapter",
				"pg_code", pgErr.Code,
				"constraint", pgErr.ConstraintName,
			)
		}
		return fmt.Errorf("insert tracker row: %w", err)
	}
	return nil
}

type trackerModel struct {
	SessionID string  `gorm:"column:session_id"`
	Version   int     `gorm:"column:version"`
	SendOrder int     `gorm:"column:send_order"`
	Env       *string `gorm:"column:env"`
	Source    string  `gorm:"column:source"`
	Page      *string `gorm:"column:page"`
	Action    string  `gorm:"column:action"`
	Data      string  `gorm:"column:data"`
	IsAdmin   bool    `gorm:"column:isadmin"`
}

func (trackerModel) TableName() string {
	return "trackers"
}

func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
