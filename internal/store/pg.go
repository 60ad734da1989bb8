package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/deedhub/land-registry/internal/config"
	"github.com/deedhub/land-registry/internal/domain"
	"github.com/deedhub/land-registry/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore opens a postgres-backed store, migrates the schema and
// configures the connection pool.
func NewPGStore(cfg config.DatabaseConfig) (Store, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&schema.Property{}, &schema.ActivityLog{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	if err := configureConnectionPool(db, cfg); err != nil {
		return nil, err
	}

	return &pgStore{db: db}, nil
}

// NewPGStoreWithDB wraps an existing gorm handle; used by tests
func NewPGStoreWithDB(db *gorm.DB) Store {
	return &pgStore{db: db}
}

func configureConnectionPool(db *gorm.DB, cfg config.DatabaseConfig) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	return nil
}

func (s *pgStore) GetProperty(ctx context.Context, propertyID string) (*schema.Property, error) {
	var property schema.Property
	err := s.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		First(&property).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPropertyNotFound
		}
		return nil, err
	}
	return &property, nil
}

func (s *pgStore) GetPropertyByTokenID(ctx context.Context, tokenID uint64) (*schema.Property, error) {
	var property schema.Property
	err := s.db.WithContext(ctx).
		Where("token_id = ?", tokenID).
		First(&property).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPropertyNotFound
		}
		return nil, err
	}
	return &property, nil
}

func (s *pgStore) UpsertProperty(ctx context.Context, property *schema.Property) error {
	var existing schema.Property
	err := s.db.WithContext(ctx).
		Where("property_id = ?", property.PropertyID).
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.db.WithContext(ctx).Create(property).Error
		}
		return err
	}

	property.ID = existing.ID
	property.CreatedAt = existing.CreatedAt
	// Registration outcome fields are only written through ApplyChainRegistration
	if property.TokenID == nil {
		property.TokenID = existing.TokenID
	}
	if property.TxHash == "" {
		property.TxHash = existing.TxHash
	}
	if property.MetadataCID == "" {
		property.MetadataCID = existing.MetadataCID
	}
	if property.Status == "" {
		property.Status = existing.Status
	}
	return s.db.WithContext(ctx).Save(property).Error
}

func (s *pgStore) ApplyChainRegistration(ctx context.Context, reg domain.ChainRegistration) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&schema.Property{}).
			Where("property_id = ?", reg.PropertyID).
			Updates(map[string]interface{}{
				"token_id":     reg.TokenID,
				"tx_hash":      reg.TxHash,
				"metadata_cid": reg.MetadataCID,
				"status":       schema.PropertyStatusRegistered,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrPropertyNotFound
		}
		return nil
	})
}

func (s *pgStore) CreateActivityLog(ctx context.Context, log *schema.ActivityLog) error {
	return s.db.WithContext(ctx).Create(log).Error
}

func (s *pgStore) ListActivityLogs(ctx context.Context, propertyID string, limit int) ([]schema.ActivityLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var logs []schema.ActivityLog
	err := s.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
