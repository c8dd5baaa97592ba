package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/datamartgh/backend/internal/models"
)

const (
	settingsKey = "datamart:admin_settings"
	settingsTTL = 5 * time.Minute
)

// SettingsCache loads the admin settings row through Redis so every request
// sees a consistent snapshot without a database round trip, while updates
// invalidate explicitly. Redis being down degrades to reading the database.
type SettingsCache struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewSettingsCache creates a new settings cache
func NewSettingsCache(db *gorm.DB, redisClient *redis.Client) *SettingsCache {
	return &SettingsCache{db: db, redis: redisClient}
}

// Get returns the current admin settings
func (c *SettingsCache) Get() (*models.AdminSettings, error) {
	ctx := context.Background()

	if c.redis != nil {
		raw, err := c.redis.Get(ctx, settingsKey).Bytes()
		if err == nil {
			var settings models.AdminSettings
			if jsonErr := json.Unmarshal(raw, &settings); jsonErr == nil {
				return &settings, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			logrus.WithError(err).Warn("settings cache read failed, falling back to database")
		}
	}

	var settings models.AdminSettings
	if err := c.db.First(&settings).Error; err != nil {
		return nil, fmt.Errorf("error loading admin settings: %w", err)
	}

	if c.redis != nil {
		if raw, err := json.Marshal(&settings); err == nil {
			if err := c.redis.Set(ctx, settingsKey, raw, settingsTTL).Err(); err != nil {
				logrus.WithError(err).Warn("settings cache write failed")
			}
		}
	}

	return &settings, nil
}

// Update persists new settings and invalidates the cached copy
func (c *SettingsCache) Update(settings *models.AdminSettings) error {
	if err := c.db.Save(settings).Error; err != nil {
		return fmt.Errorf("error saving admin settings: %w", err)
	}
	c.Invalidate()
	return nil
}

// Invalidate drops the cached settings so the next Get rereads the database
func (c *SettingsCache) Invalidate() {
	if c.redis == nil {
		return
	}
	if err := c.redis.Del(context.Background(), settingsKey).Err(); err != nil {
		logrus.WithError(err).Warn("settings cache invalidation failed")
	}
}
