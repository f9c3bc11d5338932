package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"tessera-backend/internal/domain"
	"tessera-backend/internal/infrastructure/database"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupNotificationsTest(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return &Service{DB: db}, db
}

func TestQueue_PersistsNotificationWithPayload(t *testing.T) {
	svc, db := setupNotificationsTest(t)
	userID := uuid.New()

	err := svc.Queue(context.Background(), userID, "Purchase complete", "You bought 100 tokens.",
		map[string]interface{}{"trade_id": "TRD-000001", "tokens": 100})
	require.NoError(t, err)

	var stored domain.Notification
	require.NoError(t, db.Where("user_id = ?", userID).First(&stored).Error)
	assert.Equal(t, "Purchase complete", stored.Title)
	assert.False(t, stored.Read)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(stored.Data, &payload))
	assert.Equal(t, "TRD-000001", payload["trade_id"])
}

func TestQueueAsync_EventuallyPersists(t *testing.T) {
	svc, db := setupNotificationsTest(t)
	userID := uuid.New()

	svc.QueueAsync(userID, "Tokens sold", "Your listing sold tokens.", nil)

	deadline := time.Now().Add(2 * time.Second)
	for {
		var count int64
		require.NoError(t, db.Model(&domain.Notification{}).Where("user_id = ?", userID).Count(&count).Error)
		if count == 1 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("async notification never persisted")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestGetUserNotifications_NewestFirstAndScoped(t *testing.T) {
	svc, db := setupNotificationsTest(t)
	userID := uuid.New()
	otherID := uuid.New()

	require.NoError(t, svc.Queue(context.Background(), userID, "first", "m", nil))
	require.NoError(t, svc.Queue(context.Background(), userID, "second", "m", nil))
	require.NoError(t, svc.Queue(context.Background(), otherID, "not yours", "m", nil))

	// Force distinct timestamps so the ordering is deterministic.
	require.NoError(t, db.Model(&domain.Notification{}).Where("title = ?", "second").
		Update("created_at", time.Now().Add(time.Minute)).Error)

	out, err := svc.GetUserNotifications(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "second", out[0].Title)
	assert.Equal(t, "first", out[1].Title)
}
