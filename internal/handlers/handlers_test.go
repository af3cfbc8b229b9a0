package handlers

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/inneranimal/rescue-api/internal/models"
)

// newTestDB opens an in-memory sqlite database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get underlying DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Animal{},
		&models.AnimalImage{},
		&models.TNRRequest{},
		&models.AdoptionApplication{},
		&models.ContactSubmission{},
		&models.Profile{},
		&models.Conversation{},
		&models.Message{},
		&models.Post{},
		&models.VideoRoom{},
		&models.Subscription{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}

	return db
}

// newTestApp creates a bare fiber app for handler tests; auth middleware is
// left off so routes can be exercised directly. The body limit sits above
// the per-file upload cap so size validation happens in the handler.
func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{BodyLimit: 64 << 20})
}

// memStore is an in-memory object store for handler tests
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (m *memStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.objects[key] = data
	return "https://cdn.test/" + key, nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// nopNotifier satisfies the form fanout without side effects
type nopNotifier struct{}

func (nopNotifier) NotifyAdmin(ctx context.Context, formType string, fields map[string]string) error {
	return nil
}

func (nopNotifier) ConfirmUser(ctx context.Context, email, firstName, formType string) error {
	return nil
}

func (nopNotifier) PostAnalytics(ctx context.Context, event string, payload map[string]interface{}) {
}

func seedAnimal(t *testing.T, db *gorm.DB, name, animalType string) *models.Animal {
	t.Helper()
	animal := &models.Animal{Name: name, Type: animalType, Status: "available"}
	if err := db.Create(animal).Error; err != nil {
		t.Fatalf("failed to seed animal: %v", err)
	}
	return animal
}

func errMsg(t *testing.T, body map[string]interface{}) string {
	t.Helper()
	msg, _ := body["message"].(string)
	if msg == "" {
		t.Logf("response body: %v", body)
	}
	return fmt.Sprintf("%v", msg)
}
