package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
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
	// Single connection keeps the in-memory database alive and shared
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

// fakeStore is an in-memory ObjectStore for tests
type fakeStore struct {
	mu         sync.Mutex
	objects    map[string][]byte
	deleted    []string
	failUpload bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpload {
		return "", fmt.Errorf("upload rejected")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.objects[key] = data
	return "https://cdn.test/" + key, nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStore) deletedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func uploadFixture(name string) UploadFile {
	return UploadFile{
		Filename:    name,
		Size:        4,
		ContentType: "image/jpeg",
		Reader:      bytes.NewReader([]byte("data")),
	}
}

func createTestAnimal(t *testing.T, db *gorm.DB, name string) *models.Animal {
	t.Helper()
	animal := &models.Animal{Name: name, Type: "dog"}
	if err := CreateAnimal(db, animal); err != nil {
		t.Fatalf("failed to create animal: %v", err)
	}
	return animal
}
