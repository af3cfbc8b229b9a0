//go:build integration

package database

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/inneranimal/rescue-api/internal/config"
	"github.com/inneranimal/rescue-api/internal/models"
)

// TestConnectPostgres runs the full connect and migrate path against a real
// postgres instance. Requires a docker daemon; run with -tags integration.
func TestConnectPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "rescue",
			"POSTGRES_PASSWORD": "rescue",
			"POSTGRES_DB":       "rescue",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	defer container.Terminate(ctx)

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get mapped port: %v", err)
	}

	cfg := &config.Config{
		DBType:            "postgres",
		DBHost:            host,
		DBPort:            port.Port(),
		DBDatabase:        "rescue",
		DBUser:            "rescue",
		DBPassword:        "rescue",
		DBConnectionLimit: 5,
	}

	db, err := Connect(cfg)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer Close(db)

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	// Round-trip a row through the real schema
	animal := &models.Animal{Name: "Rex", Type: "dog", Status: "available"}
	if err := db.Create(animal).Error; err != nil {
		t.Fatalf("create failed: %v", err)
	}

	var loaded models.Animal
	if err := db.First(&loaded, "id = ?", animal.ID).Error; err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Name != "Rex" {
		t.Errorf("unexpected row: %+v", loaded)
	}
}
