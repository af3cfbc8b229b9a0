package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/inneranimal/rescue-api/internal/models"
)

// preloadImages orders nested images primary first, then by sort order
func preloadImages(db *gorm.DB) *gorm.DB {
	return db.Order("is_primary DESC, sort_order ASC")
}

// ListAnimals returns animals filtered by status and type, newest first.
// An empty status defaults to "available"; "all" disables the status filter.
func ListAnimals(db *gorm.DB, status, animalType string) ([]models.Animal, error) {
	if status == "" {
		status = "available"
	}

	query := db.Model(&models.Animal{}).Preload("Images", preloadImages)
	if status != "all" {
		query = query.Where("status = ?", status)
	}
	if animalType != "" {
		query = query.Where("type = ?", animalType)
	}

	var animals []models.Animal
	if err := query.Order("created_at DESC").Find(&animals).Error; err != nil {
		return nil, fmt.Errorf("failed to list animals: %w", err)
	}

	return animals, nil
}

// GetAnimal returns a single animal with its ordered images
func GetAnimal(db *gorm.DB, id string) (*models.Animal, error) {
	var animal models.Animal
	err := db.Preload("Images", preloadImages).First(&animal, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get animal %s: %w", id, err)
	}
	return &animal, nil
}

// CreateAnimal inserts a new animal listing
func CreateAnimal(db *gorm.DB, animal *models.Animal) error {
	if animal.Status == "" {
		animal.Status = "available"
	}
	if err := db.Create(animal).Error; err != nil {
		return fmt.Errorf("failed to create animal: %w", err)
	}
	return nil
}

// UpdateAnimal applies a full update to an existing animal and returns it
// with its images. Zero-valued fields overwrite, so unchecked booleans clear.
func UpdateAnimal(db *gorm.DB, id string, updates *models.Animal) (*models.Animal, error) {
	var existing models.Animal
	err := db.First(&existing, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load animal %s: %w", id, err)
	}

	err = db.Model(&existing).
		Select("name", "type", "breed", "age", "gender", "price", "description",
			"spayed_neutered", "vaccinated", "microchipped", "heartworm_status",
			"health_notes", "special_note", "foster_to_adopt",
			"available_for_reservation", "status").
		Updates(updates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update animal %s: %w", id, err)
	}

	return GetAnimal(db, id)
}

// DeleteAnimal removes an animal, its image rows, and best-effort its stored
// objects. Storage failures are logged and never block the delete.
func DeleteAnimal(ctx context.Context, db *gorm.DB, store ObjectStore, id string) error {
	var animal models.Animal
	err := db.Preload("Images").First(&animal, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("not found")
	}
	if err != nil {
		return fmt.Errorf("failed to load animal %s: %w", id, err)
	}

	if store != nil {
		for _, img := range animal.Images {
			if err := store.Delete(ctx, img.Key); err != nil {
				log.Printf("storage delete failed for %s: %v", img.Key, err)
			}
		}
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("animal_id = ?", id).Delete(&models.AnimalImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Animal{}, "id = ?", id).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete animal %s: %w", id, err)
	}

	return nil
}
