package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"gorm.io/gorm"

	"github.com/inneranimal/rescue-api/internal/models"
	"github.com/inneranimal/rescue-api/internal/storage"
)

// ObjectStore is the slice of object storage the image lifecycle needs
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// UploadFile is one validated file from a multipart upload request
type UploadFile struct {
	Filename    string
	Size        int64
	ContentType string
	Reader      io.Reader
}

// UploadAnimalImages stores files for an animal and records them in order.
// New images append after existing ones and are never primary, except that
// the first image of an animal with no primary picture is promoted
// automatically. A failing file aborts the call; files already committed
// stay committed.
func UploadAnimalImages(ctx context.Context, db *gorm.DB, store ObjectStore, animalID string, files []UploadFile) ([]models.AnimalImage, error) {
	var animal models.Animal
	err := db.First(&animal, "id = ?", animalID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load animal %s: %w", animalID, err)
	}

	uploaded := make([]models.AnimalImage, 0, len(files))
	for _, file := range files {
		key := storage.ObjectKey(fmt.Sprintf("animals/%s", animalID), file.Filename)
		url, err := store.Upload(ctx, key, file.Reader, file.ContentType)
		if err != nil {
			return uploaded, fmt.Errorf("failed to store %s: %w", file.Filename, err)
		}

		image := models.AnimalImage{
			AnimalID: animalID,
			Key:      key,
			URL:      url,
			Filename: file.Filename,
			FileSize: file.Size,
			MimeType: file.ContentType,
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			var maxOrder int
			row := tx.Model(&models.AnimalImage{}).
				Where("animal_id = ?", animalID).
				Select("COALESCE(MAX(sort_order), -1)").
				Row()
			if err := row.Scan(&maxOrder); err != nil {
				return err
			}
			image.SortOrder = maxOrder + 1

			if err := tx.Create(&image).Error; err != nil {
				return err
			}

			// First image wins primary; the guarded update keeps concurrent
			// uploads from promoting more than one.
			res := tx.Model(&models.Animal{}).
				Where("id = ? AND image_url IS NULL", animalID).
				Update("image_url", image.URL)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 1 {
				image.IsPrimary = true
				return tx.Model(&models.AnimalImage{}).
					Where("id = ?", image.ID).
					Update("is_primary", true).Error
			}
			return nil
		})
		if err != nil {
			if delErr := store.Delete(ctx, key); delErr != nil {
				log.Printf("storage cleanup failed for %s: %v", key, delErr)
			}
			return uploaded, fmt.Errorf("failed to record %s: %w", file.Filename, err)
		}

		uploaded = append(uploaded, image)
	}

	return uploaded, nil
}

// SetPrimaryImage marks one image primary and demotes the rest in a single
// conditional update, so concurrent calls settle on exactly one primary.
func SetPrimaryImage(db *gorm.DB, animalID, imageID string) (*models.AnimalImage, error) {
	image, err := findOwnedImage(db, animalID, imageID)
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.AnimalImage{}).
			Where("animal_id = ?", animalID).
			Update("is_primary", gorm.Expr("CASE WHEN id = ? THEN ? ELSE ? END", imageID, true, false)).Error
		if err != nil {
			return err
		}
		return tx.Model(&models.Animal{}).
			Where("id = ?", animalID).
			Update("image_url", image.URL).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set primary image %s: %w", imageID, err)
	}

	image.IsPrimary = true
	return image, nil
}

// DeleteAnimalImage removes an image. The stored object delete is
// best-effort; when the deleted image was primary the remaining image with
// the lowest sort order is promoted, or the animal's picture is cleared.
func DeleteAnimalImage(ctx context.Context, db *gorm.DB, store ObjectStore, animalID, imageID string) error {
	image, err := findOwnedImage(db, animalID, imageID)
	if err != nil {
		return err
	}

	if store != nil {
		if err := store.Delete(ctx, image.Key); err != nil {
			log.Printf("storage delete failed for %s: %v", image.Key, err)
		}
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.AnimalImage{}, "id = ?", imageID).Error; err != nil {
			return err
		}

		if !image.IsPrimary {
			return nil
		}

		var next models.AnimalImage
		err := tx.Where("animal_id = ?", animalID).
			Order("sort_order ASC").
			First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Model(&models.Animal{}).
				Where("id = ?", animalID).
				Update("image_url", nil).Error
		}
		if err != nil {
			return err
		}

		if err := tx.Model(&models.AnimalImage{}).
			Where("id = ?", next.ID).
			Update("is_primary", true).Error; err != nil {
			return err
		}
		return tx.Model(&models.Animal{}).
			Where("id = ?", animalID).
			Update("image_url", next.URL).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete image %s: %w", imageID, err)
	}

	return nil
}

// ListAnimalImages returns an animal's images, primary first
func ListAnimalImages(db *gorm.DB, animalID string) ([]models.AnimalImage, error) {
	var images []models.AnimalImage
	err := db.Where("animal_id = ?", animalID).
		Order("is_primary DESC, sort_order ASC").
		Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list images for %s: %w", animalID, err)
	}
	return images, nil
}

// findOwnedImage loads an image and verifies it belongs to the animal.
// A mismatch is indistinguishable from a missing image to the caller.
func findOwnedImage(db *gorm.DB, animalID, imageID string) (*models.AnimalImage, error) {
	var image models.AnimalImage
	err := db.First(&image, "id = ?", imageID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", imageID, err)
	}
	if image.AnimalID != animalID {
		return nil, fmt.Errorf("not found")
	}
	return &image, nil
}
