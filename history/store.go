package history

import (
	"bytes"
	"context"
	"errors"
	"log"

	"github.com/DeePham/ai-image-app/imagegen"
	"github.com/DeePham/ai-image-app/models"
	"github.com/DeePham/ai-image-app/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store persists generated images for an owner. Bytes always go out-of-line
// to the blob backend, with the public URL recorded in the metadata row;
// inline base64 rows are never written.
type Store struct {
	db      *gorm.DB
	objects storage.ObjectStore
}

func NewStore(db *gorm.DB, objects storage.ObjectStore) *Store {
	return &Store{db: db, objects: objects}
}

// Save uploads the image bytes and inserts the metadata row. When the insert
// fails after a successful upload, the object is deleted best-effort so no
// orphan blob is left behind.
func (s *Store) Save(ctx context.Context, ownerID uint, payload *imagegen.ImagePayload, prompt, model, aspectRatio string) (*models.GeneratedImage, error) {
	if ownerID == 0 {
		return nil, ErrNotAuthenticated
	}

	objectName := "generated/" + uuid.NewString() + payload.FileExt()
	url, err := s.objects.Upload(ctx, objectName, payload.ContentType, bytes.NewReader(payload.Data))
	if err != nil {
		return nil, StorageError{Err: err}
	}

	record := models.GeneratedImage{
		UserID:      ownerID,
		ImageURL:    url,
		ObjectName:  objectName,
		Prompt:      prompt,
		ModelID:     model,
		AspectRatio: aspectRatio,
	}

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		if delErr := s.objects.Delete(ctx, objectName); delErr != nil {
			log.Printf("could not roll back object %s: %v", objectName, delErr)
		}
		return nil, WriteError{Err: err}
	}

	return &record, nil
}

// List returns the owner's records newest first, ties broken by insert
// order. An unknown or zero owner yields an empty slice, not an error.
func (s *Store) List(ctx context.Context, ownerID uint) ([]models.GeneratedImage, error) {
	images := []models.GeneratedImage{}
	if ownerID == 0 {
		return images, nil
	}

	err := s.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&images).Error
	if err != nil {
		return nil, err
	}

	return images, nil
}

// Delete removes one record, its blob and any favorite marks. Deleting an id
// that does not exist (or belongs to someone else) succeeds silently.
func (s *Store) Delete(ctx context.Context, ownerID, id uint) error {
	var record models.GeneratedImage
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if err := s.db.WithContext(ctx).Unscoped().Delete(&models.GeneratedImage{}, record.ID).Error; err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Unscoped().
		Where("image_id = ?", record.ID).
		Delete(&models.FavoriteMark{}).Error; err != nil {
		return err
	}

	s.deleteBlob(ctx, record.ObjectName)
	return nil
}

// ClearAll removes every record, blob and favorite mark for the owner. A
// no-op when the owner has nothing. Rows are deleted by the snapshot of ids
// taken up front, so a save racing past the snapshot keeps both its row and
// its blob instead of losing one of the pair.
func (s *Store) ClearAll(ctx context.Context, ownerID uint) error {
	if ownerID == 0 {
		return nil
	}

	records, err := s.List(ctx, ownerID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.ID)
	}

	if err := s.db.WithContext(ctx).Unscoped().
		Where("id IN ?", ids).
		Delete(&models.GeneratedImage{}).Error; err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Unscoped().
		Where("image_id IN ?", ids).
		Delete(&models.FavoriteMark{}).Error; err != nil {
		return err
	}

	for _, record := range records {
		s.deleteBlob(ctx, record.ObjectName)
	}

	return nil
}

// Favorite marks one of the owner's own images. Marking twice is a no-op.
func (s *Store) Favorite(ctx context.Context, ownerID, imageID uint) error {
	if ownerID == 0 {
		return ErrNotAuthenticated
	}

	var record models.GeneratedImage
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", imageID, ownerID).
		First(&record).Error
	if err != nil {
		return err
	}

	var existing models.FavoriteMark
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND image_id = ?", ownerID, imageID).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.db.WithContext(ctx).Create(&models.FavoriteMark{UserID: ownerID, ImageID: imageID}).Error
}

// Unfavorite removes the mark; missing marks succeed silently.
func (s *Store) Unfavorite(ctx context.Context, ownerID, imageID uint) error {
	if ownerID == 0 {
		return ErrNotAuthenticated
	}

	return s.db.WithContext(ctx).Unscoped().
		Where("user_id = ? AND image_id = ?", ownerID, imageID).
		Delete(&models.FavoriteMark{}).Error
}

// ListFavorites returns the owner's favorited records, newest first.
func (s *Store) ListFavorites(ctx context.Context, ownerID uint) ([]models.GeneratedImage, error) {
	images := []models.GeneratedImage{}
	if ownerID == 0 {
		return images, nil
	}

	err := s.db.WithContext(ctx).
		Joins("JOIN favorite_marks ON favorite_marks.image_id = generated_images.id").
		Where("favorite_marks.user_id = ? AND favorite_marks.deleted_at IS NULL", ownerID).
		Order("generated_images.created_at DESC, generated_images.id DESC").
		Find(&images).Error
	if err != nil {
		return nil, err
	}

	return images, nil
}

// Blob cleanup is best-effort; a stale object never blocks a delete.
func (s *Store) deleteBlob(ctx context.Context, objectName string) {
	if objectName == "" {
		return
	}
	if err := s.objects.Delete(ctx, objectName); err != nil {
		log.Printf("could not delete object %s: %v", objectName, err)
	}
}
