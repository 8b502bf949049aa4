package history

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/DeePham/ai-image-app/imagegen"
	"github.com/DeePham/ai-image-app/models"
)

type fakeObjectStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleted   []string
	uploadErr error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}}
}

func (f *fakeObjectStore) Upload(ctx context.Context, objectName, contentType string, r io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.uploadErr != nil {
		return "", f.uploadErr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.objects[objectName] = data
	return fmt.Sprintf("https://storage.example.com/%s", objectName), nil
}

func (f *fakeObjectStore) Delete(ctx context.Context, objectName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.objects, objectName)
	f.deleted = append(f.deleted, objectName)
	return nil
}

func newTestStore(t *testing.T) (*Store, *fakeObjectStore, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.GeneratedImage{}, &models.FavoriteMark{}))

	objects := newFakeObjectStore()
	return NewStore(db, objects), objects, db
}

func testPayload() *imagegen.ImagePayload {
	return &imagegen.ImagePayload{Data: []byte("pngdata"), ContentType: "image/png"}
}

func TestStoreSave(t *testing.T) {
	store, objects, _ := newTestStore(t)
	ctx := context.Background()

	record, err := store.Save(ctx, 1, testPayload(), "a red cube", "flux", "1/1")
	require.NoError(t, err)

	assert.NotZero(t, record.ID)
	assert.NotZero(t, record.CreatedAt)
	assert.Equal(t, uint(1), record.UserID)
	assert.Equal(t, "a red cube", record.Prompt)
	assert.Equal(t, "flux", record.ModelID)
	assert.Equal(t, "1/1", record.AspectRatio)
	assert.Contains(t, record.ImageURL, record.ObjectName)
	assert.Equal(t, []byte("pngdata"), objects.objects[record.ObjectName])
}

func TestStoreSaveRequiresOwner(t *testing.T) {
	store, objects, _ := newTestStore(t)

	_, err := store.Save(context.Background(), 0, testPayload(), "a red cube", "flux", "1/1")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Empty(t, objects.objects)
}

func TestStoreSaveUploadFailure(t *testing.T) {
	store, objects, db := newTestStore(t)
	objects.uploadErr = errors.New("bucket unavailable")

	_, err := store.Save(context.Background(), 1, testPayload(), "a red cube", "flux", "1/1")

	var storageErr StorageError
	require.ErrorAs(t, err, &storageErr)

	var count int64
	db.Model(&models.GeneratedImage{}).Count(&count)
	assert.Zero(t, count, "no metadata row without stored bytes")
}

func TestStoreSaveInsertFailureRollsBackObject(t *testing.T) {
	store, objects, db := newTestStore(t)
	require.NoError(t, db.Migrator().DropTable(&models.GeneratedImage{}))

	_, err := store.Save(context.Background(), 1, testPayload(), "a red cube", "flux", "1/1")

	var writeErr WriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Empty(t, objects.objects, "uploaded object must be rolled back")
	assert.Len(t, objects.deleted, 1)
}

func TestStoreListOrderAndIsolation(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	for i := range 3 {
		_, err := store.Save(ctx, 1, testPayload(), fmt.Sprintf("prompt %d", i), "flux", "1/1")
		require.NoError(t, err)
	}
	_, err := store.Save(ctx, 2, testPayload(), "someone else", "flux", "1/1")
	require.NoError(t, err)

	images, err := store.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, images, 3)

	// Newest first; identical timestamps break by insert order.
	assert.Equal(t, "prompt 2", images[0].Prompt)
	assert.Equal(t, "prompt 1", images[1].Prompt)
	assert.Equal(t, "prompt 0", images[2].Prompt)
	for _, img := range images {
		assert.Equal(t, uint(1), img.UserID)
	}
}

func TestStoreListEmptyOwner(t *testing.T) {
	store, _, _ := newTestStore(t)

	images, err := store.List(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, images)

	images, err = store.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestStoreDeleteIsIdempotent(t *testing.T) {
	store, objects, _ := newTestStore(t)
	ctx := context.Background()

	record, err := store.Save(ctx, 1, testPayload(), "a red cube", "flux", "1/1")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, 1, record.ID))
	assert.Empty(t, objects.objects)

	// Second delete of the same id is a silent no-op.
	require.NoError(t, store.Delete(ctx, 1, record.ID))

	images, err := store.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestStoreDeleteIgnoresForeignRecords(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	record, err := store.Save(ctx, 1, testPayload(), "a red cube", "flux", "1/1")
	require.NoError(t, err)

	// Another owner deleting this id succeeds without touching the record.
	require.NoError(t, store.Delete(ctx, 2, record.ID))

	images, err := store.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, images, 1)
}

func TestStoreClearAll(t *testing.T) {
	store, objects, _ := newTestStore(t)
	ctx := context.Background()

	cleared := make([]string, 0, 3)
	for i := range 3 {
		record, err := store.Save(ctx, 1, testPayload(), fmt.Sprintf("prompt %d", i), "flux", "1/1")
		require.NoError(t, err)
		cleared = append(cleared, record.ObjectName)
	}
	keep, err := store.Save(ctx, 2, testPayload(), "someone else", "flux", "1/1")
	require.NoError(t, err)

	require.NoError(t, store.ClearAll(ctx, 1))

	images, err := store.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, images)

	others, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Contains(t, objects.objects, keep.ObjectName)
	assert.Len(t, objects.objects, 1)

	// Every removed row had exactly its own blob removed with it.
	assert.ElementsMatch(t, cleared, objects.deleted)

	// Clearing an already-empty history is a no-op.
	require.NoError(t, store.ClearAll(ctx, 1))
	assert.ElementsMatch(t, cleared, objects.deleted)
}

func TestStoreClearAllSparesLaterSaves(t *testing.T) {
	store, objects, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Save(ctx, 1, testPayload(), "old", "flux", "1/1")
	require.NoError(t, err)
	require.NoError(t, store.ClearAll(ctx, 1))

	// A save landing after the clear keeps both its row and its blob.
	late, err := store.Save(ctx, 1, testPayload(), "late", "flux", "1/1")
	require.NoError(t, err)

	images, err := store.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, late.ID, images[0].ID)
	assert.Contains(t, objects.objects, late.ObjectName)
}

func TestStoreFavorites(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	first, err := store.Save(ctx, 1, testPayload(), "first", "flux", "1/1")
	require.NoError(t, err)
	second, err := store.Save(ctx, 1, testPayload(), "second", "flux", "1/1")
	require.NoError(t, err)

	require.NoError(t, store.Favorite(ctx, 1, first.ID))
	require.NoError(t, store.Favorite(ctx, 1, first.ID), "favoriting twice is a no-op")

	favorites, err := store.ListFavorites(ctx, 1)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, first.ID, favorites[0].ID)

	// Cannot favorite someone else's image.
	assert.Error(t, store.Favorite(ctx, 2, second.ID))

	require.NoError(t, store.Unfavorite(ctx, 1, first.ID))
	favorites, err = store.ListFavorites(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, favorites)
}

func TestStoreDeleteCascadesFavorites(t *testing.T) {
	store, _, db := newTestStore(t)
	ctx := context.Background()

	record, err := store.Save(ctx, 1, testPayload(), "a red cube", "flux", "1/1")
	require.NoError(t, err)
	require.NoError(t, store.Favorite(ctx, 1, record.ID))

	require.NoError(t, store.Delete(ctx, 1, record.ID))

	var count int64
	db.Model(&models.FavoriteMark{}).Count(&count)
	assert.Zero(t, count)
}
