package upload

import (
	"bytes"
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	jpegHeader = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
	gifHeader  = []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00")
	webpHeader = []byte("RIFF\x24\x00\x00\x00WEBPVP8 \x18\x00\x00\x00")
)

func image(header []byte, size int) []byte {
	data := make([]byte, size)
	copy(data, header)
	return data
}

func storedFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestUploadBatch_StoresAll(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/uploads/")
	require.NoError(t, err)
	u := NewUploader(store, 1024)

	assets, err := u.UploadBatch(context.Background(), []File{
		{Name: "front.png", Data: image(pngHeader, 200)},
		{Name: "side.jpeg", Data: image(jpegHeader, 300)},
		{Name: "anim.gif", Data: image(gifHeader, 100)},
		{Name: "detail", Data: image(webpHeader, 100)},
	})
	require.NoError(t, err)
	require.Len(t, assets, 4)

	assert.Equal(t, "front.png", assets[0].Filename)
	assert.Equal(t, "image/png", assets[0].ContentType)
	assert.Equal(t, 200, assets[0].Size)
	assert.Regexp(t, `^[0-9a-f]{16}_[0-9a-z]{26}\.png$`, assets[0].Key)
	assert.Equal(t, "/uploads/"+assets[0].Key, assets[0].URL)
	assert.Equal(t, "image/jpeg", assets[1].ContentType)
	assert.Regexp(t, `\.jpg$`, assets[1].Key)
	assert.Equal(t, "image/gif", assets[2].ContentType)
	assert.Regexp(t, `\.webp$`, assets[3].Key)

	assert.Len(t, storedFiles(t, dir), 4)

	data, err := os.ReadFile(dir + "/" + assets[1].Key)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(image(jpegHeader, 300), data))
}

// TestUploadBatch_OversizedFileFailsWholeBatch covers one oversized file
// among three valid ones.
func TestUploadBatch_OversizedFileFailsWholeBatch(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/uploads")
	require.NoError(t, err)
	u := NewUploader(store, 1024)

	assets, err := u.UploadBatch(context.Background(), []File{
		{Name: "one.png", Data: image(pngHeader, 100)},
		{Name: "two.png", Data: image(pngHeader, 100)},
		{Name: "huge.jpg", Data: image(jpegHeader, 1025)},
		{Name: "three.png", Data: image(pngHeader, 100)},
	})

	assert.Nil(t, assets)
	require.ErrorIs(t, err, ErrFileTooLarge)

	var fe *FileError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "huge.jpg", fe.Filename)
	assert.Contains(t, err.Error(), "huge.jpg")

	assert.Empty(t, storedFiles(t, dir))
}

func TestUploadBatch_RejectsNonImages(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/uploads")
	require.NoError(t, err)
	u := NewUploader(store, 1024)

	_, err = u.UploadBatch(context.Background(), []File{
		{Name: "ok.png", Data: image(pngHeader, 64)},
		{Name: "notes.png", Data: []byte("just some text pretending to be an image")},
	})

	require.ErrorIs(t, err, ErrUnsupportedType)
	var fe *FileError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "notes.png", fe.Filename)
	assert.Empty(t, storedFiles(t, dir))
}

func TestUploadBatch_Empty(t *testing.T) {
	u := NewUploader(&flakyStore{}, 0)
	_, err := u.UploadBatch(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoFiles)
	assert.Equal(t, DefaultMaxSize, u.MaxSize())

	_, err = u.UploadBatch(context.Background(), []File{{Name: "empty.png"}})
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

// flakyStore fails the Put for one filename and tracks what is stored.
type flakyStore struct {
	mu      sync.Mutex
	failOn  string
	stored  map[string]bool
	deleted []string
	n       int
}

func (s *flakyStore) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name == s.failOn {
		return "", errors.New("disk full")
	}
	if s.stored == nil {
		s.stored = map[string]bool{}
	}
	s.n++
	key := name + "-key"
	s.stored[key] = true
	return key, nil
}

func (s *flakyStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.stored, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *flakyStore) URL(key string) string {
	return "https://cdn.example.com/" + key
}

func TestUploadBatch_StoreFailureRollsBack(t *testing.T) {
	store := &flakyStore{failOn: "b.png"}
	u := NewUploader(store, 1024)
	u.concurrency = 1

	_, err := u.UploadBatch(context.Background(), []File{
		{Name: "a.png", Data: image(pngHeader, 64)},
		{Name: "b.png", Data: image(pngHeader, 64)},
		{Name: "c.png", Data: image(pngHeader, 64)},
	})

	require.Error(t, err)
	var fe *FileError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "b.png", fe.Filename)
	assert.Contains(t, err.Error(), "disk full")

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Empty(t, store.stored)
	assert.Contains(t, store.deleted, "a.png-key")
}

func TestLocalStore_Delete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/uploads")
	require.NoError(t, err)

	key, err := store.Put(context.Background(), "x.png", image(pngHeader, 10), "image/png")
	require.NoError(t, err)
	require.Len(t, storedFiles(t, dir), 1)

	require.NoError(t, store.Delete(context.Background(), key))
	assert.Empty(t, storedFiles(t, dir))

	assert.NoError(t, store.Delete(context.Background(), key))
	assert.Error(t, store.Delete(context.Background(), "../etc/passwd"))
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".jpg", extensionFor("image/jpeg", "a.png"))
	assert.Equal(t, ".webp", extensionFor("image/webp", ""))
	assert.Equal(t, ".jpg", extensionFor("", "photo.JPEG"))
	assert.Equal(t, ".gif", extensionFor("", "anim.gif"))
	assert.Equal(t, ".jpg", extensionFor("", "unknown"))
}
