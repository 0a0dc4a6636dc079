package storage

import (
	"context"
	"path"
	"sync"
)

type Object struct {
	Data        []byte
	ContentType string
}

// MemoryUploader keeps objects in a map. It backs STORAGE_DRIVER=memory.
type MemoryUploader struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]Object
}

func NewMemoryUploader(baseURL string) *MemoryUploader {
	if baseURL == "" {
		baseURL = "memory://documents"
	}
	return &MemoryUploader{baseURL: baseURL, objects: make(map[string]Object)}
}

func (u *MemoryUploader) Store(ctx context.Context, data []byte, folder, filename, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := path.Join(folder, filename)
	buf := make([]byte, len(data))
	copy(buf, data)

	u.mu.Lock()
	u.objects[key] = Object{Data: buf, ContentType: contentType}
	u.mu.Unlock()

	return u.baseURL + "/" + key, nil
}

func (u *MemoryUploader) Get(key string) (Object, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	obj, ok := u.objects[key]
	return obj, ok
}

func (u *MemoryUploader) Len() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.objects)
}
