package testhelpers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/pomy-dev/ebh-repo/backend/shared/go-storage"
)

// FakeStorage records uploads in memory. Any key containing one of
// FailSubstrings fails with ErrUploadFailed.
type FakeStorage struct {
	mu             sync.Mutex
	FailSubstrings []string
	Objects        map[string][]byte
}

var ErrUploadFailed = errors.New("simulated upload failure")

var _ storage.ObjectStorage = (*FakeStorage)(nil)

func NewFakeStorage(failOn ...string) *FakeStorage {
	return &FakeStorage{FailSubstrings: failOn, Objects: map[string][]byte{}}
}

func (f *FakeStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	for _, s := range f.FailSubstrings {
		if strings.Contains(key, s) {
			return "", ErrUploadFailed
		}
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	f.Objects[key] = b
	f.mu.Unlock()
	return storage.PublicURL("https://files.test", "evidence-images", key), nil
}

func (f *FakeStorage) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("%s?X-Amz-Expires=%d",
		storage.PublicURL("https://files.test", "evidence-images", key), int(ttl.Seconds())), nil
}
