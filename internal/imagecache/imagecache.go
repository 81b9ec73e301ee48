// Package imagecache maintains a content-addressed on-disk cache of channel
// avatars and video thumbnails. Images are keyed by their source id, fetched
// lazily on first reference, and stored re-encoded in a single fixed format.
package imagecache

import (
	"context"
	"encoding/base32"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	// Register decoders for the formats remote sources serve.
	_ "image/gif"
	_ "image/jpeg"
	_ "golang.org/x/image/webp"

	"github.com/chianti/chianti-go/pkg/logger"
)

// Kind identifies one of the two cached image families. The value doubles as
// the cache subdirectory name.
type Kind string

// Kind values.
const (
	KindChannelAvatar  Kind = "channel-avatars"
	KindVideoThumbnail Kind = "video-thumbnails"
)

// ErrNotCached is returned by Open when no image is cached for the id.
var ErrNotCached = errors.New("image not cached")

// ProcessingError wraps a decode or encode failure. Unlike fetch failures,
// these abort the caller's batch.
type ProcessingError struct {
	SourceID string
	Cause    error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("process image for %s: %v", e.SourceID, e.Cause)
}

func (e *ProcessingError) Unwrap() error { return e.Cause }

// Filenames are the Crockford base32 encoding of the source id, so distinct
// ids always map to distinct names and arbitrary id bytes stay
// filesystem-safe.
var filenameEncoding = base32.NewEncoding("0123456789ABCDEFGHJKMNPQRSTVWXYZ").WithPadding(base32.NoPadding)

const storedExtension = ".png"

// storedContentType is the content type of every cached file.
const storedContentType = "image/png"

// Cache is the on-disk image cache. Concurrent writers for the same id race
// benignly: they write identical content to the same fixed path.
type Cache struct {
	root   string
	client *http.Client
}

// New creates a Cache rooted at dir and ensures the per-kind directories
// exist.
func New(dir string, client *http.Client) (*Cache, error) {
	if client == nil {
		client = http.DefaultClient
	}

	for _, kind := range []Kind{KindChannelAvatar, KindVideoThumbnail} {
		if err := os.MkdirAll(filepath.Join(dir, string(kind)), 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory for %s: %w", kind, err)
		}
	}

	return &Cache{root: dir, client: client}, nil
}

// Path returns the cache file path for a source id. It is a pure function:
// the same id always resolves to the same path and distinct ids to distinct
// paths.
func (c *Cache) Path(kind Kind, sourceID string) string {
	name := filenameEncoding.EncodeToString([]byte(sourceID)) + storedExtension
	return filepath.Join(c.root, string(kind), name)
}

// EnsureCached makes sure an image for sourceID is present on disk. A file
// that already exists is trusted as-is: no freshness check, no network
// access. Fetch failures and non-OK statuses are logged and swallowed so the
// caller's batch continues; decode/encode failures return a ProcessingError.
func (c *Cache) EnsureCached(ctx context.Context, kind Kind, sourceID, fetchURL string) error {
	path := c.Path(kind, sourceID)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	logger.Log.Info("downloading image",
		zap.String("kind", string(kind)),
		zap.String("source_id", sourceID),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		logger.Log.Warn("invalid image url",
			zap.String("kind", string(kind)),
			zap.String("source_id", sourceID),
			zap.Error(err),
		)
		return nil
	}

	res, err := c.client.Do(req)
	if err != nil {
		logger.Log.Warn("failed to download image",
			zap.String("kind", string(kind)),
			zap.String("source_id", sourceID),
			zap.Error(err),
		)
		return nil
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		logger.Log.Warn("failed to download image",
			zap.String("kind", string(kind)),
			zap.String("source_id", sourceID),
			zap.Int("status", res.StatusCode),
		)
		return nil
	}

	img, _, err := image.Decode(res.Body)
	if err != nil {
		return &ProcessingError{SourceID: sourceID, Cause: err}
	}

	file, err := os.Create(path)
	if err != nil {
		return &ProcessingError{SourceID: sourceID, Cause: err}
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		os.Remove(path)
		return &ProcessingError{SourceID: sourceID, Cause: err}
	}

	return nil
}

// Open opens the cached image for a source id, returning the reader and its
// content type, or ErrNotCached when the file is absent.
func (c *Cache) Open(kind Kind, sourceID string) (io.ReadCloser, string, error) {
	file, err := os.Open(c.Path(kind, sourceID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrNotCached
		}
		return nil, "", fmt.Errorf("open cached image: %w", err)
	}
	return file, storedContentType, nil
}
