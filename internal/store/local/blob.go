package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DiskBlobStore keeps uploaded files under root/<bucket>/<path> and serves
// them back through the static file route.
type DiskBlobStore struct {
	root    string
	baseURL string
}

func NewDiskBlobStore(root, baseURL string) *DiskBlobStore {
	return &DiskBlobStore{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (d *DiskBlobStore) Upload(ctx context.Context, bucket, path string, data io.Reader, size int64) error {
	clean, err := d.resolve(bucket, path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(clean), 0o755); err != nil {
		return fmt.Errorf("create blob dir: %w", err)
	}

	file, err := os.Create(clean)
	if err != nil {
		return fmt.Errorf("create blob: %w", err)
	}
	defer file.Close()

	written, err := io.Copy(file, data)
	if err != nil {
		os.Remove(clean)
		return fmt.Errorf("write blob: %w", err)
	}
	if size > 0 && written != size {
		os.Remove(clean)
		return fmt.Errorf("write blob: wrote %d of %d bytes", written, size)
	}
	return nil
}

func (d *DiskBlobStore) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/uploads/%s/%s", d.baseURL, bucket, path)
}

// resolve joins bucket and path under root and rejects anything that would
// escape it.
func (d *DiskBlobStore) resolve(bucket, path string) (string, error) {
	joined := filepath.Join(d.root, bucket, filepath.FromSlash(path))
	rootAbs, err := filepath.Abs(d.root)
	if err != nil {
		return "", err
	}
	joinedAbs, err := filepath.Abs(joined)
	if err != nil {
		return "", err
	}
	if joinedAbs != rootAbs && !strings.HasPrefix(joinedAbs, rootAbs+string(os.PathSeparator)) {
		return "", fmt.Errorf("blob path %q escapes upload root", path)
	}
	return joinedAbs, nil
}
