// AngelaMos | 2026
// storage.go

package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/gcerrors"

	"github.com/carterperez-dev/salescrm/internal/core"
)

// BlobStore keeps uploaded bytes under slash separated keys.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// DiskStore is a BlobStore over a fileblob bucket rooted at a local
// directory. Keys are write-once.
type DiskStore struct {
	root   string
	bucket *blob.Bucket
}

func NewDiskStore(root string) (*DiskStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}

	bucket, err := fileblob.OpenBucket(abs, &fileblob.Options{
		CreateDir:   true,
		DirFileMode: 0o750,
		NoTempDir:   true,
		Metadata:    fileblob.MetadataDontWrite,
	})
	if err != nil {
		return nil, fmt.Errorf("open upload dir: %w", err)
	}
	return &DiskStore{root: abs, bucket: bucket}, nil
}

// checkKey rejects keys that are empty, absolute or step outside their
// prefix.
func checkKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return fmt.Errorf("storage key %q: %w", key, core.ErrInvalidInput)
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Errorf("storage key %q: %w", key, core.ErrInvalidInput)
		}
	}
	return nil
}

func (d *DiskStore) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	if err := checkKey(key); err != nil {
		return 0, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w, err := d.bucket.NewWriter(ctx, key, &blob.WriterOptions{IfNotExist: true})
	if err != nil {
		return 0, fmt.Errorf("create blob: %w", err)
	}

	n, copyErr := io.Copy(w, r)
	if copyErr != nil {
		// a cancelled context makes Close discard the partial blob
		cancel()
	}
	closeErr := w.Close()

	switch {
	case copyErr != nil:
		return 0, fmt.Errorf("write blob: %w", copyErr)
	case gcerrors.Code(closeErr) == gcerrors.FailedPrecondition:
		return 0, fmt.Errorf("blob %s: %w", key, core.ErrDuplicateKey)
	case closeErr != nil:
		return 0, fmt.Errorf("write blob: %w", closeErr)
	}
	return n, nil
}

func (d *DiskStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	rd, err := d.bucket.NewReader(ctx, key, nil)
	if gcerrors.Code(err) == gcerrors.NotFound {
		return nil, fmt.Errorf("open blob: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open blob: %w", err)
	}
	return rd, nil
}

func (d *DiskStore) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	if err := d.bucket.Delete(ctx, key); err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

// DeletePrefix removes every blob under prefix.
func (d *DiskStore) DeletePrefix(ctx context.Context, prefix string) error {
	if err := checkKey(strings.TrimSuffix(prefix, "/")); err != nil {
		return err
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var errs []error
	iter := d.bucket.List(&blob.ListOptions{Prefix: prefix})
	for {
		obj, err := iter.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("list blob prefix: %w", err)
		}
		if err := d.bucket.Delete(ctx, obj.Key); err != nil && gcerrors.Code(err) != gcerrors.NotFound {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("delete blob prefix: %w", err)
	}
	return nil
}

// Ping reports whether the upload directory is still reachable, for
// readiness checks.
func (d *DiskStore) Ping(ctx context.Context) error {
	ok, err := d.bucket.IsAccessible(ctx)
	if err != nil {
		return fmt.Errorf("check upload dir: %w", err)
	}
	if !ok {
		return fmt.Errorf("upload dir %s is not accessible", d.root)
	}
	return nil
}

func (d *DiskStore) Close() error {
	return d.bucket.Close()
}

const maxFilenameLen = 200

// SanitizeFilename reduces a client supplied name to a safe base name.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	clean := strings.TrimLeft(b.String(), ".")
	if len(clean) > maxFilenameLen {
		clean = clean[len(clean)-maxFilenameLen:]
	}
	if clean == "" || clean == "_" {
		return "upload"
	}
	return clean
}
