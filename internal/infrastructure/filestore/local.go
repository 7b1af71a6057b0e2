package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/alimikegami/point-of-sales/product-catalog-service/pkg/errs"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
)

var _ ImageStore = (*LocalImageStore)(nil)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type LocalImageStore struct {
	dir string
}

func NewLocalImageStore(dir string) *LocalImageStore {
	return &LocalImageStore{dir: dir}
}

func (s *LocalImageStore) Dir() string {
	return s.dir
}

func (s *LocalImageStore) Store(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if file == nil || file.Size == 0 {
		return "", errs.ErrImageRequired
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open upload: %v", errs.ErrImageIO, err)
	}
	defer src.Close()

	return s.Save(ctx, file.Filename, src)
}

// Save writes r under a generated name that keeps the extension of originalName.
func (s *LocalImageStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", errs.ErrNotAnImage
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("%w: create upload directory: %v", errs.ErrImageIO, err)
	}

	name := ulid.Make().String() + ext
	localPath := filepath.Join(s.dir, name)

	dst, err := os.OpenFile(localPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("%w: create image file: %v", errs.ErrImageIO, err)
	}

	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		os.Remove(localPath)
		return "", fmt.Errorf("%w: write image file: %v", errs.ErrImageIO, err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(localPath)
		return "", fmt.Errorf("%w: close image file: %v", errs.ErrImageIO, err)
	}

	log.Ctx(ctx).Debug().Str("image", name).Msg("image stored")

	return name, nil
}

func (s *LocalImageStore) Delete(ctx context.Context, name string) error {
	localPath, err := s.path(name)
	if err != nil {
		return err
	}

	if err := os.Remove(localPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Ctx(ctx).Warn().Str("image", name).Msg("image file not found, nothing to delete")
			return nil
		}

		return fmt.Errorf("%w: remove image file: %v", errs.ErrImageIO, err)
	}

	return nil
}

func (s *LocalImageStore) List(ctx context.Context) ([]StoredImage, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("%w: read upload directory: %v", errs.ErrImageIO, err)
	}

	images := make([]StoredImage, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}

		images = append(images, StoredImage{
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	return images, nil
}

// path resolves name inside the upload directory; only the base name is used.
func (s *LocalImageStore) path(name string) (string, error) {
	base := filepath.Base(name)
	if name == "" || base == "." || base == ".." || base == string(filepath.Separator) {
		return "", fmt.Errorf("%w: invalid image name %q", errs.ErrImageIO, name)
	}

	return filepath.Join(s.dir, base), nil
}
