package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/videohub/account-service/internal/core/domain"
)

// maxFormMemory is the multipart memory threshold before parts spill to disk.
const maxFormMemory = 1 << 20

// UploadStore saves received multipart files to local temporary storage. The
// saved paths are handed to the workflows, which own their deletion.
type UploadStore struct {
	dir string
}

// NewUploadStore creates dir when missing.
func NewUploadStore(dir string) (*UploadStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &UploadStore{dir: dir}, nil
}

// SaveFields stores at most one file per field and returns the local path of
// each field present in the request. Absent fields map to "". On failure every
// file saved so far is removed.
func (s *UploadStore) SaveFields(c echo.Context, fields ...string) (map[string]string, error) {
	paths := make(map[string]string, len(fields))
	for _, f := range fields {
		paths[f] = ""
	}

	form, err := s.form(c)
	if err != nil {
		return paths, err
	}
	if form == nil {
		return paths, nil
	}

	for _, field := range fields {
		files := form.File[field]
		switch len(files) {
		case 0:
			continue
		case 1:
		default:
			s.Remove(paths)
			return paths, domain.NewValidationError("only one " + field + " file is allowed")
		}

		path, err := s.save(files[0])
		if err != nil {
			s.Remove(paths)
			return paths, domain.NewInternalError("failed to store uploaded file").Wrap(err)
		}
		paths[field] = path
	}
	return paths, nil
}

// Remove deletes the given local files and blanks their entries.
func (s *UploadStore) Remove(paths map[string]string) {
	for field, p := range paths {
		if p != "" {
			_ = os.Remove(p)
			paths[field] = ""
		}
	}
}

// form parses the multipart form. Requests that are not multipart carry no
// files and yield a nil form.
func (s *UploadStore) form(c echo.Context) (*multipart.Form, error) {
	ct := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ct, echo.MIMEMultipartForm) {
		return nil, nil
	}
	if err := c.Request().ParseMultipartForm(maxFormMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
			return nil, echo.ErrStatusRequestEntityTooLarge
		}
		return nil, domain.NewValidationError("invalid multipart form").Wrap(err)
	}
	return c.Request().MultipartForm, nil
}

func (s *UploadStore) save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	path := filepath.Join(s.dir, name)

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}
