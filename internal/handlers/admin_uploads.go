package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookbright/electryohype/internal/upload"
)

// AdminUploadsHandler accepts image batches for product media.
type AdminUploadsHandler struct {
	uploader *upload.Uploader
}

func NewAdminUploadsHandler(uploader *upload.Uploader) *AdminUploadsHandler {
	return &AdminUploadsHandler{uploader: uploader}
}

// HandleUpload stores every file in the multipart "files" field, or none.
func (h *AdminUploadsHandler) HandleUpload(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "expected multipart form with files"})
	}

	headers := form.File["files"]
	files := make([]upload.File, 0, len(headers))
	for _, fh := range headers {
		f, err := readUpload(fh, h.uploader.MaxSize())
		if err != nil {
			slog.Warn("failed to read uploaded file", "filename", fh.Filename, "error", err)
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "failed to read file", "file": fh.Filename})
		}
		files = append(files, f)
	}

	assets, err := h.uploader.UploadBatch(c.Request().Context(), files)
	if err != nil {
		return uploadError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"assets": assets})
}

// readUpload reads at most limit+1 bytes so oversized files are detected
// without buffering them whole.
func readUpload(fh *multipart.FileHeader, limit int) (upload.File, error) {
	src, err := fh.Open()
	if err != nil {
		return upload.File{}, err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, int64(limit)+1))
	if err != nil {
		return upload.File{}, err
	}
	return upload.File{Name: fh.Filename, Data: data}, nil
}

func uploadError(c echo.Context, err error) error {
	var fileErr *upload.FileError
	file := ""
	if errors.As(err, &fileErr) {
		file = fileErr.Filename
	}

	switch {
	case errors.Is(err, upload.ErrNoFiles):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, upload.ErrFileTooLarge):
		return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{
			"error": fmt.Sprintf("%s exceeds the upload size limit", file),
			"file":  file,
		})
	case errors.Is(err, upload.ErrUnsupportedType):
		return c.JSON(http.StatusUnsupportedMediaType, map[string]string{
			"error": fmt.Sprintf("%s is not a supported image type", file),
			"file":  file,
		})
	default:
		slog.Error("image upload failed", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "upload failed", "file": file})
	}
}
