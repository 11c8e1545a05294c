package server

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const maxUploadBytes = 20 << 20 // 20 MiB

// UploadResponse carries the public URL of the stored file.
type UploadResponse struct {
	URL string `json:"url"`
}

// handleUpload stores a media file for photo and music rounds and returns
// the /uploads/ URL to reference from a question.
func handleUpload(logger *slog.Logger, uploadDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if uploadDir == "" {
			writeError(w, http.StatusNotImplemented, "uploads are not configured")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "file field is required")
			return
		}
		defer file.Close()

		name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitizeFilename(header.Filename))
		path := filepath.Join(uploadDir, name)

		dst, err := os.Create(path)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		defer dst.Close()

		if _, err := io.Copy(dst, file); err != nil {
			os.Remove(path)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		logger.Info("stored upload", "name", name, "size", header.Size)
		writeJSON(w, http.StatusCreated, UploadResponse{URL: "/uploads/" + name})
	}
}

// sanitizeFilename keeps the base name and replaces anything outside a
// conservative character set.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "upload"
	}
	return b.String()
}
