package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/justyn/meow/config"
	"github.com/justyn/meow/utils"
)

// saveUpload stores a multipart file under the configured upload directory,
// bucketed by date, and returns its public URL. allowedExts is lowercase with
// dots, e.g. ".jpg". Writes the error response itself and returns ok=false on
// failure.
func saveUpload(ctx *gin.Context, field string, allowedExts []string) (string, bool) {
	file, header, err := ctx.Request.FormFile(field)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "no file uploaded")
		return "", false
	}
	defer file.Close()

	cfg := config.Get()
	maxSize := int64(cfg.UploadMaxSizeMB) * 1024 * 1024
	if header.Size > 0 && header.Size > maxSize {
		utils.Error(ctx, http.StatusRequestEntityTooLarge, utils.CodeTooLarge,
			fmt.Sprintf("file size exceeds %dMB", cfg.UploadMaxSizeMB))
		return "", false
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !extAllowed(ext, allowedExts) {
		utils.Error(ctx, http.StatusBadRequest, 40041, "unsupported file type")
		return "", false
	}

	now := time.Now()
	year, month, day := now.Format("2006"), now.Format("01"), now.Format("02")
	baseDir := filepath.Join(cfg.UploadDir, year, month, day)
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to create upload directory")
		return "", false
	}

	name := uuid.NewString() + ext
	dstPath := filepath.Join(baseDir, name)
	if err := writeLimited(dstPath, file, maxSize); err != nil {
		if errors.Is(err, errFileTooLarge) {
			utils.Error(ctx, http.StatusRequestEntityTooLarge, utils.CodeTooLarge,
				fmt.Sprintf("file size exceeds %dMB", cfg.UploadMaxSizeMB))
			return "", false
		}
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to save file")
		return "", false
	}

	return fmt.Sprintf("%s/%s/%s/%s/%s",
		strings.TrimSuffix(cfg.UploadPublicBase, "/"), year, month, day, name), true
}

func extAllowed(ext string, allowed []string) bool {
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}

// errFileTooLarge marks a body that ran past the configured size limit, so
// the caller can answer 413 instead of a generic write failure.
var errFileTooLarge = errors.New("file exceeds upload size limit")

func writeLimited(dstPath string, src io.Reader, maxSize int64) error {
	out, err := os.Create(dstPath)
	if err != nil {
		return err
	}

	lr := &io.LimitedReader{R: src, N: maxSize + 1}
	written, copyErr := io.Copy(out, lr)
	closeErr := out.Close()
	if copyErr == nil && written > maxSize {
		copyErr = errFileTooLarge
	}
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = os.Remove(dstPath)
		return copyErr
	}
	return nil
}
