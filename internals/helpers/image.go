// file: internals/helpers/image.go
package helper

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const thumbnailWidth = 480

var filenameRe = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

func sanitizeFilename(filename string) string {
	return filenameRe.ReplaceAllString(filename, "_")
}

// GenerateUniqueFilename prefixes a sanitized name with folder + timestamp + uuid.
func GenerateUniqueFilename(folder, original string) string {
	name := sanitizeFilename(filepath.Base(original))
	return fmt.Sprintf("%s/%d_%s_%s", folder, time.Now().Unix(), uuid.NewString()[:8], name)
}

// SaveUploadedImage stores the original under dir and writes a webp thumbnail
// next to it. Returns (imagePath, thumbnailPath).
func SaveUploadedImage(dir, folder string, fileHeader *multipart.FileHeader) (string, string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open uploaded image: %w", err)
	}
	defer src.Close()

	img, _, err := image.Decode(src)
	if err != nil {
		return "", "", fmt.Errorf("uploaded file is not a valid image: %w", err)
	}

	rel := GenerateUniqueFilename(folder, fileHeader.Filename)
	full := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", "", err
	}

	// original, re-encoded as webp to keep the gallery payload small
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Quality: 90}); err != nil {
		return "", "", fmt.Errorf("webp encode failed: %w", err)
	}
	fullWebp := strings.TrimSuffix(full, filepath.Ext(full)) + ".webp"
	if err := os.WriteFile(fullWebp, buf.Bytes(), 0o644); err != nil {
		return "", "", err
	}

	// thumbnail
	thumb := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)
	tbuf := new(bytes.Buffer)
	if err := webp.Encode(tbuf, thumb, &webp.Options{Quality: 80}); err != nil {
		return "", "", fmt.Errorf("webp thumbnail encode failed: %w", err)
	}
	thumbPath := strings.TrimSuffix(fullWebp, ".webp") + "_thumb.webp"
	if err := os.WriteFile(thumbPath, tbuf.Bytes(), 0o644); err != nil {
		return "", "", err
	}

	toURL := func(p string) string {
		return "/" + filepath.ToSlash(p)
	}
	return toURL(fullWebp), toURL(thumbPath), nil
}
