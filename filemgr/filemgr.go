package filemgr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

type EntityType string

const (
	EntityPlace EntityType = "place"
	EntityPost  EntityType = "post"
	EntityUser  EntityType = "user"
)

const maxImageSize = 10 << 20 // 10 MiB

var (
	allowedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
	allowedMIMEs      = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

	ErrInvalidExtension = errors.New("invalid file extension")
	ErrInvalidMIME      = errors.New("invalid MIME type")
	ErrFileTooLarge     = errors.New("file size exceeds limit")
)

// ResolvePath returns the upload directory for an entity's photos.
func ResolvePath(entity EntityType) string {
	return filepath.Join("static", "uploads", string(entity), "photo")
}

func thumbPath(entity EntityType) string {
	return filepath.Join("static", "uploads", string(entity), "thumb")
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_\-]`)

func safeFilename(original, ext string) string {
	name := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	name = unsafeChars.ReplaceAllString(strings.ToLower(name), "")
	if name == "" {
		return uuid.New().String() + ext
	}
	return name + "-" + uuid.New().String()[:8] + ext
}

func extensionAllowed(ext string) bool {
	for _, a := range allowedExtensions {
		if ext == a {
			return true
		}
	}
	return false
}

func mimeAllowed(mimeType string) bool {
	for _, a := range allowedMIMEs {
		if mimeType == a {
			return true
		}
	}
	return false
}

// saveImage validates and writes one uploaded image, producing a jpeg
// thumbnail next to it. Returns the stored filename.
func saveImage(file multipart.File, header *multipart.FileHeader, entity EntityType) (string, error) {
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !extensionAllowed(ext) {
		return "", fmt.Errorf("%w: %s", ErrInvalidExtension, ext)
	}
	if header.Size > maxImageSize {
		return "", fmt.Errorf("%w: %d bytes", ErrFileTooLarge, header.Size)
	}

	buf, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(buf)) > maxImageSize {
		return "", ErrFileTooLarge
	}
	if mt := http.DetectContentType(buf); !mimeAllowed(mt) {
		return "", fmt.Errorf("%w: %s", ErrInvalidMIME, mt)
	}

	img, _, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return "", fmt.Errorf("decode image %q: %w", header.Filename, err)
	}

	destDir := ResolvePath(entity)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", destDir, err)
	}

	name := safeFilename(header.Filename, ext)
	if err := os.WriteFile(filepath.Join(destDir, name), buf, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	if err := generateThumbnail(img, entity, name); err != nil {
		return name, err
	}
	return name, nil
}

func generateThumbnail(img image.Image, entity EntityType, baseFilename string) error {
	resized := imaging.Resize(img, 200, 0, imaging.Lanczos) // maintain aspect ratio
	name := strings.TrimSuffix(baseFilename, filepath.Ext(baseFilename)) + ".jpg"
	dir := thumbPath(entity)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	out, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("create thumbnail: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, resized, &jpeg.Options{Quality: 85}); err != nil {
		return fmt.Errorf("encode thumbnail: %w", err)
	}
	return nil
}

// SaveFormFiles stores every uploaded file under formKey for the entity and
// returns the stored filenames.
func SaveFormFiles(form *multipart.Form, formKey string, entity EntityType, required bool) ([]string, error) {
	files := form.File[formKey]
	if len(files) == 0 {
		if required {
			return nil, fmt.Errorf("missing required files: %s", formKey)
		}
		return nil, nil
	}

	var saved []string
	var errs []string
	for _, hdr := range files {
		file, err := hdr.Open()
		if err != nil {
			errs = append(errs, fmt.Sprintf("open %s: %v", hdr.Filename, err))
			continue
		}
		name, err := saveImage(file, hdr, entity)
		if err != nil {
			errs = append(errs, fmt.Sprintf("save %s: %v", hdr.Filename, err))
			continue
		}
		saved = append(saved, name)
	}

	if len(errs) > 0 {
		return saved, fmt.Errorf("one or more errors saving files: %s", strings.Join(errs, "; "))
	}
	return saved, nil
}
