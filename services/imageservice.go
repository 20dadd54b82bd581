package services

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const processedImageWidth = 800

// ImageService normalizes uploaded photos: slugified filename, resized to a
// fixed width, written under the upload directory.
type ImageService struct {
	UploadDir string
}

func NewImageService(uploadDir string) *ImageService {
	if err := os.MkdirAll(uploadDir, 0777); err != nil {
		panic(err)
	}

	return &ImageService{UploadDir: uploadDir}
}

var nonAlphanumericRegexp = regexp.MustCompile(`[^a-z0-9]`)
var dashRunRegexp = regexp.MustCompile(`-+`)

func cleanFileName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))

	// webp can be decoded but not re-encoded, store those as jpg
	if ext == ".webp" {
		ext = ".jpg"
	}

	name := strings.ToLower(filename)
	name = nonAlphanumericRegexp.ReplaceAllString(name, "-")
	name = dashRunRegexp.ReplaceAllString(name, "-")

	return name + ext
}

// ProcessImage decodes the upload, resizes to the standard width and stores
// the result. Returns the stored filename.
func (service *ImageService) ProcessImage(originalName string, file io.Reader) (string, error) {
	image, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("erreur lors du traitement de l'image: %w", err)
	}

	resized := imaging.Resize(image, processedImageWidth, 0, imaging.Lanczos)

	filename := cleanFileName(originalName)

	if err = imaging.Save(resized, filepath.Join(service.UploadDir, filename)); err != nil {
		return "", fmt.Errorf("erreur lors du traitement de l'image: %w", err)
	}

	return filename, nil
}

// RemoveImage deletes a stored photo, keeping the shared placeholder.
func (service *ImageService) RemoveImage(filename string) {
	if filename == "" || filename == "default.png" {
		return
	}

	if err := os.Remove(filepath.Join(service.UploadDir, filename)); err != nil && !os.IsNotExist(err) {
		log.Printf("Error deleting photo: %s", err.Error())
	}
}
