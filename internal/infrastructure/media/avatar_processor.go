// Package media provides image processing utilities
package media

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	// Register decoders for the formats profile pictures arrive in
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// AvatarProcessor handles profile picture uploads for the identity service.
type AvatarProcessor struct {
	basePath  string // Root media directory
	maxPixels int    // Longest edge of the stored avatar
}

// NewAvatarProcessor creates a new AvatarProcessor instance.
func NewAvatarProcessor(basePath string, maxPixels int) *AvatarProcessor {
	return &AvatarProcessor{
		basePath:  basePath,
		maxPixels: maxPixels,
	}
}

var dataURIPattern = regexp.MustCompile(`^data:image/[a-z+.-]+;base64,`)

// ProcessBase64Avatar decodes a base64 data-URI image, scales it down to the
// configured avatar size and stores it as WebP. Returns the relative URL path.
func (p *AvatarProcessor) ProcessBase64Avatar(data string, userID int64) (string, error) {
	if data == "" {
		return "", fmt.Errorf("empty base64 data")
	}

	raw := data
	if m := dataURIPattern.FindString(data); m != "" {
		raw = data[len(m):]
	} else if strings.HasPrefix(data, "data:") {
		return "", fmt.Errorf("unsupported image format")
	}

	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("invalid base64 image data: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(decoded))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	// Fit preserves aspect ratio; small images are left untouched
	resized := imaging.Fit(img, p.maxPixels, p.maxPixels, imaging.Lanczos)

	targetDir := filepath.Join(p.basePath, "avatars")
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	filename := fmt.Sprintf("%d.webp", userID)
	targetPath := filepath.Join(targetDir, filename)

	// Save as WebP using the webp library, NOT imaging.Save()
	if err := webp.Save(targetPath, resized, &webp.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to save avatar: %w", err)
	}

	return "/media/avatars/" + filename, nil
}

// DeleteAvatar removes a previously stored avatar. Missing files are not an error.
func (p *AvatarProcessor) DeleteAvatar(userID int64) error {
	path := filepath.Join(p.basePath, "avatars", fmt.Sprintf("%d.webp", userID))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove avatar: %w", err)
	}
	return nil
}
