package folio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

const (
	maxImageWidth = 800
	jpegQuality   = 80
	assetsSubdir  = "assets"
)

// Image describes one processed content image.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
}

// ProcessAssets resizes and re-encodes content images from
// <contentDir>/assets into <staticDir>/assets. Outputs that are already
// newer than their source are left alone, so repeated runs are cheap.
// A missing assets directory yields no work, not an error.
func ProcessAssets(contentDir, staticDir string) ([]Image, error) {
	srcDir := filepath.Join(contentDir, assetsSubdir)
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	dstDir := filepath.Join(staticDir, assetsSubdir)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return nil, fmt.Errorf("create assets dir: %w", err)
	}

	var processed []Image
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !isImageFile(name) {
			continue
		}
		srcPath := filepath.Join(srcDir, name)
		dstPath := filepath.Join(dstDir, slugifyFilename(name)+".jpg")
		if upToDate(srcPath, dstPath) {
			continue
		}

		f, err := os.Open(srcPath)
		if err != nil {
			return nil, err
		}
		img, data, err := processImage(f, name)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("process %s: %w", name, err)
		}
		if err := os.WriteFile(dstPath, data, 0o644); err != nil {
			return nil, fmt.Errorf("write image: %w", err)
		}
		processed = append(processed, img)
	}
	return processed, nil
}

// processImage decodes an image from src, resizes it to maxImageWidth if
// wider, and encodes it as JPEG. Returns metadata and the encoded bytes.
func processImage(src io.Reader, originalName string) (Image, []byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return Image{}, nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxImageWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Image{}, nil, fmt.Errorf("encode jpeg: %w", err)
	}

	return Image{
		Filename:     slugifyFilename(originalName) + ".jpg",
		OriginalName: originalName,
		Width:        w,
		Height:       h,
		Size:         buf.Len(),
	}, buf.Bytes(), nil
}

// slugifyFilename converts a filename (without extension) to a URL-safe slug.
func slugifyFilename(name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return Slugify(base)
}

func isImageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif":
		return true
	}
	return false
}

func upToDate(srcPath, dstPath string) bool {
	srcInfo, err := os.Stat(srcPath)
	if err != nil {
		return false
	}
	dstInfo, err := os.Stat(dstPath)
	if err != nil {
		return false
	}
	return dstInfo.ModTime().After(srcInfo.ModTime())
}
