package services

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageBytes is the largest accepted profile image.
const MaxImageBytes = 5 * 1024 * 1024

// ImageFile is a candidate profile image.
type ImageFile struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// Check applies the size limit and then the content type rule.
func (f ImageFile) Check() error {
	if f.Size > MaxImageBytes {
		return ErrImageTooLarge
	}
	if !strings.HasPrefix(f.ContentType, "image/") {
		return ErrNotAnImage
	}
	return nil
}

func (f ImageFile) Base64() string {
	return base64.StdEncoding.EncodeToString(f.Data)
}

// DataURL returns the image as data:<type>;base64,<payload>.
func (f ImageFile) DataURL() string {
	return "data:" + f.ContentType + ";base64," + f.Base64()
}

// ReadImageFile loads path for staging. The size is taken from the file
// metadata and an oversized file is not read at all; the content type is
// detected from the file contents.
func ReadImageFile(path string) (ImageFile, error) {
	st, err := os.Stat(path)
	if err != nil {
		return ImageFile{}, fmt.Errorf("stat image: %w", err)
	}
	if st.IsDir() {
		return ImageFile{}, fmt.Errorf("%s is a directory", path)
	}

	img := ImageFile{Name: filepath.Base(path), Size: st.Size()}
	if img.Size > MaxImageBytes {
		return img, ErrImageTooLarge
	}

	fh, err := os.Open(path)
	if err != nil {
		return ImageFile{}, fmt.Errorf("open image: %w", err)
	}
	defer fh.Close()

	img.Data, err = io.ReadAll(io.LimitReader(fh, MaxImageBytes+1))
	if err != nil {
		return ImageFile{}, fmt.Errorf("read image: %w", err)
	}
	img.Size = int64(len(img.Data))

	mt := mimetype.Detect(img.Data)
	// strip parameters such as "; charset=utf-8"
	img.ContentType, _, _ = strings.Cut(mt.String(), ";")

	return img, img.Check()
}
