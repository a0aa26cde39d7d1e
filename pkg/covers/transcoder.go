// Package covers produces the webp cover and thumbnail variants stored next
// to each book.
package covers

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

const (
	// ThumbnailName is the filename of the small variant inside a book's
	// directory.
	ThumbnailName = "small_cover.webp"

	thumbnailWidth  = 270
	thumbnailHeight = 400

	webpQuality = 90
)

// Transcoder converts imported cover images to webp. It shells out to
// ImageMagick when available and falls back to in-process encoding when the
// external tool is missing or fails.
type Transcoder struct {
	convertPath string
}

func NewTranscoder() *Transcoder {
	return &Transcoder{convertPath: "convert"}
}

// NewTranscoderWithConvert overrides the ImageMagick binary path. Used by
// tests to force the in-process fallback.
func NewTranscoderWithConvert(convertPath string) *Transcoder {
	return &Transcoder{convertPath: convertPath}
}

// ConvertCover writes a full-size webp next to src plus a thumbnail in the
// same directory, and returns both paths. The source file is left in place.
func (t *Transcoder) ConvertCover(ctx context.Context, src string) (string, string, error) {
	log := logger.FromContext(ctx)

	ext := filepath.Ext(src)
	primary := strings.TrimSuffix(src, ext) + ".webp"
	thumbnail := filepath.Join(filepath.Dir(src), ThumbnailName)

	if err := t.convert(ctx, src, primary); err != nil {
		log.Warn("external cover conversion failed, encoding in process", logger.Data{
			"src": src,
			"err": err.Error(),
		})
		if err := transcodeFile(src, primary, 0, 0); err != nil {
			return "", "", err
		}
	}

	if err := t.convert(ctx, src, thumbnail, "-scale", fmt.Sprintf("%dx%d", thumbnailWidth, thumbnailHeight)); err != nil {
		log.Warn("external thumbnail conversion failed, encoding in process", logger.Data{
			"src": src,
			"err": err.Error(),
		})
		if err := transcodeFile(src, thumbnail, thumbnailWidth, thumbnailHeight); err != nil {
			return "", "", err
		}
	}

	return primary, thumbnail, nil
}

func (t *Transcoder) convert(ctx context.Context, src, dst string, args ...string) error {
	cmdArgs := append([]string{src}, args...)
	cmdArgs = append(cmdArgs, dst)

	cmd := exec.CommandContext(ctx, t.convertPath, cmdArgs...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "convert: %s", strings.TrimSpace(string(out)))
	}

	// ImageMagick can exit 0 without producing output for some inputs.
	if _, err := os.Stat(dst); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// transcodeFile is the in-process path: decode with imaging, optionally fit
// into the bounding box, encode as webp. A zero width keeps the original
// dimensions.
func transcodeFile(src, dst string, width, height int) error {
	img, err := imaging.Open(src)
	if err != nil {
		return errors.WithStack(err)
	}

	if width > 0 && height > 0 {
		img = imaging.Fit(img, width, height, imaging.CatmullRom)
	}

	return encodeWebp(img, dst)
}

func encodeWebp(img image.Image, dst string) error {
	f, err := os.Create(dst)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	err = webp.Encode(f, img, &webp.Options{Quality: webpQuality})
	return errors.WithStack(err)
}
