package photo

import (
	"fmt"
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// CaptureTime extracts the embedded capture timestamp of the image at
// path (DateTimeOriginal, with goexif's DateTime fallback). A zero time
// with a nil error means the image carries no usable timestamp; callers
// surface that as a rejection, never as a defaulted "now".
func CaptureTime(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("open capture %s: %w", path, err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, nil
	}
	taken, err := x.DateTime()
	if err != nil {
		return time.Time{}, nil
	}
	return taken, nil
}
