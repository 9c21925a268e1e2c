package photo

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// Vault relocates capture photos into stable storage and hands back the
// reference the ledger persists. References are file names relative to
// the vault directory, so moving the directory keeps records valid.
type Vault struct {
	dir string
}

func NewVault(dir string) *Vault {
	return &Vault{dir: dir}
}

func (v *Vault) Dir() string {
	return v.dir
}

// BuildImageName names a stored capture after its instant and kind,
// e.g. 2024-06-15T09-00-00_clock-in.jpg.
func BuildImageName(kind string, capturedAt time.Time) string {
	return capturedAt.Format("2006-01-02T15-04-05") + "_" + kind + ".jpg"
}

// Save copies the captured file at srcPath into the vault and returns
// the stable reference. An existing file under the same name is
// replaced.
func (v *Vault) Save(kind string, capturedAt time.Time, srcPath string) (string, error) {
	if err := os.MkdirAll(v.dir, 0o755); err != nil {
		return "", fmt.Errorf("create photo dir: %w", err)
	}

	name := BuildImageName(kind, capturedAt)
	dst := filepath.Join(v.dir, name)

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("open capture %s: %w", srcPath, err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dst)
		return "", fmt.Errorf("copy capture: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", dst, err)
	}
	return name, nil
}

// Path resolves a stored reference to its absolute location.
func (v *Vault) Path(ref string) string {
	return filepath.Join(v.dir, ref)
}

// Delete removes a stored photo. Losing the race with an already-gone
// file is fine; real failures are logged and returned, but the ledger
// treats them as best-effort either way.
func (v *Vault) Delete(ref string) error {
	err := os.Remove(v.Path(ref))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.WithField("photo", ref).WithError(err).Warn("could not delete photo")
		return err
	}
	return nil
}
