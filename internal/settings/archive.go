package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"punchd/internal/providers"
	"punchd/internal/structures"
)

// Archive keeps compressed copies of settings blobs that were rejected and
// wiped. A reset destroys the live document, so the last thing written
// before the wipe is a recovery copy the user can inspect by hand.
type Archive struct {
	dir        string
	compressor CompressorInterface
	logger     providers.Logger
	now        func() time.Time
}

func NewArchive(conf *structures.Config, compressor CompressorInterface, logger providers.Logger) *Archive {
	return &Archive{
		dir:        conf.Settings.ArchiveDir,
		compressor: compressor,
		logger:     logger,
		now:        time.Now,
	}
}

// Put stores one rejected blob under a timestamped name and returns the
// path written.
func (a *Archive) Put(data []byte) (string, error) {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create archive dir: %w", err)
	}

	compressed, err := a.compressor.Compress(data)
	if err != nil {
		return "", fmt.Errorf("failed to compress settings blob: %w", err)
	}

	name := filepath.Join(a.dir, "settings-"+a.now().Format("20060102-150405")+".json.zst")
	if err := os.WriteFile(name, compressed, 0o644); err != nil {
		return "", err
	}

	a.logger.Infof(providers.TypeSettings, "Archived rejected settings blob to %s", name)
	return name, nil
}

// List returns archived blob paths, newest first.
func (a *Archive) List() ([]string, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json.zst") {
			continue
		}
		names = append(names, filepath.Join(a.dir, entry.Name()))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}
