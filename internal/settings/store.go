package settings

import (
	"os"

	json "github.com/goccy/go-json"

	"punchd/internal/models"
	"punchd/internal/providers"
	"punchd/internal/structures"
)

type StoreInterface interface {
	Load() (*models.AppSettings, models.ValidationResult)
	Save(s *models.AppSettings) error
	Reset() error
}

// Store is the only writer of the persisted settings document. Reads and
// writes are whole-document; there are no partial-field updates.
type Store struct {
	path    string
	archive *Archive
	logger  providers.Logger
}

func NewStore(conf *structures.Config, archive *Archive, logger providers.Logger) StoreInterface {
	return &Store{
		path:    conf.Settings.FilePath,
		archive: archive,
		logger:  logger,
	}
}

// Load reads and validates the persisted document. It never fails hard:
// an absent file yields the built-in default, and malformed input yields an
// invalid result carrying the raw document for diagnostic display. When the
// result is not valid the typed settings are nil and must not be read.
func (s *Store) Load() (*models.AppSettings, models.ValidationResult) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultAppSettings(), models.ValidResult()
		}
		s.logger.Errorf(providers.TypeSettings, "Failed to read settings file %s: %s", s.path, err)
		return nil, models.InvalidResult(models.ReasonInvalidStructure, nil, nil)
	}

	var raw models.RawSettings
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Warnf(providers.TypeSettings, "Settings file %s is not valid JSON: %s", s.path, err)
		return nil, models.InvalidResult(models.ReasonInvalidStructure, nil, nil)
	}

	result := Validate(raw)
	if !result.Valid {
		s.logger.Warnf(providers.TypeSettings, "Settings rejected: %s (expected version %d)", result.Reason, result.ExpectedVersion)
		return nil, result
	}

	// Re-encode the raw document so the sanctioned template migration is
	// reflected in the typed form.
	migrated, err := json.Marshal(raw)
	if err != nil {
		return nil, models.InvalidResult(models.ReasonInvalidStructure, raw, nil)
	}
	var typed models.AppSettings
	if err := json.Unmarshal(migrated, &typed); err != nil {
		return nil, models.InvalidResult(models.ReasonInvalidStructure, raw, nil)
	}
	return &typed, result
}

// Save overwrites the whole document atomically: tmp file, fsync, rename.
func (s *Store) Save(settings *models.AppSettings) error {
	settings.Version = models.SettingsVersion

	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}

	tmpFile := s.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, s.path)
}

// Reset wipes the persisted document after archiving a compressed copy.
// A failed archive is logged but does not block the wipe: the user asked
// for a reset and losing the safety copy is preferable to being stuck.
func (s *Store) Reset() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if _, err := s.archive.Put(data); err != nil {
		s.logger.Errorf(providers.TypeSettings, "Failed to archive settings before reset: %s", err)
	}

	return os.Remove(s.path)
}
