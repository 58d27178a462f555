package settings

import (
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"punchd/internal/models"
	"punchd/internal/structures"
	"punchd/internal/testutil"
)

func newTestStore(t *testing.T) (StoreInterface, string) {
	t.Helper()
	dir := t.TempDir()
	conf := &structures.Config{
		Settings: structures.SettingsConfig{
			FilePath:   filepath.Join(dir, "settings.json"),
			ArchiveDir: filepath.Join(dir, "archive"),
		},
	}
	compressor, err := NewZstdCompressor()
	require.NoError(t, err)
	logger := &testutil.MockLogger{}
	archive := NewArchive(conf, compressor, logger)
	return NewStore(conf, archive, logger), dir
}

func TestStoreLoadAbsentFileServesDefaults(t *testing.T) {
	store, _ := newTestStore(t)

	cfg, result := store.Load()

	require.True(t, result.Valid)
	require.NotNil(t, cfg)
	assert.Equal(t, models.SettingsVersion, cfg.Version)
	require.Len(t, cfg.Conversations, 1)
	assert.NotEmpty(t, cfg.Conversations[0].ID)
	assert.Empty(t, cfg.Conversations[0].ChannelID)
	assert.Equal(t, ":office:", cfg.Status.Emoji.Office)
	assert.Equal(t, "退勤しています", cfg.Status.Text.Leave)
}

func TestStoreSaveLoadRoundtrip(t *testing.T) {
	store, _ := newTestStore(t)

	cfg := DefaultAppSettings()
	cfg.Conversations[0].ChannelID = "C001"
	cfg.Conversations[0].SearchMessage = "勤怠"
	cfg.SavedDraft = &models.PunchDraft{ChangeStatusEmoji: true, InOffice: true, AdditionalMessage: "よろしくお願いします"}
	require.NoError(t, store.Save(cfg))

	loaded, result := store.Load()

	require.True(t, result.Valid)
	assert.Equal(t, cfg.Conversations, loaded.Conversations)
	require.NotNil(t, loaded.SavedDraft)
	assert.Equal(t, *cfg.SavedDraft, *loaded.SavedDraft)
}

func TestStoreSaveForcesVersion(t *testing.T) {
	store, dir := newTestStore(t)

	cfg := DefaultAppSettings()
	cfg.Version = 0
	require.NoError(t, store.Save(cfg))

	data, err := os.ReadFile(filepath.Join(dir, "settings.json"))
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, float64(models.SettingsVersion), raw["version"])
}

func TestStoreSaveLeavesNoTempFile(t *testing.T) {
	store, dir := newTestStore(t)

	require.NoError(t, store.Save(DefaultAppSettings()))

	_, err := os.Stat(filepath.Join(dir, "settings.json.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestStoreLoadRejectsMalformedJson(t *testing.T) {
	store, dir := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json"), []byte("{not json"), 0o644))

	cfg, result := store.Load()

	assert.Nil(t, cfg)
	assert.False(t, result.Valid)
	assert.Equal(t, models.ReasonInvalidStructure, result.Reason)
}

func TestStoreLoadRejectsVersionMismatch(t *testing.T) {
	store, dir := newTestStore(t)
	doc := `{"version":2,"conversations":[{"channelId":"C777","searchMessage":"勤怠"}],"status":{}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json"), []byte(doc), 0o644))

	cfg, result := store.Load()

	assert.Nil(t, cfg)
	assert.Equal(t, models.ReasonVersionMismatch, result.Reason)
	require.NotNil(t, result.ActualVersion)
	assert.Equal(t, 2, *result.ActualVersion)

	diags := result.Raw.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, "C777", diags[0].ChannelID)
	assert.Equal(t, "勤怠", diags[0].SearchMessage)
}

func TestStoreLoadMigratesFlatActions(t *testing.T) {
	store, dir := newTestStore(t)

	cfg := DefaultAppSettings()
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	raw["messages"] = map[string]any{
		"workTypes": map[string]any{"office": "業務", "telework": "テレワーク"},
		"actions":   map[string]any{"start": "開始します", "end": "終了します"},
	}
	data, err = json.Marshal(raw)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json"), data, 0o644))

	loaded, result := store.Load()

	require.True(t, result.Valid)
	require.NotNil(t, loaded.Messages)
	assert.Equal(t, "開始します", loaded.Messages.Actions.Office.Start)
	assert.Equal(t, "終了します", loaded.Messages.Actions.Telework.End)
}

func TestStoreResetArchivesAndWipes(t *testing.T) {
	store, dir := newTestStore(t)
	require.NoError(t, store.Save(DefaultAppSettings()))

	require.NoError(t, store.Reset())

	_, err := os.Stat(filepath.Join(dir, "settings.json"))
	assert.True(t, os.IsNotExist(err))

	entries, err := os.ReadDir(filepath.Join(dir, "archive"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), ".json.zst")

	// The next load starts over from defaults.
	cfg, result := store.Load()
	assert.True(t, result.Valid)
	assert.NotNil(t, cfg)
}

func TestStoreResetOnAbsentFileIsNoop(t *testing.T) {
	store, dir := newTestStore(t)

	require.NoError(t, store.Reset())

	_, err := os.Stat(filepath.Join(dir, "archive"))
	assert.True(t, os.IsNotExist(err))
}
