package attendance

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iLeonidze/tg-attendances-bot/internal/models"
	"github.com/iLeonidze/tg-attendances-bot/logging"
)

func TestFileStoreLoadMissingFile(t *testing.T) {
	logging.Initialize(false)
	defer logging.Release()

	store := NewFileStore(filepath.Join(t.TempDir(), "attendance.json"))
	data, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestFileStoreLoadCorruptedFile(t *testing.T) {
	logging.Initialize(false)
	defer logging.Release()

	path := filepath.Join(t.TempDir(), "attendance.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	store := NewFileStore(path)
	data, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestFileStoreFlushAndLoadRoundTrip(t *testing.T) {
	logging.Initialize(false)
	defer logging.Release()

	path := filepath.Join(t.TempDir(), "attendance.json")
	store := NewFileStore(path)

	data := models.AttendanceData{}
	data.Mark("2025-03-10", "Младшая", "Борис")
	data.Mark("2025-03-10", "Младшая", "Анна")
	data.Mark("2025-03-11", "Старшая", "Вера")
	require.NoError(t, store.Flush(data))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(raw)
	// Pretty-printed, children sorted, cyrillic kept readable.
	assert.Contains(t, content, "    \"2025-03-10\"")
	assert.Contains(t, content, "Анна")
	assert.Less(t, strings.Index(content, "Анна"), strings.Index(content, "Борис"))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, models.NewChildSet("Анна", "Борис"), loaded.Present("2025-03-10", "Младшая"))
	assert.Equal(t, models.NewChildSet("Вера"), loaded.Present("2025-03-11", "Старшая"))
}

func TestFileStoreFlushReplacesPreviousContent(t *testing.T) {
	logging.Initialize(false)
	defer logging.Release()

	path := filepath.Join(t.TempDir(), "attendance.json")
	store := NewFileStore(path)

	first := models.AttendanceData{}
	first.Mark("2025-03-10", "Младшая", "Анна")
	require.NoError(t, store.Flush(first))

	second := models.AttendanceData{}
	second.Mark("2025-03-12", "Старшая", "Вера")
	require.NoError(t, store.Flush(second))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded.Present("2025-03-10", "Младшая"))
	assert.True(t, loaded.Present("2025-03-12", "Старшая").Has("Вера"))
}
