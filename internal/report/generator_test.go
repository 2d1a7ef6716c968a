package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/iLeonidze/tg-attendances-bot/internal/config"
	"github.com/iLeonidze/tg-attendances-bot/internal/models"
	"github.com/iLeonidze/tg-attendances-bot/internal/roster"
	"github.com/iLeonidze/tg-attendances-bot/internal/storage"
	"github.com/iLeonidze/tg-attendances-bot/logging"
)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	baseDir := t.TempDir()
	manager, err := storage.NewStorageManager(&config.StorageConfig{
		DataPath:    baseDir + "/data",
		ReportsPath: baseDir + "/reports",
	})
	require.NoError(t, err)
	generator, err := NewGenerator(manager, 4)
	require.NoError(t, err)
	t.Cleanup(func() { generator.Close() })
	generator.now = func() time.Time {
		return time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	}
	return generator
}

func testRoster() *roster.Roster {
	return roster.New(map[string][]string{
		"Младшая": {"Анна", "Борис"},
		"Старшая": {"Вера"},
	})
}

func TestGenerateWritesAttendanceMatrix(t *testing.T) {
	logging.Initialize(false)
	defer logging.Release()

	generator := newTestGenerator(t)
	data := models.AttendanceData{}
	data.Mark("2025-03-10", "Младшая", "Анна")
	data.Mark("2025-03-12", "Старшая", "Вера")
	// Marked outside of the window, must not produce a column.
	data.Mark("2025-01-01", "Младшая", "Борис")

	path, err := generator.Generate(context.Background(), testRoster(), data, 7)
	require.NoError(t, err)
	assert.Contains(t, path, "attendance_report_20250312_last_7d.xlsx")

	workbook, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer workbook.Close()

	rows, err := workbook.GetRows(workbook.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{roster.GroupColumn, roster.ChildColumn, "2025-03-10", "2025-03-12"}, rows[0])
	assert.Equal(t, []string{"Младшая", "Анна", "1", "0"}, rows[1])
	assert.Equal(t, []string{"Младшая", "Борис", "0", "0"}, rows[2])
	assert.Equal(t, []string{"Старшая", "Вера", "0", "1"}, rows[3])
}

func TestGenerateNoDataInWindow(t *testing.T) {
	logging.Initialize(false)
	defer logging.Release()

	generator := newTestGenerator(t)
	data := models.AttendanceData{}
	data.Mark("2025-01-01", "Младшая", "Анна")

	_, err := generator.Generate(context.Background(), testRoster(), data, 7)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestGenerateEmptyRoster(t *testing.T) {
	logging.Initialize(false)
	defer logging.Release()

	generator := newTestGenerator(t)
	_, err := generator.Generate(context.Background(), roster.Empty(), models.AttendanceData{}, 7)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestGenerateLeavesOnlyWorkbooksInReportsDir(t *testing.T) {
	logging.Initialize(false)
	defer logging.Release()

	baseDir := t.TempDir()
	reportsDir := filepath.Join(baseDir, "reports")
	manager, err := storage.NewStorageManager(&config.StorageConfig{
		DataPath:    filepath.Join(baseDir, "data"),
		ReportsPath: reportsDir,
	})
	require.NoError(t, err)
	generator, err := NewGenerator(manager, 4)
	require.NoError(t, err)
	t.Cleanup(func() { generator.Close() })
	generator.now = func() time.Time {
		return time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	}

	data := models.AttendanceData{}
	data.Mark("2025-03-12", "Младшая", "Анна")
	_, err = generator.Generate(context.Background(), testRoster(), data, 7)
	require.NoError(t, err)

	entries, err := os.ReadDir(reportsDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	for _, entry := range entries {
		assert.True(t, strings.HasSuffix(entry.Name(), ".xlsx"),
			"unexpected file in the reports directory: %s", entry.Name())
	}
}

func TestGenerateServesCachedReportUntilInvalidated(t *testing.T) {
	logging.Initialize(false)
	defer logging.Release()

	generator := newTestGenerator(t)
	data := models.AttendanceData{}
	data.Mark("2025-03-12", "Младшая", "Анна")

	first, err := generator.Generate(context.Background(), testRoster(), data, 7)
	require.NoError(t, err)

	// New marks are invisible while the cached workbook is served.
	data.Mark("2025-03-12", "Младшая", "Борис")
	cached, err := generator.Generate(context.Background(), testRoster(), data, 7)
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	workbook, err := excelize.OpenFile(cached)
	require.NoError(t, err)
	rows, err := workbook.GetRows(workbook.GetSheetName(0))
	workbook.Close()
	require.NoError(t, err)
	assert.Equal(t, []string{"Младшая", "Борис", "0"}, rows[2])

	generator.Invalidate()
	refreshed, err := generator.Generate(context.Background(), testRoster(), data, 7)
	require.NoError(t, err)

	workbook, err = excelize.OpenFile(refreshed)
	require.NoError(t, err)
	rows, err = workbook.GetRows(workbook.GetSheetName(0))
	workbook.Close()
	require.NoError(t, err)
	assert.Equal(t, []string{"Младшая", "Борис", "1"}, rows[2])
}
