package storage

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"

	"github.com/iLeonidze/tg-attendances-bot/internal/config"
)

const (
	rosterFileName     = "groups.xlsx"
	attendanceFileName = "attendance.json"
)

// Manager owns the on-disk layout: the data directory with the roster and
// attendance files, and the reports directory exposed as a blob bucket.
type Manager struct {
	storageConfig *config.StorageConfig
	dataPath      string
	reportsPath   string
}

func NewStorageManager(storageConfig *config.StorageConfig) (*Manager, error) {
	if err := os.MkdirAll(storageConfig.DataPath, 0755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(storageConfig.ReportsPath, 0755); err != nil {
		return nil, err
	}
	return &Manager{
		storageConfig: storageConfig,
		dataPath:      storageConfig.DataPath,
		reportsPath:   storageConfig.ReportsPath,
	}, nil
}

func (m *Manager) RosterPath() string {
	return filepath.Join(m.dataPath, rosterFileName)
}

func (m *Manager) AttendancePath() string {
	return filepath.Join(m.dataPath, attendanceFileName)
}

// TempUploadPath returns a unique scratch path for a download in flight.
func (m *Manager) TempUploadPath() string {
	return filepath.Join(m.dataPath, "upload-"+uuid.New().String()+".tmp")
}

func (m *Manager) ReportPath(name string) string {
	return filepath.Join(m.reportsPath, name)
}

func (m *Manager) OpenReportsBucket() (*blob.Bucket, error) {
	// Reports are served back to the operator straight from this directory;
	// keep it free of .attrs sidecar files.
	return fileblob.OpenBucket(m.reportsPath, &fileblob.Options{
		Metadata:  fileblob.MetadataDontWrite,
		NoTempDir: true,
	})
}
