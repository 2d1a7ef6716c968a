package attendance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/iLeonidze/tg-attendances-bot/internal/models"
	"github.com/iLeonidze/tg-attendances-bot/logging"
)

// FileStore keeps the attendance snapshot in a pretty-printed JSON file:
// day → group → sorted list of present children.
type FileStore struct {
	path string
	mtx  sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (models.AttendanceData, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		logging.Logger.Warnw("attendance file not found, starting with empty attendance", "path", s.path)
		return models.AttendanceData{}, nil
	}
	if err != nil {
		return nil, err
	}
	serialized := map[string]map[string][]string{}
	if err := json.Unmarshal(raw, &serialized); err != nil {
		// The original data stays on disk; a corrupted file must not keep
		// the bot from starting.
		logging.Logger.Errorw("attendance file is corrupted, starting with empty attendance",
			"path", s.path, "error", err)
		return models.AttendanceData{}, nil
	}
	data := make(models.AttendanceData, len(serialized))
	for day, groups := range serialized {
		for group, children := range groups {
			for _, child := range children {
				data.Mark(day, group, child)
			}
			if len(children) == 0 {
				if _, ok := data[day]; !ok {
					data[day] = map[string]models.ChildSet{}
				}
				data[day][group] = models.ChildSet{}
			}
		}
	}
	logging.Logger.Infow("attendance data loaded", "path", s.path, "days", len(data))
	return data, nil
}

func (s *FileStore) Mark(day string, group string, child string) error {
	return nil
}

func (s *FileStore) Unmark(day string, group string, child string) error {
	return nil
}

func (s *FileStore) Flush(data models.AttendanceData) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	serialized := make(map[string]map[string][]string, len(data))
	for day, groups := range data {
		serialized[day] = make(map[string][]string, len(groups))
		for group, set := range groups {
			serialized[day][group] = set.Sorted()
		}
	}

	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(serialized); err != nil {
		return err
	}

	tmpPath := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(tmpPath, buffer.Bytes(), 0644); err != nil {
		return fmt.Errorf("error writing attendance data: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("error replacing attendance file: %w", err)
	}
	logging.Logger.Infow("attendance data saved", "path", s.path)
	return nil
}
