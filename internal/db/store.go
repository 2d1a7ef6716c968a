package db

import (
	"github.com/iLeonidze/tg-attendances-bot/internal/models"
)

// AttendanceStore adapts the SQL layer to the attendance store contract.
// Marks are written through immediately, so snapshot flushes are no-ops.
type AttendanceStore struct {
	database Database
}

func NewAttendanceStore(database Database) *AttendanceStore {
	return &AttendanceStore{database: database}
}

func (s *AttendanceStore) Load() (models.AttendanceData, error) {
	records, err := s.database.Attendance().GetAll()
	if err != nil {
		return nil, err
	}
	data := models.AttendanceData{}
	for _, record := range records {
		data.Mark(record.Day, record.GroupName, record.ChildName)
	}
	return data, nil
}

func (s *AttendanceStore) Mark(day string, group string, child string) error {
	return s.database.Attendance().Insert(day, group, child)
}

func (s *AttendanceStore) Unmark(day string, group string, child string) error {
	return s.database.Attendance().Delete(day, group, child)
}

func (s *AttendanceStore) Flush(data models.AttendanceData) error {
	return nil
}
