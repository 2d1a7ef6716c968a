package db

import (
	"github.com/jmoiron/sqlx"

	"github.com/iLeonidze/tg-attendances-bot/internal/models"
)

const attendanceSchema = `
CREATE TABLE IF NOT EXISTS attendance_record (
    id SERIAL PRIMARY KEY,
    day VARCHAR(10) NOT NULL,
    group_name TEXT NOT NULL,
    child_name TEXT NOT NULL,
    UNIQUE (day, group_name, child_name)
)`

type sqlAttendanceDb struct {
	db *sqlx.DB
}

func newSqlAttendanceDb(db *sqlx.DB) *sqlAttendanceDb {
	return &sqlAttendanceDb{db: db}
}

func (s *sqlAttendanceDb) EnsureSchema() error {
	_, err := s.db.Exec(attendanceSchema)
	return err
}

func (s *sqlAttendanceDb) GetAll() ([]models.AttendanceRecordModel, error) {
	records := []models.AttendanceRecordModel{}
	err := s.db.Select(&records, "SELECT id, day, group_name, child_name FROM attendance_record")
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *sqlAttendanceDb) Insert(day string, group string, child string) error {
	_, err := s.db.Exec(
		"INSERT INTO attendance_record (day, group_name, child_name) VALUES ($1, $2, $3)"+
			" ON CONFLICT (day, group_name, child_name) DO NOTHING",
		day, group, child)
	return err
}

func (s *sqlAttendanceDb) Delete(day string, group string, child string) error {
	_, err := s.db.Exec(
		"DELETE FROM attendance_record WHERE day = $1 AND group_name = $2 AND child_name = $3",
		day, group, child)
	return err
}
