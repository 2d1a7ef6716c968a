package attendance

import "github.com/iLeonidze/tg-attendances-bot/internal/models"

// Store persists attendance marks. The file store is snapshot based: Mark and
// Unmark only touch the in-memory state and Flush writes it out. The SQL
// store is write-through: Mark and Unmark hit the database and Flush is a
// no-op.
type Store interface {
	Load() (models.AttendanceData, error)
	Mark(day string, group string, child string) error
	Unmark(day string, group string, child string) error
	Flush(data models.AttendanceData) error
}
