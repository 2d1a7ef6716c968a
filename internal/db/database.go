package db

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/iLeonidze/tg-attendances-bot/internal/config"
	"github.com/iLeonidze/tg-attendances-bot/internal/models"
	"github.com/iLeonidze/tg-attendances-bot/internal/utils"
)

const (
	connectRetryPeriodMs = 2000
	connectRetries       = 5
)

type AttendanceDb interface {
	GetAll() ([]models.AttendanceRecordModel, error)
	Insert(day string, group string, child string) error
	Delete(day string, group string, child string) error
}

type Database interface {
	Attendance() AttendanceDb
	Close() error
}

type SqlDatabase struct {
	db           *sqlx.DB
	config       *config.DatabaseConfig
	attendanceDb *sqlAttendanceDb
}

func NewSQLDatabase(config *config.DatabaseConfig) (*SqlDatabase, error) {
	db, err := connect(config)
	if err != nil {
		return nil, err
	}
	dbX := sqlx.NewDb(db, config.Driver)
	database := &SqlDatabase{
		db:           dbX,
		attendanceDb: newSqlAttendanceDb(dbX),
		config:       config,
	}
	if err := database.attendanceDb.EnsureSchema(); err != nil {
		return nil, err
	}
	return database, nil
}

func (s *SqlDatabase) Attendance() AttendanceDb {
	return s.attendanceDb
}

func (s *SqlDatabase) Close() error {
	return s.db.Close()
}

func connect(config *config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open(config.Driver, config.DataSource)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err == nil {
		return db, nil
	}
	// The database may still be coming up when the bot starts; ping again on
	// a fixed period before giving up.
	done := make(chan error, 1)
	retry := utils.NewRetryRoutine(connectRetryPeriodMs, connectRetries,
		db.Ping,
		func(err error) { done <- err },
	)
	retry.Start()
	if err := <-done; err != nil {
		return nil, err
	}
	return db, nil
}
