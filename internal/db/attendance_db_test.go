package db

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iLeonidze/tg-attendances-bot/internal/models"
)

const testDriverName = "sqlmock"

func buildMockedAttendanceDb(t *testing.T) (sqlmock.Sqlmock, *sql.DB, *sqlAttendanceDb) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	attendanceDb := newSqlAttendanceDb(sqlx.NewDb(db, testDriverName))
	return mock, db, attendanceDb
}

func TestAttendanceDbInsertUsesUpsert(t *testing.T) {
	mock, db, attendanceDb := buildMockedAttendanceDb(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO attendance_record .+ ON CONFLICT .+ DO NOTHING").
		WithArgs("2025-03-10", "Младшая", "Анна").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, attendanceDb.Insert("2025-03-10", "Младшая", "Анна"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceDbDelete(t *testing.T) {
	mock, db, attendanceDb := buildMockedAttendanceDb(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM attendance_record WHERE day = .+ AND group_name = .+ AND child_name = .+").
		WithArgs("2025-03-10", "Младшая", "Анна").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, attendanceDb.Delete("2025-03-10", "Младшая", "Анна"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceDbGetAll(t *testing.T) {
	mock, db, attendanceDb := buildMockedAttendanceDb(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "day", "group_name", "child_name"}).
		AddRow(1, "2025-03-10", "Младшая", "Анна").
		AddRow(2, "2025-03-11", "Старшая", "Вера")
	mock.ExpectQuery("SELECT id, day, group_name, child_name FROM attendance_record").
		WillReturnRows(rows)

	records, err := attendanceDb.GetAll()
	require.NoError(t, err)
	assert.Equal(t, []models.AttendanceRecordModel{
		{Id: 1, Day: "2025-03-10", GroupName: "Младшая", ChildName: "Анна"},
		{Id: 2, Day: "2025-03-11", GroupName: "Старшая", ChildName: "Вера"},
	}, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceDbEnsureSchema(t *testing.T) {
	mock, db, attendanceDb := buildMockedAttendanceDb(t)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS attendance_record").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, attendanceDb.EnsureSchema())
	assert.NoError(t, mock.ExpectationsWereMet())
}
