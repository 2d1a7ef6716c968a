package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/xuri/excelize/v2"
	"gocloud.dev/blob"

	"github.com/iLeonidze/tg-attendances-bot/internal/models"
	"github.com/iLeonidze/tg-attendances-bot/internal/roster"
	"github.com/iLeonidze/tg-attendances-bot/internal/storage"
	"github.com/iLeonidze/tg-attendances-bot/internal/utils"
	"github.com/iLeonidze/tg-attendances-bot/logging"
)

// ErrNoData signals that the requested window holds no recorded attendance.
// Callers present it to the user; it is not a failure.
var ErrNoData = errors.New("no attendance recorded in the requested range")

// Generator renders attendance matrices into xlsx workbooks stored in the
// reports bucket. Workbooks are cached per (day, window) so repeated report
// requests on the same day reuse the artifact.
type Generator struct {
	manager *storage.Manager
	bucket  *blob.Bucket
	cache   *lru.Cache[string, string]
	now     func() time.Time
}

func NewGenerator(manager *storage.Manager, cacheSize int) (*Generator, error) {
	bucket, err := manager.OpenReportsBucket()
	if err != nil {
		return nil, err
	}
	if cacheSize <= 0 {
		cacheSize = 1
	}
	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Generator{
		manager: manager,
		bucket:  bucket,
		cache:   cache,
		now:     time.Now,
	}, nil
}

func (g *Generator) Close() error {
	return g.bucket.Close()
}

// Invalidate drops cached workbooks; called whenever attendance is saved.
func (g *Generator) Invalidate() {
	g.cache.Purge()
}

// Generate renders the report for the last `days` days and returns the local
// path of the workbook.
func (g *Generator) Generate(ctx context.Context, ros *roster.Roster, data models.AttendanceData, days int) (string, error) {
	if ros.IsEmpty() {
		return "", ErrNoData
	}
	if days <= 0 {
		return "", fmt.Errorf("number of days must be positive, got %d", days)
	}

	end := g.now()
	cacheKey := fmt.Sprintf("%s:%d", utils.DayKey(end), days)
	if path, ok := g.cache.Get(cacheKey); ok {
		if _, err := os.Stat(path); err == nil {
			logging.Logger.Debugw("report served from cache", "path", path)
			return path, nil
		}
		g.cache.Remove(cacheKey)
	}

	recordedDays := make([]string, 0)
	for _, key := range utils.DayKeysBack(end, days) {
		if data.HasMarks(key) {
			recordedDays = append(recordedDays, key)
		}
	}
	if len(recordedDays) == 0 {
		return "", ErrNoData
	}

	fileName := fmt.Sprintf("attendance_report_%s_last_%dd.xlsx", end.Format("20060102"), days)
	content, err := g.render(ros, data, recordedDays)
	if err != nil {
		return "", err
	}
	if err := g.bucket.WriteAll(ctx, fileName, content, nil); err != nil {
		return "", err
	}
	path := g.manager.ReportPath(fileName)
	g.cache.Add(cacheKey, path)
	logging.Logger.Infow("attendance report generated", "path", path, "days", days,
		"recorded-days", len(recordedDays))
	return path, nil
}

func (g *Generator) render(ros *roster.Roster, data models.AttendanceData, recordedDays []string) ([]byte, error) {
	workbook := excelize.NewFile()
	defer workbook.Close()
	sheet := workbook.GetSheetName(0)

	headers := append([]string{roster.GroupColumn, roster.ChildColumn}, recordedDays...)
	for column, header := range headers {
		cell, err := excelize.CoordinatesToCellName(column+1, 1)
		if err != nil {
			return nil, err
		}
		if err := workbook.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	row := 2
	for _, group := range ros.Groups() {
		for _, child := range ros.Children(group) {
			values := make([]interface{}, 0, len(headers))
			values = append(values, group, child)
			for _, day := range recordedDays {
				present := data.Present(day, group).Has(child)
				if present {
					values = append(values, 1)
				} else {
					values = append(values, 0)
				}
			}
			for column, value := range values {
				cell, err := excelize.CoordinatesToCellName(column+1, row)
				if err != nil {
					return nil, err
				}
				if err := workbook.SetCellValue(sheet, cell, value); err != nil {
					return nil, err
				}
			}
			row++
		}
	}

	buffer, err := workbook.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
