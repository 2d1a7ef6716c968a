package roster

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gobwas/glob"
	"github.com/xuri/excelize/v2"

	"github.com/iLeonidze/tg-attendances-bot/logging"
)

// Column headers expected in the uploaded spreadsheet.
const (
	GroupColumn = "Группа"
	ChildColumn = "Имя Ребенка"
)

const xlsxMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	ErrNameNotAllowed = errors.New("file name does not match the allowed upload patterns")
	ErrNotSpreadsheet = errors.New("file content is not an xlsx spreadsheet")
	ErrMissingColumns = fmt.Errorf("spreadsheet must contain the %q and %q columns", GroupColumn, ChildColumn)
	ErrBlankCell      = errors.New("spreadsheet has blank cells in the group or child columns")
	ErrNoSheets       = errors.New("spreadsheet contains no sheets")
)

// Validator filters upload candidates by file name before any content is
// fetched from Telegram.
type Validator struct {
	uploadGlobs []glob.Glob
}

func NewValidator(patterns []string) (*Validator, error) {
	validator := &Validator{uploadGlobs: make([]glob.Glob, len(patterns))}
	for index, pattern := range patterns {
		globPattern, err := glob.Compile(strings.ToLower(pattern))
		if err != nil {
			return nil, err
		}
		validator.uploadGlobs[index] = globPattern
	}
	return validator, nil
}

func (v *Validator) NameAllowed(name string) bool {
	lowered := strings.ToLower(name)
	for _, globPattern := range v.uploadGlobs {
		if globPattern.Match(lowered) {
			return true
		}
	}
	return false
}

// Sniff rejects payloads whose content is not an xlsx workbook regardless of
// the file name they were sent under.
func Sniff(data []byte) error {
	mime := mimetype.Detect(data)
	if mime.Is(xlsxMimeType) || mime.Is("application/zip") {
		return nil
	}
	return ErrNotSpreadsheet
}

// Parse reads an xlsx roster. The first sheet must carry a header row with
// the two expected columns; every following non-empty row must fill both.
func Parse(r io.Reader) (*Roster, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("unable to open spreadsheet: %w", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("unable to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrMissingColumns
	}

	groupIndex, childIndex := -1, -1
	for index, header := range rows[0] {
		switch strings.TrimSpace(header) {
		case GroupColumn:
			groupIndex = index
		case ChildColumn:
			childIndex = index
		}
	}
	if groupIndex < 0 || childIndex < 0 {
		return nil, ErrMissingColumns
	}

	groups := make(map[string][]string)
	for _, row := range rows[1:] {
		groupName := cellValue(row, groupIndex)
		childName := cellValue(row, childIndex)
		if groupName == "" && childName == "" && rowEmpty(row) {
			continue
		}
		if groupName == "" || childName == "" {
			return nil, ErrBlankCell
		}
		groups[groupName] = append(groups[groupName], childName)
	}
	roster := New(groups)
	logging.Logger.Infow("roster parsed", "groups", roster.GroupCount())
	return roster, nil
}

func ParseFile(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := Sniff(data); err != nil {
		return nil, err
	}
	return Parse(bytes.NewReader(data))
}

func cellValue(row []string, index int) string {
	if index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
