package messages

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/iLeonidze/tg-attendances-bot/logging"
)

// Catalog holds every user-facing string. Entries with printf verbs are
// format templates. An optional YAML file overrides individual entries.
type Catalog struct {
	Unauthorized string `yaml:"unauthorized"`

	Welcome string `yaml:"welcome"`

	UploadPrompt       string `yaml:"upload-prompt"`
	UploadBadExtension string `yaml:"upload-bad-extension"`
	UploadFailed       string `yaml:"upload-failed"`

	RosterMissingColumns string `yaml:"roster-missing-columns"`
	RosterBlankCells     string `yaml:"roster-blank-cells"`
	RosterUnreadable     string `yaml:"roster-unreadable"`
	RosterLoaded         string `yaml:"roster-loaded"`

	MarkNoGroups    string `yaml:"mark-no-groups"`
	MarkChooseGroup string `yaml:"mark-choose-group"`
	MarkGroupEmpty  string `yaml:"mark-group-empty"`
	MarkTitle       string `yaml:"mark-title"`

	ReportNoGroups     string `yaml:"report-no-groups"`
	ReportNoAttendance string `yaml:"report-no-attendance"`
	ReportAskDays      string `yaml:"report-ask-days"`
	ReportBadNumber    string `yaml:"report-bad-number"`
	ReportOutOfRange   string `yaml:"report-out-of-range"`
	ReportGenerating   string `yaml:"report-generating"`
	ReportCaption      string `yaml:"report-caption"`
	ReportNoData       string `yaml:"report-no-data"`
	ReportFailed       string `yaml:"report-failed"`
	ReportSendFailed   string `yaml:"report-send-failed"`

	SaveOk     string `yaml:"save-ok"`
	SaveFailed string `yaml:"save-failed"`

	Cancelled string `yaml:"cancelled"`

	PurgeResult  string `yaml:"purge-result"`
	PurgeNothing string `yaml:"purge-nothing"`

	UnknownAction string `yaml:"unknown-action"`
	CallbackError string `yaml:"callback-error"`
}

func Default() *Catalog {
	return &Catalog{
		Unauthorized: "Извините, этот бот предназначен только для авторизованных пользователей.",

		Welcome: "👋 Привет, %s!\n\n" +
			"Я помогу тебе вести учет посещаемости детей.\n\n" +
			"*Основные команды:*\n" +
			"`/start` - Показать это приветствие\n" +
			"`/upload` - Загрузить новый файл Excel с группами и детьми\n" +
			"`/mark` - Отметить посещаемость на сегодня\n" +
			"`/report` - Выгрузить отчет о посещаемости\n" +
			"`/purge_stale` - Удалить данные об отсутствующих группах и детях",

		UploadPrompt: "Пожалуйста, отправь мне файл `.xlsx` с данными.\n" +
			"Ожидаемые столбцы: `%s`, `%s`.",
		UploadBadExtension: "Пожалуйста, отправь файл в формате `.xlsx`.",
		UploadFailed:       "Произошла ошибка при обработке файла: %v",

		RosterMissingColumns: "Ошибка: Excel файл должен содержать столбцы '%s' и '%s'.",
		RosterBlankCells:     "Ошибка: В файле Excel есть пустые ячейки в столбцах групп или имен.",
		RosterUnreadable:     "Не удалось прочитать Excel файл. Ошибка: %v",
		RosterLoaded:         "Группы успешно загружены/обновлены из файла. Найдено групп: %d.",

		MarkNoGroups:    "Сначала нужно загрузить список групп. Используй команду /upload.",
		MarkChooseGroup: "Выбери группу для отметки посещаемости сегодня:",
		MarkGroupEmpty:  "В группе '%s' нет детей согласно последнему файлу Excel.",
		MarkTitle:       "Отметь присутствующих в группе '%s' на %s:",

		ReportNoGroups:     "Нет данных о группах для создания отчета. Загрузите Excel файл.",
		ReportNoAttendance: "Нет данных о посещаемости для создания отчета.",
		ReportAskDays:      "За сколько последних дней нужно сделать отчет? (Максимум %d)",
		ReportBadNumber:    "Пожалуйста, введи корректное число дней.",
		ReportOutOfRange:   "Пожалуйста, введи число от 1 до %d.",
		ReportGenerating:   "Генерирую отчет...",
		ReportCaption:      "Отчет о посещаемости за последние %d дней.",
		ReportNoData:       "Нет данных о посещаемости за последние %d дней для генерации отчета.",
		ReportFailed:       "Не удалось сгенерировать отчет. Проверь логи.",
		ReportSendFailed:   "Не удалось отправить файл отчета. Ошибка: %v",

		SaveOk: "✅ Посещаемость для группы '%s' на %s сохранена.\n" +
			"Можешь выбрать другую группу или использовать /mark снова.",
		SaveFailed: "⚠️ Не удалось сохранить данные о посещаемости.",

		Cancelled: "Операция отменена.",

		PurgeResult:  "Удалено групп: %d, детей: %d.",
		PurgeNothing: "Нет устаревших записей для удаления.",

		UnknownAction: "Неизвестное действие: %s",
		CallbackError: "Произошла ошибка при обработке запроса: %v",
	}
}

// Load returns the default catalog, optionally overlaid with entries from a
// YAML file. Entries absent from the file keep their defaults.
func Load(path string) (*Catalog, error) {
	catalog := Default()
	if path == "" {
		return catalog, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, catalog); err != nil {
		return nil, err
	}
	logging.Logger.Infow("message catalog overrides loaded", "path", path)
	return catalog, nil
}
