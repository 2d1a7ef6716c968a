package messages

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iLeonidze/tg-attendances-bot/logging"
)

func TestDefaultCatalogHasNoBlankEntries(t *testing.T) {
	catalog := reflect.ValueOf(*Default())
	for index := 0; index < catalog.NumField(); index++ {
		assert.NotEmpty(t, catalog.Field(index).String(),
			"catalog entry %s is blank", catalog.Type().Field(index).Name)
	}
}

func TestLoadWithoutPathReturnsDefaults(t *testing.T) {
	catalog, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), catalog)
}

func TestLoadOverridesOnlyListedEntries(t *testing.T) {
	logging.Initialize(false)
	defer logging.Release()

	path := filepath.Join(t.TempDir(), "messages.yaml")
	require.NoError(t, os.WriteFile(path, []byte("unauthorized: Доступ запрещен.\n"), 0644))

	catalog, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Доступ запрещен.", catalog.Unauthorized)
	assert.Equal(t, Default().Welcome, catalog.Welcome)
	assert.Equal(t, Default().SaveOk, catalog.SaveOk)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
