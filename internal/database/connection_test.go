package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/mhsurvey/internal/config"
	"github.com/example/mhsurvey/internal/database/dbtest"
)

func TestOpen_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.sqlite")

	_, err := Open(context.Background(), config.SourceConfig{Driver: "sqlite", DSN: path})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataAccess))

	// The driver must not have created the file
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestOpen_Directory(t *testing.T) {
	_, err := Open(context.Background(), config.SourceConfig{Driver: "sqlite", DSN: t.TempDir()})
	assert.True(t, errors.Is(err, ErrDataAccess))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), config.SourceConfig{Driver: "mysql", DSN: "x"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrDataAccess))
}

func TestOpen_ReadOnly(t *testing.T) {
	path := dbtest.NewEmptyStore(t)

	db, err := Open(context.Background(), config.SourceConfig{Driver: "sqlite", DSN: path})
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`INSERT INTO Survey (SurveyID, Description) VALUES (2020, 'x')`)
	assert.Error(t, err, "store must be opened read-only")
}

func TestReadOnlyDSN(t *testing.T) {
	path := dbtest.NewEmptyStore(t)

	tests := []struct {
		name string
		cfg  config.SourceConfig
		want string
	}{
		{"sqlite path", config.SourceConfig{Driver: "sqlite3", DSN: path}, "file:" + path + "?mode=ro"},
		{"sqlite uri", config.SourceConfig{Driver: "sqlite", DSN: "file:" + path + "?cache=shared"}, "file:" + path + "?mode=ro"},
		{"postgres url", config.SourceConfig{Driver: "postgres", DSN: "postgres://u@h/db"}, "postgres://u@h/db?default_transaction_read_only=on"},
		{"postgres url with params", config.SourceConfig{Driver: "postgres", DSN: "postgres://u@h/db?sslmode=disable"}, "postgres://u@h/db?sslmode=disable&default_transaction_read_only=on"},
		{"postgres keywords", config.SourceConfig{Driver: "postgres", DSN: "host=h dbname=db"}, "host=h dbname=db default_transaction_read_only=on"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readOnlyDSN(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckSchema(t *testing.T) {
	ctx := context.Background()

	t.Run("valid store", func(t *testing.T) {
		db := openStore(t, dbtest.NewEmptyStore(t))
		assert.NoError(t, CheckSchema(ctx, db))
	})

	t.Run("missing table", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "partial.sqlite")
		seed(t, path, `CREATE TABLE Survey (SurveyID INTEGER, Description TEXT)`)

		err := CheckSchema(ctx, openStore(t, path))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDataAccess))
		assert.Contains(t, err.Error(), "Question")
	})

	t.Run("missing column", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "renamed.sqlite")
		seed(t, path,
			`CREATE TABLE Survey (SurveyID INTEGER, Description TEXT)`,
			`CREATE TABLE Question (questiontext TEXT, questionid INTEGER)`,
			`CREATE TABLE Answer (AnswerText TEXT, SurveyID INTEGER, RespondentID INTEGER, QuestionID INTEGER)`,
		)

		err := CheckSchema(ctx, openStore(t, path))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDataAccess))
		assert.Contains(t, err.Error(), "Answer")
	})
}
