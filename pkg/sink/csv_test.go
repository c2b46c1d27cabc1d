package sink

import (
	"database/sql"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David-Botos/operator-opinions/pkg/model"
)

func sampleRows() []model.OutputRow {
	base := model.OutputRow{
		PostID:            "p1",
		PostAuthor:        sql.NullString{String: "ana", Valid: true},
		CommentID:         "c1",
		PostTitle:         sql.NullString{String: "claro, entel \"malos\"", Valid: true},
		PostCreatedUTC:    model.NewValue(1700000000.0),
		Subreddit:         sql.NullString{String: "PERU", Valid: true},
		UpvoteRatio:       model.NewValue(0.95),
		Comment:           sql.NullString{String: "señal", Valid: true},
		CommentScore:      model.NewValue(int64(-2)),
		CommentCreatedUTC: model.NewValue(time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)),
	}
	first, second := base, base
	first.Operator = "claro"
	second.Operator = "entel"
	return []model.OutputRow{first, second}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "files", "dataset.csv")
	w := NewCSVWriter(path, "operadora", nil, nil)

	result, err := w.Write(sampleRows())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Rows)
	assert.Positive(t, result.Bytes)

	records := readCSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, model.OutputColumns("operadora"), records[0])
	assert.Len(t, records[0], 14)
	assert.Equal(t, "operadora", records[0][13])

	assert.Equal(t, []string{
		"p1", "ana", "c1", "", "claro, entel \"malos\"", "1700000000", "", "", "PERU",
		"0.95", "señal", "-2", "2024-03-01 12:30:00", "claro",
	}, records[1])
	assert.Equal(t, "entel", records[2][13])

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestCSVWriter_EmptyDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	_, err := NewCSVWriter(path, "operator", nil, nil).Write(nil)
	require.NoError(t, err)

	records := readCSV(t, path)
	require.Len(t, records, 1)
	assert.Equal(t, "operator", records[0][13])
}

func TestCSVWriter_FailureLeavesDestinationUntouched(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte("previous run\n"), 0o644))

	rows := sampleRows()
	rows[1].UpvoteRatio = model.NewValue(math.NaN())

	_, err := NewCSVWriter(path, "operadora", nil, nil).Write(rows)
	require.Error(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous run\n", string(content))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must be removed")
}

func TestCSVWriter_FailureCreatesNoFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dataset.csv")

	rows := sampleRows()
	rows[0].PostCreatedUTC = model.NewValue(math.Inf(1))

	_, err := NewCSVWriter(path, "operadora", nil, nil).Write(rows)
	require.Error(t, err)
	assert.NoFileExists(t, path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
