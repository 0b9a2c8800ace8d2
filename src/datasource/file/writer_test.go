package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SheetClean/src/table"
)

func sampleTable() *table.Table {
	return table.FromRecords(
		[]string{"id", "name", "score", "joined"},
		[][]string{
			{"1", "ana", "3.5", "2024-01-02"},
			{"2", "", "", ""},
			{"3", "b, \"c\"", "-7", "2024-01-03 09:30:00"},
		},
		map[int]table.Kind{3: table.Other},
	)
}

func TestSaveRoundTrip(t *testing.T) {
	for _, format := range []string{"csv", "xlsx", "CSV", "Xlsx"} {
		t.Run(format, func(t *testing.T) {
			orig := sampleTable()
			path := filepath.Join(t.TempDir(), "out."+format)

			require.NoError(t, Save(orig, path, format))
			got, err := Load(path)
			require.NoError(t, err)

			assert.Equal(t, orig.Names(), got.Names())
			assert.Equal(t, orig.Nrow(), got.Nrow())
			assert.Equal(t, orig.Records(), got.Records())
			for i, c := range orig.Columns {
				assert.Equal(t, c.MissingCount(), got.Columns[i].MissingCount(), c.Name)
			}
			assert.Equal(t, table.Numeric, got.Col("score").Kind)
			assert.Equal(t, -7.0, got.Col("score").Cells[2].Num)
		})
	}
}

func TestSaveXLSXKeepsDateKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dates.xlsx")

	require.NoError(t, Save(sampleTable(), path, "xlsx"))
	got, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, table.Other, got.Col("joined").Kind)
}

func TestSaveCSVContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	require.NoError(t, Save(sampleTable(), path, "csv"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want := "id,name,score,joined\n" +
		"1,ana,3.5,2024-01-02\n" +
		"2,,,\n" +
		"3,\"b, \"\"c\"\"\",-7,2024-01-03 09:30:00\n"
	assert.Equal(t, want, string(data))
}

func TestSaveEmptyTable(t *testing.T) {
	for _, format := range []string{"csv", "xlsx"} {
		path := filepath.Join(t.TempDir(), "empty."+format)
		tb := table.FromRecords([]string{"a", "b"}, nil, nil)

		require.NoError(t, Save(tb, path, format))
		got, err := Load(path)

		require.NoError(t, err, format)
		assert.Equal(t, []string{"a", "b"}, got.Names(), format)
		assert.Equal(t, 0, got.Nrow(), format)
	}
}

func TestSaveFailures(t *testing.T) {
	dir := t.TempDir()

	err := Save(sampleTable(), filepath.Join(dir, "out.json"), "json")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.NoFileExists(t, filepath.Join(dir, "out.json"))

	err = Save(nil, filepath.Join(dir, "out.csv"), "csv")
	assert.ErrorIs(t, err, ErrNoTable)
	assert.NoFileExists(t, filepath.Join(dir, "out.csv"))

	for _, format := range []string{"csv", "xlsx"} {
		err = Save(sampleTable(), filepath.Join(dir, "missing", "out."+format), format)
		assert.ErrorIs(t, err, ErrWrite, format)
	}
}
