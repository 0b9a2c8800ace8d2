package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SheetClean/src/table"
)

func mixedTable() *table.Table {
	return table.FromRecords(
		[]string{"id", "city", "score", "when"},
		[][]string{
			{"1", "Lisbon", "10", "2024-01-01"},
			{"2", "", "", ""},
			{"1", "Lisbon", "10", "2024-01-01"},
			{"3", "Porto", "30", "2024-01-03"},
			{"4", "Lisbon", "", "2024-01-04"},
			{"2", "", "", ""},
		},
		map[int]table.Kind{3: table.Other},
	)
}

func TestCleanDeduplicates(t *testing.T) {
	// 场景A
	tb := table.FromRecords([]string{"num", "cat"}, [][]string{{"1", "a"}, {"1", "a"}, {"2", "b"}}, nil)

	out, rep := Clean(tb)

	require.Equal(t, 1, rep.Duplicates)
	assert.Equal(t, 3, rep.RowsBefore)
	assert.Equal(t, [][]string{{"num", "cat"}, {"1", "a"}, {"2", "b"}}, out.Records())
}

func TestCleanNumericMedian(t *testing.T) {
	// 场景B
	tb := table.FromRecords([]string{"n"}, [][]string{{"1"}, {"3"}, {""}, {"5"}}, nil)

	out, rep := Clean(tb)

	require.Len(t, rep.Columns, 1)
	assert.Equal(t, MethodMedian, rep.Columns[0].Method)
	assert.Equal(t, "3", rep.Columns[0].Fill)
	assert.Equal(t, 1, rep.Columns[0].Missing)
	cell := out.Col("n").Cells[2]
	assert.False(t, cell.Missing)
	assert.Equal(t, 3.0, cell.Num)
}

func TestCleanNumericMedianEvenCount(t *testing.T) {
	tb := table.FromRecords([]string{"n"}, [][]string{{"4"}, {"1"}, {"NaN"}, {"3"}, {"2"}}, nil)

	out, rep := Clean(tb)

	assert.Equal(t, "2.5", rep.Columns[0].Fill)
	assert.Equal(t, 2.5, out.Col("n").Cells[2].Num)
}

func TestCleanTextMode(t *testing.T) {
	// 场景C, 第二列保证每一行都不重复
	tb := table.FromRecords([]string{"c", "n"}, [][]string{{"x", "1"}, {"y", "2"}, {"x", "3"}, {"", "4"}}, nil)

	out, rep := Clean(tb)

	require.Equal(t, 0, rep.Duplicates)
	require.Equal(t, 4, out.Nrow())
	assert.Equal(t, MethodMode, rep.Columns[0].Method)
	assert.Equal(t, "x", rep.Columns[0].Fill)
	assert.Equal(t, 1, rep.Columns[0].Missing)
	assert.Equal(t, "x", out.Col("c").Cells[3].Text)
	assert.False(t, out.Col("c").Cells[3].Missing)
}

func TestCleanTextModeTieBreaksOnFirstOccurrence(t *testing.T) {
	// b 和 a 各出现两次, 先出现的 b 胜出
	tb := table.FromRecords(
		[]string{"c", "n"},
		[][]string{{"b", "1"}, {"", "2"}, {"a", "3"}, {"a", "4"}, {"b", "5"}},
		nil,
	)

	counts := ValueCounts(tb.Col("c"))
	require.Len(t, counts, 2)
	assert.Equal(t, ValueCount{Value: "b", Count: 2}, counts[0])
	assert.Equal(t, ValueCount{Value: "a", Count: 2}, counts[1])

	out, rep := Clean(tb)

	require.Equal(t, 0, rep.Duplicates)
	assert.Equal(t, "b", rep.Columns[0].Fill)
	assert.Equal(t, "b", out.Col("c").Cells[1].Text)
}

func TestCleanNaNSpellingsAreMissing(t *testing.T) {
	tb := table.FromRecords([]string{"x"}, [][]string{{"1"}, {"NAN"}, {"3"}, {"NA"}, {"5"}}, nil)

	out, rep := Clean(tb)

	assert.Equal(t, table.Numeric, out.Col("x").Kind)
	assert.Equal(t, 2, rep.Columns[0].Missing)
	assert.Equal(t, MethodMedian, rep.Columns[0].Method)
	assert.Equal(t, "3", rep.Columns[0].Fill)
	assert.Equal(t, [][]string{{"x"}, {"1"}, {"3"}, {"3"}, {"5"}}, out.Records())
}

func TestCleanFallbacks(t *testing.T) {
	tb := table.FromRecords(
		[]string{"allMissing", "when"},
		[][]string{{"", "2024-01-01"}, {"NA", ""}},
		map[int]table.Kind{1: table.Other},
	)

	out, rep := Clean(tb)

	assert.Equal(t, MethodFallback, rep.Columns[0].Method)
	assert.Equal(t, FallbackText, rep.Columns[0].Fill)
	assert.Equal(t, MethodFallback, rep.Columns[1].Method)
	assert.Equal(t, FallbackOther, rep.Columns[1].Fill)
	assert.Equal(t, "N/A", out.Col("allMissing").Cells[0].Text)
	assert.Equal(t, "Unknown", out.Col("when").Cells[1].Text)
	assert.Equal(t, table.Other, out.Col("when").Kind)
}

func TestCleanNoMissingValues(t *testing.T) {
	tb := table.FromRecords([]string{"a", "b"}, [][]string{{"1", "x"}, {"2", "y"}}, nil)

	_, rep := Clean(tb)

	assert.Equal(t, 0, rep.Duplicates)
	for _, c := range rep.Columns {
		assert.Equal(t, MethodNone, c.Method, c.Name)
		assert.Empty(t, c.Fill)
	}
}

func TestCleanEmptyTable(t *testing.T) {
	// 场景D
	tb := table.FromRecords([]string{"a", "b"}, nil, nil)

	out, rep := Clean(tb)

	require.NotNil(t, out)
	assert.Equal(t, 0, out.Nrow())
	assert.Equal(t, 2, out.Ncol())
	assert.Equal(t, 0, rep.Duplicates)

	noCols, _ := Clean(&table.Table{})
	assert.Equal(t, 0, noCols.Nrow())
}

func TestCleanNilTable(t *testing.T) {
	out, rep := Clean(nil)
	assert.Nil(t, out)
	assert.Empty(t, rep.Columns)
	assert.Zero(t, rep.Duplicates)
}

func TestDropDuplicatesTreatsMissingAsEqual(t *testing.T) {
	tb := table.FromRecords([]string{"a", "b"}, [][]string{{"", "x"}, {"NaN", "x"}, {"1", "x"}, {"1.0", "x"}}, nil)

	removed := DropDuplicates(tb)

	assert.Equal(t, 2, removed)
	assert.Equal(t, [][]string{{"a", "b"}, {"", "x"}, {"1", "x"}}, tb.Records())
}

func TestDropDuplicatesKeysAreUnambiguous(t *testing.T) {
	tb := table.FromRecords([]string{"a", "b"}, [][]string{{"x;", "y"}, {"x", ";y"}}, nil)
	assert.Equal(t, 0, DropDuplicates(tb))
}

func TestCleanProperties(t *testing.T) {
	orig := mixedTable()
	before := orig.Clone()

	out, rep := Clean(orig.Clone())

	// 原表不变
	assert.Equal(t, before.Records(), orig.Records())

	// 行数单调
	assert.Equal(t, 2, rep.Duplicates)
	assert.Equal(t, orig.Nrow()-rep.Duplicates, out.Nrow())

	for i, c := range out.Columns {
		// 完整性
		assert.Zero(t, c.MissingCount(), c.Name)
		// 类型不变
		assert.Equal(t, orig.Columns[i].Kind, c.Kind, c.Name)
	}

	// 幂等
	again, rep2 := Clean(out.Clone())
	assert.Zero(t, rep2.Duplicates)
	for _, c := range rep2.Columns {
		assert.Equal(t, MethodNone, c.Method, c.Name)
	}
	assert.Equal(t, out.Records(), again.Records())
}

func TestCleanReportOrder(t *testing.T) {
	_, rep := Clean(mixedTable())

	names := make([]string, len(rep.Columns))
	for i, c := range rep.Columns {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"id", "city", "score", "when"}, names)
	assert.Equal(t, MethodNone, rep.Columns[0].Method)
	assert.Equal(t, "Lisbon", rep.Columns[1].Fill)
	assert.Equal(t, "20", rep.Columns[2].Fill)
	assert.Equal(t, FallbackOther, rep.Columns[3].Fill)
}

func TestMethodString(t *testing.T) {
	assert.Equal(t, "none", MethodNone.String())
	assert.Equal(t, "median", MethodMedian.String())
	assert.Equal(t, "mode", MethodMode.String())
	assert.Equal(t, "fallback", MethodFallback.String())
}
