package attrs_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galib9690/camels-attrs/internal/attrs"
)

func TestTable_AppendRowFillsMissingColumnsWithNulls(t *testing.T) {
	tbl := attrs.NewTable([]string{"gauge_id", "elev_mean", "p_mean"})

	require.NoError(t, tbl.AppendRow(map[string]attrs.Value{
		"gauge_id":  attrs.Text("01031500"),
		"elev_mean": attrs.Number(320.5),
	}))

	v, ok := tbl.Value(0, "p_mean")
	require.True(t, ok)
	assert.True(t, v.IsNull())
}

func TestTable_AppendRowRejectsUnknownColumn(t *testing.T) {
	tbl := attrs.NewTable([]string{"gauge_id"})

	err := tbl.AppendRow(map[string]attrs.Value{
		"gauge_id": attrs.Text("01031500"),
		"bogus":    attrs.Number(1),
	})
	require.Error(t, err)
	assert.Equal(t, 0, tbl.NumRows())
}

func TestTable_CSVRoundTrip(t *testing.T) {
	columns := []string{"gauge_id", "elev_mean", "dom_land_cover"}
	tbl := attrs.NewTable(columns)
	require.NoError(t, tbl.AppendRow(map[string]attrs.Value{
		"gauge_id":       attrs.Text("01031500"),
		"elev_mean":      attrs.Number(320.5),
		"dom_land_cover": attrs.Text("Forest"),
	}))
	require.NoError(t, tbl.AppendRow(map[string]attrs.Value{
		"gauge_id": attrs.Text("06803530"),
	}))

	var buf bytes.Buffer
	require.NoError(t, tbl.WriteCSV(&buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	// Header plus two data rows, same column set.
	require.Len(t, records, 3)
	assert.Equal(t, columns, records[0])
	assert.Equal(t, "01031500", records[1][0])
	assert.Equal(t, "320.5", records[1][1])
	assert.Equal(t, "Forest", records[1][2])
	assert.Equal(t, "", records[2][1]) // null renders empty
}

func TestTable_WriteJSON(t *testing.T) {
	tbl := attrs.NewTable([]string{"gauge_id", "elev_mean"})
	require.NoError(t, tbl.AppendRow(map[string]attrs.Value{
		"gauge_id":  attrs.Text("01031500"),
		"elev_mean": attrs.Number(320.5),
	}))

	var buf bytes.Buffer
	require.NoError(t, tbl.WriteJSON(&buf))

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "01031500", rows[0]["gauge_id"])
	assert.InDelta(t, 320.5, rows[0]["elev_mean"], 1e-9)
}

func TestTable_SaveInfersFormatFromExtension(t *testing.T) {
	dir := t.TempDir()
	tbl := attrs.NewTable([]string{"gauge_id"})
	require.NoError(t, tbl.AppendRow(map[string]attrs.Value{
		"gauge_id": attrs.Text("01031500"),
	}))

	csvPath := filepath.Join(dir, "out.csv")
	require.NoError(t, tbl.Save(csvPath, attrs.FormatAuto))
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "gauge_id")

	jsonPath := filepath.Join(dir, "out.json")
	require.NoError(t, tbl.Save(jsonPath, attrs.FormatAuto))
	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	err = tbl.Save(filepath.Join(dir, "out.parquet"), attrs.FormatAuto)
	assert.Error(t, err)
}

func TestParsePeriod(t *testing.T) {
	p, err := attrs.ParsePeriod("2000-01-01", "2020-12-31")
	require.NoError(t, err)
	assert.Equal(t, attrs.DefaultPeriod(), p)

	_, err = attrs.ParsePeriod("2020-12-31", "2000-01-01")
	assert.Error(t, err)

	_, err = attrs.ParsePeriod("01/01/2000", "2020-12-31")
	assert.Error(t, err)
}

func TestValue_JSONRoundTrip(t *testing.T) {
	cases := []attrs.Value{
		attrs.Number(1.25),
		attrs.Text("Forest"),
		attrs.Null(),
	}
	for _, v := range cases {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		var got attrs.Value
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, v, got)
	}
}
