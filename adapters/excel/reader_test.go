package excel

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goanova/domain/dataset"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFrame_CSV(t *testing.T) {
	path := writeCSV(t, "response,group\n1.5,A\n2.5,A\n4,B\n5,B\n")

	frame, err := NewDataReader(path).ReadFrame(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, frame.Rows())

	values, err := frame.NumericColumn("response")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2.5, 4, 5}, values)

	labels, err := frame.CategoricalColumn("group")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "A", "B", "B"}, labels)
}

func TestReadFrame_TypeInference(t *testing.T) {
	// A single non-numeric cell flips the whole column to categorical; empty
	// cells in a numeric column become NaN.
	path := writeCSV(t, "score,code\n1,7\n,8\n3,x9\n")

	frame, err := NewDataReader(path).ReadFrame(context.Background())
	require.NoError(t, err)

	score, err := frame.NumericColumn("score")
	require.NoError(t, err)
	assert.Equal(t, 1.0, score[0])
	assert.True(t, math.IsNaN(score[1]))
	assert.Equal(t, 3.0, score[2])

	code, ok := frame.Column("code")
	require.True(t, ok)
	assert.Equal(t, dataset.TypeCategorical, code.Type)
	assert.Equal(t, []string{"7", "8", "x9"}, code.Labels)
}

func TestReadFrame_BlankHeaderGetsPositionalName(t *testing.T) {
	path := writeCSV(t, "y,\n1,A\n2,B\n")

	frame, err := NewDataReader(path).ReadFrame(context.Background())
	require.NoError(t, err)

	_, ok := frame.Column("column_2")
	assert.True(t, ok)
}

func TestReadFrame_RaggedRows(t *testing.T) {
	// encoding/csv rejects rows with inconsistent field counts.
	path := writeCSV(t, "a,b\n1,2\n3\n")

	_, err := NewDataReader(path).ReadFrame(context.Background())
	assert.Error(t, err)
}

func TestReadFrame_Errors(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "missing.csv")).ReadFrame(context.Background())
	assert.Error(t, err)

	headerOnly := writeCSV(t, "a,b\n")
	_, err = NewDataReader(headerOnly).ReadFrame(context.Background())
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewDataReader(writeCSV(t, "a\n1\n")).ReadFrame(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewDataReader_TypeByExtension(t *testing.T) {
	assert.Equal(t, "csv", NewDataReader("data.CSV").fileType)
	assert.Equal(t, "xlsx", NewDataReader("data.xlsx").fileType)
	assert.Equal(t, "xlsx", NewDataReader("data").fileType)
}
