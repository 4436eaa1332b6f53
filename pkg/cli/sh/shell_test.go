package sh

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/hif.go/pkg/hif"
)

func TestParseVector(t *testing.T) {
	v, err := ParseVector([]string{"int16", "0x21", "-2", "0x10", "3"})
	require.NoError(t, err)
	require.Equal(t, hif.NewVector(hif.FormatInt16, 0x21, -2, 16, 3), v)

	v, err = ParseVector([]string{"uint8", "7"})
	require.NoError(t, err)
	require.Empty(t, v.Values)
	require.Equal(t, byte(7), v.Tag)

	testCases := [][]string{
		{"int16"},
		{"float32", "1", "1"},
		{"int16", "256", "1"},
		{"int8", "1", "x"},
		{"int8", "1", "128"},
	}
	for _, args := range testCases {
		_, err := ParseVector(args)
		require.Error(t, err, args)
	}
}

func TestNewVectorJSON(t *testing.T) {
	j := NewVectorJSON(hif.Vector{Format: hif.FormatUint8, Tag: 1})
	require.Equal(t, "uint8", j.Format)
	require.NotNil(t, j.Values)
}

func TestVectorToC(t *testing.T) {
	require.Equal(t, "{}", VectorToC(nil))
	require.Equal(t, "{ -2, -1,  0,1234}", VectorToC([]int64{-2, -1, 0, 1234}))
}

func TestMatrixToC(t *testing.T) {
	require.Equal(t, "{ \n  {  1,  2},\n  {  3,  4},\n  {  5}\n}", MatrixToC([]int64{1, 2, 3, 4, 5}, 2))
	require.Equal(t, "{  1,  2}", MatrixToC([]int64{1, 2}, 13))
}
