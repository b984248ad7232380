package scaler

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Scaler_Fit(t *testing.T) {
	row := [][]float64{
		{1, 10, 5},
		{2, 20, 5},
		{3, 30, 5},
		{4, 40, 5},
	}

	s, err := Fit(row)
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{2.5, 25, 5}, s.Mea, 1e-9)
	// Population standard deviation of 1..4 is sqrt(1.25).
	assert.InDeltaSlice(t, []float64{1.118033988749895, 11.18033988749895, 1}, s.Sca, 1e-9)

	out, err := s.TransformAll(row)
	require.NoError(t, err)

	for j := 0; j < 3; j++ {
		var sum float64
		for i := range out {
			sum += out[i][j]
		}
		assert.InDelta(t, 0, sum, 1e-9)
	}

	assert.Equal(t, 0.0, out[0][2])
}

func Test_Scaler_Transform_Copy(t *testing.T) {
	s := &Standard{Mea: []float64{1, 2}, Sca: []float64{2, 4}}

	vec := []float64{3, 10}
	out, err := s.Transform(vec)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2}, out)
	assert.Equal(t, []float64{3, 10}, vec)
}

func Test_Scaler_Errors(t *testing.T) {
	{
		_, err := Fit(nil)
		assert.True(t, IsEmptyData(err))
	}

	{
		_, err := Fit([][]float64{{1, 2}, {1}})
		assert.True(t, IsDimensionMismatch(err))
	}

	{
		s := &Standard{Mea: []float64{1, 2}, Sca: []float64{1, 1}}
		_, err := s.Transform([]float64{1})
		assert.True(t, IsDimensionMismatch(err))
	}

	{
		s := &Standard{Mea: []float64{1, 2}, Sca: []float64{1, 1}}
		for _, v := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
			_, err := s.Transform([]float64{1, v})
			assert.True(t, IsNonFinite(err))
		}
	}
}

func Test_Scaler_SaveLoad(t *testing.T) {
	pat := filepath.Join(t.TempDir(), "scaler.msgpack")

	s := &Standard{Mea: []float64{1.5, -2}, Sca: []float64{0.5, 3}}
	require.NoError(t, s.Save(pat))

	l, err := Load(pat)
	require.NoError(t, err)
	assert.Equal(t, s, l)
}

func Test_Scaler_Load_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.msgpack"))
	assert.Error(t, err)
}
