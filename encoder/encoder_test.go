package encoder

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Encoder_Label(t *testing.T) {
	l := Fit([]string{"Y", "N", "S", "N", "Y"})
	assert.Equal(t, []string{"N", "S", "Y"}, l.Cla)

	testCases := []struct {
		val string
		cod int
	}{
		{val: "N", cod: 0},
		{val: "S", cod: 1},
		{val: "Y", cod: 2},
	}

	for _, tc := range testCases {
		cod, err := l.Encode(tc.val)
		require.NoError(t, err)
		assert.Equal(t, tc.cod, cod)

		val, err := l.Decode(tc.cod)
		require.NoError(t, err)
		assert.Equal(t, tc.val, val)
	}

	{
		_, err := l.Encode("X")
		assert.True(t, IsUnknownLabel(err))
	}

	{
		_, err := l.Decode(3)
		assert.True(t, IsUnknownLabel(err))
	}
}

func Test_Encoder_Fit_Input(t *testing.T) {
	val := []string{"M", "F"}
	Fit(val)
	assert.Equal(t, []string{"M", "F"}, val)
}

func Test_Encoder_SaveLoad(t *testing.T) {
	pat := filepath.Join(t.TempDir(), "label_encoders.msgpack")

	s := Set{
		"Sex":   Fit([]string{"M", "F"}),
		"Edema": Fit([]string{"N", "S", "Y"}),
	}
	require.NoError(t, s.Save(pat))

	l, err := Load(pat)
	require.NoError(t, err)
	assert.Equal(t, s, l)
}
