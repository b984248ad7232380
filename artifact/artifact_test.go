package artifact

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Artifact_Manifest(t *testing.T) {
	dir := Dir(t.TempDir())

	m := &Manifest{
		Run: "run",
		Cre: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Fea: []string{"age", "gender"},
		Cla: []int{1, 2, 3},
		Mem: []Member{
			{Nam: "lightgbm", Fil: LightGBMFile, For: FormatLightGBM},
		},
		Acc: 0.75,
	}
	require.NoError(t, m.Save(dir.Manifest()))

	l, err := LoadManifest(dir.Manifest())
	require.NoError(t, err)
	assert.Equal(t, m, l)
}

func Test_Artifact_Require(t *testing.T) {
	dir := Dir(t.TempDir())

	{
		err := dir.Require(ModelFile, ScalerFile)
		assert.True(t, IsMissingArtifact(err))
	}

	require.NoError(t, os.WriteFile(dir.Model(), []byte("x"), 0600))
	require.NoError(t, os.WriteFile(dir.Scaler(), []byte("x"), 0600))

	{
		err := dir.Require(ModelFile, ScalerFile)
		assert.NoError(t, err)
	}

	{
		_, err := LoadManifest(dir.Manifest())
		assert.True(t, IsMissingArtifact(err))
	}
}
