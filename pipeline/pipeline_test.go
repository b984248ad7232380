package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xh3b4sd/cirrhosis/artifact"
	"github.com/xh3b4sd/cirrhosis/encoder"
	"github.com/xh3b4sd/cirrhosis/feature"
	"github.com/xh3b4sd/cirrhosis/model"
	"github.com/xh3b4sd/cirrhosis/scaler"
)

// perfect stands in for the Python training script. It predicts the test set
// labels exactly and creates the artifact files the real script would create.
const perfect = `set -e
BUF="{{ .Pat }}/{{ .Buf }}"
mkdir -p "$BUF/res"
printf '{"classes": [1, 2, 3]}\n' > "$BUF/res/cla.json"
{ echo pred; tail -n +2 "$BUF/csv/tes.csv" | awk -F, '{print $NF}'; } > "$BUF/csv/pre.csv"
touch "{{ .Pat }}/{{ .Mod }}" "{{ .Pat }}/{{ .Lgb }}" "{{ .Pat }}/{{ .Pre.Skp }}" "{{ .Pat }}/{{ .Pre.Ekp }}"
printf '%s\n' '{{ .Pre.Mea }}' > "$BUF/res/mea.json"
`

func rawdata(t *testing.T) string {
	var buf strings.Builder
	buf.WriteString("N_Days,Status,Drug,Age,Sex,Ascites,Hepatomegaly,Spiders,Edema,Bilirubin,Cholesterol,Albumin,Copper,Alk_Phos,SGOT,Tryglicerides,Platelets,Prothrombin,Stage\n")

	sex := []string{"F", "M"}
	yes := []string{"N", "Y"}
	ede := []string{"N", "S", "Y"}

	for i := 0; i < 60; i++ {
		sta := i%3 + 1
		fmt.Fprintf(&buf, "%d,C,Placebo,%d,%s,%s,%s,%s,%s,%.1f,%d,%.2f,%d,%d,%.2f,%d,%d,%.1f,%d\n",
			1000+i, 15000+i*100, sex[i%2], yes[i%2], yes[(i+1)%2], yes[i%2], ede[i%3],
			0.5+float64(sta), 200+i, 3.0+float64(i%5)/10, 50+i, 600+i*10, 50+float64(i), 80+i, 200+i, 9.5+float64(sta)/2, sta)
	}

	pat := filepath.Join(t.TempDir(), "liver_cirrhosis.csv")
	require.NoError(t, os.WriteFile(pat, []byte(buf.String()), 0600))

	return pat
}

func Test_Pipeline_Run(t *testing.T) {
	pat := t.TempDir()
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	var out bytes.Buffer
	p := &Pipeline{
		Dat: rawdata(t),
		Log: zerolog.Nop(),
		Now: func() time.Time { return now },
		Out: &out,
		Pat: pat,
		Pyt: "sh",
		See: 42,
		Tem: perfect,
	}

	res, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1.0, res.Rep.Accuracy())
	assert.Contains(t, out.String(), "Accuracy: 1.0000")

	dir := artifact.Dir(pat)
	require.NoError(t, dir.Require(artifact.ModelFile, artifact.ScalerFile, artifact.EncodersFile, artifact.ManifestFile, artifact.LightGBMFile, artifact.ScalerPickle, artifact.EncodersPickle))

	{
		man, err := artifact.LoadManifest(dir.Manifest())
		require.NoError(t, err)

		assert.Equal(t, res.Man.Run, man.Run)
		assert.True(t, now.Equal(man.Cre))
		assert.Equal(t, feature.Keys(), man.Fea)
		assert.Equal(t, []int{1, 2, 3}, man.Cla)
		assert.Equal(t, Members(), man.Mem)
		assert.Equal(t, 1.0, man.Acc)
	}

	{
		sca, err := scaler.Load(dir.Scaler())
		require.NoError(t, err)
		assert.Len(t, sca.Mea, len(feature.Fields))

		// The training script received the same scaler parameters it pickles.
		byt, err := os.ReadFile(filepath.Join(pat, res.Man.Run, "res", "mea.json"))
		require.NoError(t, err)

		var mea []float64
		require.NoError(t, json.Unmarshal(byt, &mea))
		assert.Equal(t, sca.Mea, mea)
	}

	{
		enc, err := encoder.Load(dir.Encoders())
		require.NoError(t, err)
		assert.Equal(t, []string{"N", "S", "Y"}, enc["Edema"].Cla)
	}

	{
		_, err := os.Stat(filepath.Join(dir.Buffer(res.Man.Run), "csv", "tra.csv"))
		require.NoError(t, err)
	}
}

func Test_Pipeline_Run_Results(t *testing.T) {
	pat := t.TempDir()
	dat := rawdata(t)

	var run []string
	for i := 0; i < 2; i++ {
		p := &Pipeline{Dat: dat, Log: zerolog.Nop(), Out: &bytes.Buffer{}, Pat: pat, Pyt: "sh", See: 42, Tem: perfect}

		res, err := p.Run(context.Background())
		require.NoError(t, err)

		run = append(run, res.Man.Run)
	}

	fil, err := os.Open(artifact.Dir(pat).Results())
	require.NoError(t, err)
	defer fil.Close()

	var lin []map[string]interface{}
	sca := bufio.NewScanner(fil)
	for sca.Scan() {
		var l map[string]interface{}
		require.NoError(t, json.Unmarshal(sca.Bytes(), &l))
		lin = append(lin, l)
	}

	require.Len(t, lin, 2)
	assert.Equal(t, run[0], lin[0]["run"])
	assert.Equal(t, run[1], lin[1]["run"])
	assert.NotEqual(t, run[0], run[1])
}

func Test_Pipeline_Run_Failure(t *testing.T) {
	pat := t.TempDir()

	p := &Pipeline{Dat: rawdata(t), Log: zerolog.Nop(), Out: &bytes.Buffer{}, Pat: pat, Pyt: "sh", Tem: "exit 1\n"}

	_, err := p.Run(context.Background())
	assert.True(t, model.IsExecutionFailed(err))

	_, err = os.Stat(artifact.Dir(pat).Manifest())
	assert.True(t, os.IsNotExist(err))
}

func Test_Pipeline_Configs(t *testing.T) {
	assert.PanicsWithValue(t, "Pipeline.Dat must not be empty", func() {
		p := &Pipeline{Pat: "x"}
		_, _ = p.Run(context.Background())
	})

	assert.PanicsWithValue(t, "Pipeline.Pat must not be empty", func() {
		p := &Pipeline{Dat: "x"}
		_, _ = p.Run(context.Background())
	})
}
