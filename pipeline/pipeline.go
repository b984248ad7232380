package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/xh3b4sd/tracer"

	"github.com/xh3b4sd/cirrhosis/artifact"
	"github.com/xh3b4sd/cirrhosis/dataset"
	"github.com/xh3b4sd/cirrhosis/evaluate"
	"github.com/xh3b4sd/cirrhosis/feature"
	"github.com/xh3b4sd/cirrhosis/model"
	"github.com/xh3b4sd/cirrhosis/scaler"
)

// Pipeline runs one training run end to end. The prepared data of a run is
// kept within its own buffer directory, the artifacts the server needs are
// written to the artifact directory itself.
//
//     $ tree -L 2 /srv/cirrhosis/
//     /srv/cirrhosis/
//     ├── 7b0cbe5e-8a1f-4f7e-9a55-0c1c4e8f2a41
//     │   ├── csv
//     │   └── res
//     ├── label_encoders.msgpack
//     ├── label_encoders.pkl
//     ├── lightgbm.txt
//     ├── liver_cirrhosis_model.pkl
//     ├── manifest.yaml
//     ├── res
//     │   └── res.json
//     ├── scaler.msgpack
//     └── scaler.pkl
//
type Pipeline struct {
	// Dat is the required path of the raw CSV dataset.
	Dat string
	// Deb forwards stdout and stderr of the training script.
	Deb bool
	Log zerolog.Logger
	// Now is the clock of the manifest, defaults to time.Now.
	Now func() time.Time
	// Out receives the evaluation report, defaults to os.Stdout.
	Out io.Writer
	// Pat is the required artifact directory.
	Pat string
	Pyt string
	See int64
	// Tem overrides the Python training script template.
	Tem string
	// Tes is the share of rows held out for evaluation, defaults to 0.2.
	Tes float64
}

type Result struct {
	Man *artifact.Manifest
	Rep *evaluate.Report
}

func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	var err error

	{
		p.configs()
	}

	run := uuid.NewString()
	dir := artifact.Dir(p.Pat)
	log := p.Log.With().Str("run", run).Logger()

	{
		err = os.MkdirAll(filepath.Join(dir.Buffer(run), "csv"), 0755)
		if err != nil {
			return nil, tracer.Mask(err)
		}

		err = os.MkdirAll(filepath.Dir(dir.Results()), 0755)
		if err != nil {
			return nil, tracer.Mask(err)
		}
	}

	var tab *dataset.Table
	{
		tab, err = dataset.Load(p.Dat)
		if err != nil {
			return nil, tracer.Mask(err)
		}

		log.Info().Str("dataset", p.Dat).Int("rows", len(tab.Row)).Ints("classes", tab.Classes()).Msg("loaded dataset")
	}

	tra, tes := tab.Split(p.Tes, p.See)

	var sca *scaler.Standard
	{
		sca, err = scaler.Fit(tra.Row)
		if err != nil {
			return nil, tracer.Mask(err)
		}
	}

	{
		err = p.write(dir, run, "tra.csv", sca, tra)
		if err != nil {
			return nil, tracer.Mask(err)
		}

		err = p.write(dir, run, "tes.csv", sca, tes)
		if err != nil {
			return nil, tracer.Mask(err)
		}

		log.Info().Int("train", len(tra.Row)).Int("test", len(tes.Row)).Msg("prepared split")
	}

	mod := &model.Model{
		Buf: run,
		Deb: p.Deb,
		Enc: tab.Enc,
		Pat: p.Pat,
		Pyt: p.Pyt,
		Sam: len(tra.Row),
		Sca: sca,
		See: p.See,
		Tem: p.Tem,
	}

	{
		log.Info().Msg("training voting ensemble")

		err = mod.Train(ctx)
		if err != nil {
			return nil, tracer.Mask(err)
		}
	}

	var cla []int
	{
		cla, err = mod.Classes()
		if err != nil {
			return nil, tracer.Mask(err)
		}
	}

	var pre []int
	{
		pre, err = predictions(mod.Predictions())
		if err != nil {
			return nil, tracer.Mask(err)
		}
	}

	var rep *evaluate.Report
	{
		rep, err = evaluate.New(tes.Lab, pre)
		if err != nil {
			return nil, tracer.Mask(err)
		}
	}

	{
		err = sca.Save(dir.Scaler())
		if err != nil {
			return nil, tracer.Mask(err)
		}

		err = tab.Enc.Save(dir.Encoders())
		if err != nil {
			return nil, tracer.Mask(err)
		}
	}

	man := &artifact.Manifest{
		Run: run,
		Cre: p.Now().UTC(),
		Fea: feature.Keys(),
		Cla: cla,
		Mem: Members(),
		Acc: rep.Accuracy(),
	}

	{
		err = man.Save(dir.Manifest())
		if err != nil {
			return nil, tracer.Mask(err)
		}
	}

	{
		err = appendLine(dir.Results(), rep, run)
		if err != nil {
			return nil, tracer.Mask(err)
		}
	}

	{
		log.Info().Float64("accuracy", rep.Accuracy()).Msg("evaluated voting ensemble")
		rep.Render(p.Out)
	}

	return &Result{Man: man, Rep: rep}, nil
}

// Members are the boosters the training script exports next to the pickled
// ensemble. CatBoost and XGBoost are part of the pickle only.
func Members() []artifact.Member {
	return []artifact.Member{
		{Nam: "lightgbm", Fil: artifact.LightGBMFile, For: artifact.FormatLightGBM},
	}
}

func (p *Pipeline) configs() {
	if p.Dat == "" {
		panic("Pipeline.Dat must not be empty")
	}

	if p.Pat == "" {
		panic("Pipeline.Pat must not be empty")
	}

	if p.Now == nil {
		p.Now = time.Now
	}

	if p.Out == nil {
		p.Out = os.Stdout
	}

	if p.Tes == 0 {
		p.Tes = 0.2
	}
}

func (p *Pipeline) write(dir artifact.Dir, run string, nam string, sca *scaler.Standard, tab *dataset.Table) error {
	row, err := sca.TransformAll(tab.Row)
	if err != nil {
		return tracer.Mask(err)
	}

	fil, err := os.Create(filepath.Join(dir.Buffer(run), "csv", nam))
	if err != nil {
		return tracer.Mask(err)
	}
	defer fil.Close()

	err = dataset.WriteCSV(fil, row, tab.Lab)
	if err != nil {
		return tracer.Mask(err)
	}

	return fil.Close()
}

func appendLine(pat string, rep *evaluate.Report, run string) error {
	byt, err := rep.Line(run)
	if err != nil {
		return tracer.Mask(err)
	}

	fil, err := os.OpenFile(pat, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0664)
	if err != nil {
		return tracer.Mask(err)
	}
	defer fil.Close()

	_, err = fil.Write(byt)
	if err != nil {
		return tracer.Mask(err)
	}

	return fil.Close()
}

func predictions(pat string) ([]int, error) {
	fil, err := os.Open(pat)
	if err != nil {
		return nil, tracer.Mask(err)
	}
	defer fil.Close()

	pre, err := dataset.ReadLabels(fil)
	if err != nil {
		return nil, tracer.Mask(err)
	}

	return pre, nil
}
