package ensemble

import (
	"context"

	"github.com/dmitryikh/leaves"
	"github.com/xh3b4sd/cirrhosis/artifact"
	"github.com/xh3b4sd/tracer"
	"gonum.org/v1/gonum/floats"
)

// member is the part of *leaves.Ensemble used for soft voting.
type member interface {
	NFeatures() int
	NOutputGroups() int
	Predict(fvals []float64, nEstimators int, predictions []float64) error
}

// Ensemble implements cirrhosis.Classifier without Python. The boosters
// listed in the manifest are loaded with leaves, their class
// probabilities are averaged, and the class with the highest average wins.
type Ensemble struct {
	// Pat is the required artifact directory.
	//
	//     $ tree -L 1 /srv/cirrhosis/
	//     /srv/cirrhosis/
	//     ├── lightgbm.txt
	//     └── manifest.yaml
	//
	Pat string

	cla []int
	mem []member
}

func (e *Ensemble) Restore(ctx context.Context) error {
	{
		e.configs()
	}

	var err error

	var man *artifact.Manifest
	{
		man, err = artifact.LoadManifest(artifact.Dir(e.Pat).Manifest())
		if err != nil {
			return tracer.Mask(err)
		}

		if len(man.Mem) == 0 {
			return tracer.Maskf(invalidManifestError, "no members")
		}
	}

	var mem []member
	for _, m := range man.Mem {
		if ctx.Err() != nil {
			return tracer.Mask(ctx.Err())
		}

		var ens *leaves.Ensemble
		{
			ens, err = load(artifact.Dir(e.Pat).Path(m.Fil), m.For)
			if err != nil {
				return tracer.Mask(err)
			}
		}

		mem = append(mem, ens)
	}

	return e.restore(man.Cla, mem)
}

func (e *Ensemble) Predict(ctx context.Context, vec []float64) (int, error) {
	if len(e.mem) == 0 {
		return 0, tracer.Mask(notRestoredError)
	}

	avg := make([]float64, len(e.cla))
	for _, m := range e.mem {
		if len(vec) != m.NFeatures() {
			return 0, tracer.Maskf(invalidInputError, "expected %d features, got %d", m.NFeatures(), len(vec))
		}

		var pro []float64
		{
			out := make([]float64, m.NOutputGroups())

			err := m.Predict(vec, 0, out)
			if err != nil {
				return 0, tracer.Mask(err)
			}

			pro = probabilities(out, len(e.cla))
		}

		floats.Add(avg, pro)
	}

	floats.Scale(1/float64(len(e.mem)), avg)

	return e.cla[floats.MaxIdx(avg)], nil
}

func (e *Ensemble) Sigkill() error {
	e.cla = nil
	e.mem = nil

	return nil
}

func (e *Ensemble) configs() {
	if e.Pat == "" {
		panic("Ensemble.Pat must not be empty")
	}
}

func (e *Ensemble) restore(cla []int, mem []member) error {
	if len(cla) < 2 {
		return tracer.Maskf(invalidManifestError, "expected at least 2 classes, got %d", len(cla))
	}

	for _, m := range mem {
		out := m.NOutputGroups()
		if out != len(cla) && !(out == 1 && len(cla) == 2) {
			return tracer.Maskf(invalidManifestError, "member has %d outputs for %d classes", out, len(cla))
		}
	}

	e.cla = cla
	e.mem = mem

	return nil
}

func load(pat string, frm string) (*leaves.Ensemble, error) {
	switch frm {
	case artifact.FormatLightGBM:
		return leaves.LGEnsembleFromFile(pat, true)
	}

	return nil, tracer.Maskf(invalidManifestError, "unknown format %q", frm)
}

// probabilities expands the single output of a binary booster, which is the
// probability of the second class, to one probability per class.
func probabilities(out []float64, num int) []float64 {
	if len(out) == 1 && num == 2 {
		return []float64{1 - out[0], out[0]}
	}

	return out
}
