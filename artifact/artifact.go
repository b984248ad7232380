package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/xh3b4sd/tracer"
	"gopkg.in/yaml.v3"
)

const (
	ModelFile      = "liver_cirrhosis_model.pkl"
	ScalerFile     = "scaler.msgpack"
	ScalerPickle   = "scaler.pkl"
	EncodersFile   = "label_encoders.msgpack"
	EncodersPickle = "label_encoders.pkl"
	ManifestFile   = "manifest.yaml"
	LightGBMFile   = "lightgbm.txt"
)

const (
	FormatLightGBM = "lightgbm"
)

var missingArtifactError = &tracer.Error{
	Kind: "missingArtifactError",
}

func IsMissingArtifact(err error) bool {
	return errors.Is(err, missingArtifactError)
}

// Dir is the artifact directory a training run writes to and the server
// reads from.
//
//     $ tree -L 2 /srv/cirrhosis/
//     /srv/cirrhosis/
//     ├── 7b0cbe5e-8a1f-4f7e-9a55-0c1c4e8f2a41
//     │   └── csv
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
type Dir string

func (d Dir) Path(fil string) string {
	return filepath.Join(string(d), fil)
}

func (d Dir) Model() string    { return d.Path(ModelFile) }
func (d Dir) Scaler() string   { return d.Path(ScalerFile) }
func (d Dir) Encoders() string { return d.Path(EncodersFile) }
func (d Dir) Manifest() string { return d.Path(ManifestFile) }
func (d Dir) Results() string  { return filepath.Join(string(d), "res", "res.json") }

// Buffer is the working directory holding the prepared data of a single
// training run.
func (d Dir) Buffer(run string) string {
	return filepath.Join(string(d), run)
}

// Require verifies that all of the given files exist within the directory.
func (d Dir) Require(fil ...string) error {
	for _, f := range fil {
		_, err := os.Stat(d.Path(f))
		if os.IsNotExist(err) {
			return tracer.Maskf(missingArtifactError, "%s", d.Path(f))
		} else if err != nil {
			return tracer.Mask(err)
		}
	}

	return nil
}

type Member struct {
	// Nam is the estimator name within the voting ensemble.
	Nam string `yaml:"name"`
	// Fil is the file name of the exported booster, relative to Dir.
	Fil string `yaml:"file"`
	// For is the export format. FormatLightGBM is the only one supported.
	For string `yaml:"format"`
}

type Manifest struct {
	Run string    `yaml:"run"`
	Cre time.Time `yaml:"created"`
	// Fea is the feature order the model was trained with.
	Fea []string `yaml:"features"`
	// Cla are the class labels in the order of the model's probability
	// outputs.
	Cla []int `yaml:"classes"`
	// Mem are the exported members usable without Python.
	Mem []Member `yaml:"members"`
	Acc float64  `yaml:"accuracy"`
}

func (m *Manifest) Save(pat string) error {
	byt, err := yaml.Marshal(m)
	if err != nil {
		return tracer.Mask(err)
	}

	err = os.WriteFile(pat, byt, 0664)
	if err != nil {
		return tracer.Mask(err)
	}

	return nil
}

func LoadManifest(pat string) (*Manifest, error) {
	byt, err := os.ReadFile(pat)
	if os.IsNotExist(err) {
		return nil, tracer.Maskf(missingArtifactError, "%s", pat)
	} else if err != nil {
		return nil, tracer.Mask(err)
	}

	var m Manifest
	err = yaml.Unmarshal(byt, &m)
	if err != nil {
		return nil, tracer.Mask(err)
	}

	return &m, nil
}
