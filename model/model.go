package model

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/xh3b4sd/cirrhosis/artifact"
	"github.com/xh3b4sd/cirrhosis/encoder"
	"github.com/xh3b4sd/cirrhosis/feature"
	"github.com/xh3b4sd/cirrhosis/scaler"
	"github.com/xh3b4sd/tracer"
)

type Model struct {
	// Buf is the required buffer name of the training run. The prepared data
	// is expected within the csv directory of the buffer.
	//
	//     $ tree /srv/cirrhosis/7b0cbe5e-8a1f-4f7e-9a55-0c1c4e8f2a41/
	//     /srv/cirrhosis/7b0cbe5e-8a1f-4f7e-9a55-0c1c4e8f2a41/
	//     └── csv
	//         ├── tes.csv
	//         └── tra.csv
	//
	Buf string
	Cmd *exec.Cmd
	// Deb forwards stdout and stderr of the child process.
	Deb bool
	// Enc are the optional label encoders fitted on the dataset. Together
	// with Sca they are pickled next to the ensemble.
	Enc encoder.Set
	Fil *os.File
	// Pat is the required artifact directory the trained ensemble is written
	// to.
	Pat string
	// Pyt is the Python interpreter executing the rendered script, defaults
	// to python3.
	Pyt string
	// Sam is the number of training rows Sca was fitted on.
	Sam int
	// Sca is the optional standard scaler fitted on the training rows.
	//
	//     $ tree -L 1 /srv/cirrhosis/
	//     /srv/cirrhosis/
	//     ├── label_encoders.pkl
	//     ├── liver_cirrhosis_model.pkl
	//     └── scaler.pkl
	//
	Sca *scaler.Standard
	// See is the random seed of all members of the voting ensemble.
	See int64
	// Tem is the Python script template that is first being rendered and
	// persisted, and then executed in a child process.
	Tem string
}

func (m *Model) Execute() ([]byte, error) {
	{
		m.configs()
	}

	var err error

	var mpg map[string]interface{}
	{
		mpg, err = m.mapping()
		if err != nil {
			return nil, tracer.Mask(err)
		}
	}

	var buf bytes.Buffer
	{
		t, err := template.New("model").Parse(m.Tem)
		if err != nil {
			return nil, tracer.Mask(err)
		}

		err = t.Execute(&buf, mpg)
		if err != nil {
			return nil, tracer.Mask(err)
		}
	}

	return buf.Bytes(), nil
}

func (m *Model) Train(ctx context.Context) error {
	var err error

	{
		m.configs()
	}

	{
		err = m.cleanup()
		if err != nil {
			return tracer.Mask(err)
		}
	}

	var byt []byte
	{
		byt, err = m.Execute()
		if err != nil {
			return tracer.Mask(err)
		}
	}

	{
		m.Fil, err = os.CreateTemp("", "cirrhosis-model-template-*")
		if err != nil {
			return tracer.Mask(err)
		}
	}

	{
		_, err := m.Fil.Write(byt)
		if err != nil {
			return tracer.Mask(err)
		}
	}

	{
		err := m.Fil.Close()
		if err != nil {
			return tracer.Mask(err)
		}
	}

	{
		err = os.WriteFile(m.temfilp(), m.temfilb(), 0664)
		if err != nil {
			return tracer.Mask(err)
		}
	}

	{
		m.Cmd = exec.CommandContext(ctx, m.Pyt, m.Fil.Name())
	}

	var std bytes.Buffer
	if m.Deb {
		m.Cmd.Stdout = os.Stdout
		m.Cmd.Stderr = io.MultiWriter(os.Stderr, &std)
	} else {
		m.Cmd.Stderr = &std
	}

	{
		err := m.Cmd.Run()
		if err != nil {
			return tracer.Maskf(executionFailedError, "%s: %s", err.Error(), tail(std.String(), 5))
		}
	}

	{
		err = m.cleanup()
		if err != nil {
			return tracer.Mask(err)
		}
	}

	return nil
}

// Classes reads the class labels of the trained ensemble in the order of its
// probability outputs.
func (m *Model) Classes() ([]int, error) {
	var err error

	var byt []byte
	{
		byt, err = os.ReadFile(filepath.Join(m.Pat, m.Buf, "res", "cla.json"))
		if err != nil {
			return nil, tracer.Mask(err)
		}
	}

	var res struct {
		Cla []int `json:"classes"`
	}
	{
		err = json.Unmarshal(byt, &res)
		if err != nil {
			return nil, tracer.Mask(err)
		}
	}

	return res.Cla, nil
}

// Predictions is the path of the test set predictions written by the
// training script.
func (m *Model) Predictions() string {
	return filepath.Join(m.Pat, m.Buf, "csv", "pre.csv")
}

// cleanup removes a script left behind by an earlier run of the same buffer
// which did not finish.
func (m *Model) cleanup() error {
	if !exists(m.temfilp()) {
		return nil
	}

	var tem string
	{
		byt, err := os.ReadFile(m.temfilp())
		if err != nil {
			return tracer.Mask(err)
		}

		tem = strings.TrimSpace(string(byt))
	}

	if exists(tem) {
		err := os.Remove(tem)
		if err != nil {
			return tracer.Mask(err)
		}
	}

	{
		err := os.Remove(m.temfilp())
		if err != nil {
			return tracer.Mask(err)
		}
	}

	return nil
}

func (m *Model) configs() {
	if m.Buf == "" {
		panic("Model.Buf must not be empty")
	}

	if m.Pat == "" {
		panic("Model.Pat must not be empty")
	}

	if m.Pyt == "" {
		m.Pyt = "python3"
	}

	if m.Tem == "" {
		m.Tem = deftem
	}
}

func (m *Model) mapping() (map[string]interface{}, error) {
	var pre map[string]interface{}
	if m.Sca != nil {
		mea, err := json.Marshal(m.Sca.Mea)
		if err != nil {
			return nil, tracer.Mask(err)
		}

		sca, err := json.Marshal(m.Sca.Sca)
		if err != nil {
			return nil, tracer.Mask(err)
		}

		cla := map[string][]string{}
		for k, v := range m.Enc {
			cla[k] = v.Cla
		}

		enc, err := json.Marshal(cla)
		if err != nil {
			return nil, tracer.Mask(err)
		}

		pre = map[string]interface{}{
			"Ekp": artifact.EncodersPickle,
			"Enc": string(enc),
			"Mea": string(mea),
			"Sam": m.Sam,
			"Sca": string(sca),
			"Skp": artifact.ScalerPickle,
		}
	}

	return map[string]interface{}{
		"Buf": m.Buf,
		"Lgb": artifact.LightGBMFile,
		"Mod": artifact.ModelFile,
		"Pat": strings.TrimSuffix(m.Pat, "/"),
		"Pre": pre,
		"See": m.See,
		"Tar": feature.Target,
	}, nil
}

func (m *Model) temfilb() []byte {
	return []byte(m.Fil.Name())
}

func (m *Model) temfilp() string {
	return filepath.Join(m.Pat, m.Buf, "model.pat")
}

// tail returns the last num lines of the given output, which for a failed
// Python script is where the traceback ends.
func tail(out string, num int) string {
	lin := strings.Split(strings.TrimSpace(out), "\n")
	if len(lin) > num {
		lin = lin[len(lin)-num:]
	}

	return strings.Join(lin, "\n")
}
