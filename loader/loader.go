package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
	"github.com/xh3b4sd/cirrhosis/artifact"
	"github.com/xh3b4sd/tracer"
)

// Loader implements cirrhosis.Classifier by serving the pickled voting
// ensemble from a Python child process. Predictions are exchanged over a
// simple HTTP server bound to Add and Por.
type Loader struct {
	// Add is the host the Python server binds to, defaults to localhost.
	Add string
	Cli *http.Client
	Cmd *exec.Cmd
	// Deb forwards stdout and stderr of the child process.
	Deb bool
	Fil *os.File
	// Pat is the required artifact directory containing the pickled
	// ensemble.
	//
	//     $ tree -L 1 /srv/cirrhosis/
	//     /srv/cirrhosis/
	//     ├── label_encoders.msgpack
	//     ├── liver_cirrhosis_model.pkl
	//     ├── manifest.yaml
	//     └── scaler.msgpack
	//
	Pat string
	// Por is the required free port number used to run a simple HTTP server in
	// Python for serving predictions between processes.
	Por int
	// Pyt is the Python interpreter executing the rendered script, defaults
	// to python3.
	Pyt string
	// Tem is the Python script template that is first being rendered and
	// persisted, and then executed in a child process.
	Tem string
	// Tok is the token the child process answers health checks with,
	// defaults to a random uuid.
	Tok string
	Url string

	don chan struct{}
}

func (l *Loader) Execute() ([]byte, error) {
	{
		l.configs()
	}

	var buf bytes.Buffer
	{
		t, err := template.New("loader").Parse(l.Tem)
		if err != nil {
			return nil, tracer.Mask(err)
		}

		err = t.Execute(&buf, l.mapping())
		if err != nil {
			return nil, tracer.Mask(err)
		}
	}

	return buf.Bytes(), nil
}

// Restore starts the Python server and blocks until it answers health checks.
// Restore fails if the child process exits or ctx expires before that.
func (l *Loader) Restore(ctx context.Context) error {
	var err error

	{
		l.configs()
	}

	var byt []byte
	{
		byt, err = l.Execute()
		if err != nil {
			return tracer.Mask(err)
		}
	}

	{
		l.Fil, err = os.CreateTemp("", "cirrhosis-loader-template-*")
		if err != nil {
			return tracer.Mask(err)
		}
	}

	{
		_, err := l.Fil.Write(byt)
		if err != nil {
			return tracer.Mask(err)
		}
	}

	{
		err := l.Fil.Close()
		if err != nil {
			return tracer.Mask(err)
		}
	}

	{
		l.Cmd = exec.Command(l.Pyt, l.Fil.Name())
	}

	if l.Deb {
		l.Cmd.Stdout = os.Stdout
		l.Cmd.Stderr = os.Stderr
	}

	{
		err := l.Cmd.Start()
		if err != nil {
			return tracer.Mask(err)
		}
	}

	var wai error
	{
		l.don = make(chan struct{})
	}

	go func() {
		wai = l.Cmd.Wait()
		close(l.don)
	}()

	tic := time.NewTicker(200 * time.Millisecond)
	defer tic.Stop()

	for {
		if l.checker(ctx) {
			select {
			case <-l.don:
				{
					os.Remove(l.Fil.Name())
				}

				return tracer.Maskf(processExitedError, "%v", wai)
			default:
			}

			return nil
		}

		select {
		case <-ctx.Done():
			{
				err := l.Sigkill()
				if err != nil {
					return tracer.Mask(err)
				}
			}

			return tracer.Mask(ctx.Err())
		case <-l.don:
			{
				os.Remove(l.Fil.Name())
			}

			return tracer.Maskf(processExitedError, "%v", wai)
		case <-tic.C:
		}
	}
}

// Predict sends the scaled feature vector to the Python server and returns
// the predicted class label.
func (l *Loader) Predict(ctx context.Context, vec []float64) (int, error) {
	var err error

	if l.Url == "" || l.Cli == nil {
		return 0, tracer.Mask(notRestoredError)
	}

	var byt []byte
	{
		byt, err = json.Marshal(map[string][]float64{"vec": vec})
		if err != nil {
			return 0, tracer.Mask(err)
		}
	}

	var req *http.Request
	{
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, l.Url, bytes.NewBuffer(byt))
		if err != nil {
			return 0, tracer.Mask(err)
		}
	}

	{
		req.Header.Set("Content-Type", "application/json")
	}

	var res *http.Response
	{
		res, err = l.Cli.Do(req)
		if err != nil {
			return 0, tracer.Mask(err)
		}
		defer res.Body.Close()
	}

	var bod []byte
	{
		bod, err = io.ReadAll(res.Body)
		if err != nil {
			return 0, tracer.Mask(err)
		}
	}

	if res.StatusCode != http.StatusOK {
		return 0, tracer.Maskf(predictionFailedError, "%s", strings.TrimSpace(string(bod)))
	}

	var cla int
	{
		cla, err = strconv.Atoi(strings.TrimSpace(string(bod)))
		if err != nil {
			return 0, tracer.Maskf(predictionFailedError, "%s", err.Error())
		}
	}

	return cla, nil
}

func (l *Loader) Sigkill() error {
	if l.Cmd != nil && l.Cmd.Process != nil {
		err := l.Cmd.Process.Kill()
		if err != nil && !IsProcessAlreadyFinished(err) {
			return tracer.Mask(err)
		}
	}

	if l.don != nil {
		<-l.don
	}

	if l.Fil != nil {
		os.Remove(l.Fil.Name())
	}

	return nil
}

func (l *Loader) checker(ctx context.Context) bool {
	var err error

	var req *http.Request
	{
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, l.Url, nil)
		if err != nil {
			return false
		}
	}

	var res *http.Response
	{
		res, err = l.Cli.Do(req)
		if err != nil {
			return false
		}
		defer res.Body.Close()
	}

	var bod []byte
	{
		bod, err = io.ReadAll(res.Body)
		if err != nil {
			return false
		}
	}

	return strings.TrimSpace(string(bod)) == "OK "+l.Tok
}

func (l *Loader) configs() {
	if l.Add == "" {
		l.Add = "localhost"
	}

	if l.Cli == nil {
		l.Cli = &http.Client{Timeout: 30 * time.Second}
	}

	if l.Pat == "" {
		panic("Loader.Pat must not be empty")
	}

	if l.Por == 0 {
		panic("Loader.Por must not be empty")
	}

	if l.Pyt == "" {
		l.Pyt = "python3"
	}

	if l.Tem == "" {
		l.Tem = deftem
	}

	if l.Tok == "" {
		l.Tok = uuid.NewString()
	}

	if l.Url == "" {
		l.Url = fmt.Sprintf("http://%s:%d", l.Add, l.Por)
	}
}

func (l *Loader) mapping() map[string]interface{} {
	return map[string]interface{}{
		"Add": l.Add,
		"Mod": artifact.ModelFile,
		"Pat": strings.TrimSuffix(l.Pat, "/"),
		"Por": l.Por,
		"Tok": l.Tok,
	}
}
