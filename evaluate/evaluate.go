package evaluate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/sjwhitworth/golearn/evaluation"
	"github.com/xh3b4sd/tracer"
)

var lengthMismatchError = &tracer.Error{
	Kind: "lengthMismatchError",
}

func IsLengthMismatch(err error) bool {
	return errors.Is(err, lengthMismatchError)
}

// Report summarizes how well predictions match the ground truth of a test
// set. The confusion matrix is indexed by true class first and predicted
// class second.
type Report struct {
	Cla []int
	Con evaluation.ConfusionMatrix
}

type Score struct {
	Cla int     `json:"class"`
	Pre float64 `json:"precision"`
	Rec float64 `json:"recall"`
	Fsc float64 `json:"f1"`
	Sup int     `json:"support"`
}

func New(tru []int, pre []int) (*Report, error) {
	if len(tru) != len(pre) {
		return nil, tracer.Maskf(lengthMismatchError, "%d labels and %d predictions", len(tru), len(pre))
	}

	var cla []int
	{
		cla = append(slices.Clone(tru), pre...)
		slices.Sort(cla)
		cla = slices.Compact(cla)
	}

	con := evaluation.ConfusionMatrix{}
	for _, a := range cla {
		con[key(a)] = map[string]int{}

		for _, b := range cla {
			con[key(a)][key(b)] = 0
		}
	}

	for i := range tru {
		con[key(tru[i])][key(pre[i])]++
	}

	return &Report{Cla: cla, Con: con}, nil
}

func (r *Report) Accuracy() float64 {
	if len(r.Cla) == 0 {
		return 0
	}

	return evaluation.GetAccuracy(r.Con)
}

func (r *Report) Scores() []Score {
	var sco []Score

	for _, c := range r.Cla {
		var sup int
		for _, n := range r.Con[key(c)] {
			sup += n
		}

		sco = append(sco, Score{
			Cla: c,
			Pre: zero(evaluation.GetPrecision(key(c), r.Con)),
			Rec: zero(evaluation.GetRecall(key(c), r.Con)),
			Fsc: zero(evaluation.GetF1Score(key(c), r.Con)),
			Sup: sup,
		})
	}

	return sco
}

func (r *Report) Summary() string {
	return evaluation.GetSummary(r.Con)
}

// Render writes the classification report and the confusion matrix as
// tables.
func (r *Report) Render(w io.Writer) {
	{
		fmt.Fprintf(w, "Accuracy: %.4f\n\n", r.Accuracy())
	}

	{
		tab := tablewriter.NewWriter(w)
		tab.SetHeader([]string{"Class", "Precision", "Recall", "F1", "Support"})

		for _, s := range r.Scores() {
			tab.Append([]string{
				key(s.Cla),
				strconv.FormatFloat(s.Pre, 'f', 2, 64),
				strconv.FormatFloat(s.Rec, 'f', 2, 64),
				strconv.FormatFloat(s.Fsc, 'f', 2, 64),
				strconv.Itoa(s.Sup),
			})
		}

		tab.Render()
	}

	{
		fmt.Fprintln(w)
	}

	{
		hea := []string{"True \\ Predicted"}
		for _, c := range r.Cla {
			hea = append(hea, key(c))
		}

		tab := tablewriter.NewWriter(w)
		tab.SetHeader(hea)

		for _, a := range r.Cla {
			row := []string{key(a)}
			for _, b := range r.Cla {
				row = append(row, strconv.Itoa(r.Con[key(a)][key(b)]))
			}

			tab.Append(row)
		}

		tab.Render()
	}
}

// Line is the JSON line appended to the results file of the artifact
// directory after every training run.
func (r *Report) Line(run string) ([]byte, error) {
	byt, err := json.Marshal(map[string]interface{}{
		"run":      run,
		"accuracy": r.Accuracy(),
		"scores":   r.Scores(),
	})
	if err != nil {
		return nil, tracer.Mask(err)
	}

	return append(byt, '\n'), nil
}

func key(c int) string {
	return strconv.Itoa(c)
}

// zero replaces the NaN of undefined ratios, e.g. the precision of a class
// never predicted.
func zero(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}

	return f
}
