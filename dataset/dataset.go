package dataset

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/xh3b4sd/cirrhosis/encoder"
	"github.com/xh3b4sd/cirrhosis/feature"
	"github.com/xh3b4sd/tracer"
)

// Dropped are columns of the raw dataset which carry no signal for staging.
var Dropped = []string{"N_Days", "Status", "Drug"}

const daysPerYear = 365

var missingColumnError = &tracer.Error{
	Kind: "missingColumnError",
}

func IsMissingColumn(err error) bool {
	return errors.Is(err, missingColumnError)
}

var invalidValueError = &tracer.Error{
	Kind: "invalidValueError",
}

func IsInvalidValue(err error) bool {
	return errors.Is(err, invalidValueError)
}

// Table is the cleaned dataset. Rows hold the features in the order of
// feature.Fields, labels hold the stage of every row.
type Table struct {
	Col []string
	Row [][]float64
	Lab []int
	// Enc are the label encoders fitted on the categorical columns.
	Enc encoder.Set
}

func Load(pat string) (*Table, error) {
	fil, err := os.Open(pat)
	if err != nil {
		return nil, tracer.Mask(err)
	}
	defer fil.Close()

	tab, err := Read(fil)
	if err != nil {
		return nil, tracer.Mask(err)
	}

	return tab, nil
}

// Read parses the raw CSV dataset. Dropped columns are ignored, age is
// converted from days to years, and categorical columns are label encoded.
func Read(r io.Reader) (*Table, error) {
	var err error

	var rec [][]string
	{
		rea := csv.NewReader(r)
		rea.TrimLeadingSpace = true

		rec, err = rea.ReadAll()
		if err != nil {
			return nil, tracer.Mask(err)
		}

		if len(rec) == 0 {
			return nil, tracer.Maskf(missingColumnError, "dataset has no header")
		}
	}

	var ind map[string]int
	{
		ind = map[string]int{}

		for i, h := range rec[0] {
			h = strings.TrimSpace(h)
			if slices.Contains(Dropped, h) {
				continue
			}

			ind[h] = i
		}

		for _, c := range append(feature.Columns(), feature.Target) {
			if _, ok := ind[c]; !ok {
				return nil, tracer.Maskf(missingColumnError, "%s", c)
			}
		}
	}

	bod := rec[1:]

	enc := encoder.Set{}
	for _, c := range feature.Categorical {
		var val []string
		for _, r := range bod {
			val = append(val, strings.TrimSpace(r[ind[c]]))
		}

		enc[c] = encoder.Fit(val)
	}

	tab := &Table{
		Col: feature.Columns(),
		Enc: enc,
	}

	for i, r := range bod {
		vec := make([]float64, len(feature.Fields))

		for j, f := range feature.Fields {
			vec[j], err = cell(enc, f.Col, r[ind[f.Col]])
			if err != nil {
				return nil, tracer.Maskf(invalidValueError, "row %d column %s: %s", i+1, f.Col, err.Error())
			}
		}

		var lab float64
		{
			lab, err = strconv.ParseFloat(strings.TrimSpace(r[ind[feature.Target]]), 64)
			if err != nil {
				return nil, tracer.Maskf(invalidValueError, "row %d column %s: %s", i+1, feature.Target, err.Error())
			}
		}

		tab.Row = append(tab.Row, vec)
		tab.Lab = append(tab.Lab, int(lab))
	}

	return tab, nil
}

// Classes returns the distinct labels of the table in ascending order.
func (t *Table) Classes() []int {
	cla := slices.Clone(t.Lab)

	slices.Sort(cla)

	return slices.Compact(cla)
}

func cell(enc encoder.Set, col string, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)

	if l, ok := enc[col]; ok {
		cod, err := l.Encode(raw)
		if err != nil {
			return 0, tracer.Mask(err)
		}

		return float64(cod), nil
	}

	flo, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, tracer.Mask(err)
	}

	if col == "Age" {
		return math.RoundToEven(flo / daysPerYear), nil
	}

	return flo, nil
}
