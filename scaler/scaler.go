package scaler

import (
	"errors"
	"math"
	"os"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/xh3b4sd/tracer"
	"gonum.org/v1/gonum/stat"
)

var dimensionMismatchError = &tracer.Error{
	Kind: "dimensionMismatchError",
}

func IsDimensionMismatch(err error) bool {
	return errors.Is(err, dimensionMismatchError)
}

var nonFiniteError = &tracer.Error{
	Kind: "nonFiniteError",
}

func IsNonFinite(err error) bool {
	return errors.Is(err, nonFiniteError)
}

var emptyDataError = &tracer.Error{
	Kind: "emptyDataError",
}

func IsEmptyData(err error) bool {
	return errors.Is(err, emptyDataError)
}

// Standard removes the mean and scales to unit variance per feature. The
// standard deviation is the population one, and features without variance
// keep a scale of 1.
type Standard struct {
	Mea []float64 `msgpack:"mean"`
	Sca []float64 `msgpack:"scale"`
}

func Fit(row [][]float64) (*Standard, error) {
	if len(row) == 0 || len(row[0]) == 0 {
		return nil, tracer.Mask(emptyDataError)
	}

	num := len(row[0])
	for _, r := range row {
		if len(r) != num {
			return nil, tracer.Maskf(dimensionMismatchError, "expected %d features, got %d", num, len(r))
		}
	}

	s := &Standard{
		Mea: make([]float64, num),
		Sca: make([]float64, num),
	}

	col := make([]float64, len(row))
	for j := 0; j < num; j++ {
		for i, r := range row {
			col[i] = r[j]
		}

		mea, vrn := stat.PopMeanVariance(col, nil)

		s.Mea[j] = mea
		s.Sca[j] = math.Sqrt(vrn)

		if s.Sca[j] == 0 {
			s.Sca[j] = 1
		}
	}

	return s, nil
}

// Transform returns a scaled copy of the given vector. Neither the input nor
// the scaler is modified.
func (s *Standard) Transform(vec []float64) ([]float64, error) {
	if len(vec) != len(s.Mea) {
		return nil, tracer.Maskf(dimensionMismatchError, "expected %d features, got %d", len(s.Mea), len(vec))
	}

	out := make([]float64, len(vec))
	for i, v := range vec {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, tracer.Maskf(nonFiniteError, "input contains infinity or NaN at feature %d", i)
		}

		out[i] = (v - s.Mea[i]) / s.Sca[i]
	}

	return out, nil
}

func (s *Standard) TransformAll(row [][]float64) ([][]float64, error) {
	out := make([][]float64, len(row))

	for i, r := range row {
		vec, err := s.Transform(r)
		if err != nil {
			return nil, tracer.Mask(err)
		}

		out[i] = vec
	}

	return out, nil
}

func (s *Standard) Save(pat string) error {
	byt, err := msgpack.Marshal(s)
	if err != nil {
		return tracer.Mask(err)
	}

	err = os.WriteFile(pat, byt, 0664)
	if err != nil {
		return tracer.Mask(err)
	}

	return nil
}

func Load(pat string) (*Standard, error) {
	byt, err := os.ReadFile(pat)
	if err != nil {
		return nil, tracer.Mask(err)
	}

	var s Standard
	err = msgpack.Unmarshal(byt, &s)
	if err != nil {
		return nil, tracer.Mask(err)
	}

	if len(s.Mea) == 0 || len(s.Mea) != len(s.Sca) {
		return nil, tracer.Maskf(dimensionMismatchError, "%s holds %d means and %d scales", pat, len(s.Mea), len(s.Sca))
	}

	return &s, nil
}
