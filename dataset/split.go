package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"math/rand"
	"slices"
	"strconv"

	"github.com/xh3b4sd/cirrhosis/feature"
	"github.com/xh3b4sd/tracer"
)

// Split partitions the table into a training and a test table. Every class
// contributes the fraction fra of its rows to the test table, so both tables
// keep the class distribution of the original one. The same seed always
// yields the same partition.
func (t *Table) Split(fra float64, see int64) (*Table, *Table) {
	rnd := rand.New(rand.NewSource(see))

	var tra []int
	var tes []int
	for _, c := range t.Classes() {
		var idx []int
		for i, l := range t.Lab {
			if l == c {
				idx = append(idx, i)
			}
		}

		rnd.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

		num := int(math.Round(float64(len(idx)) * fra))
		if num == 0 && len(idx) > 1 {
			num = 1
		}

		tes = append(tes, idx[:num]...)
		tra = append(tra, idx[num:]...)
	}

	slices.Sort(tra)
	slices.Sort(tes)

	return t.subset(tra), t.subset(tes)
}

func (t *Table) subset(idx []int) *Table {
	sub := &Table{
		Col: t.Col,
		Enc: t.Enc,
	}

	for _, i := range idx {
		sub.Row = append(sub.Row, t.Row[i])
		sub.Lab = append(sub.Lab, t.Lab[i])
	}

	return sub
}

// WriteCSV writes the given rows with a header of feature columns followed
// by the target column.
func WriteCSV(w io.Writer, row [][]float64, lab []int) error {
	wri := csv.NewWriter(w)

	{
		err := wri.Write(append(feature.Columns(), feature.Target))
		if err != nil {
			return tracer.Mask(err)
		}
	}

	for i, r := range row {
		rec := make([]string, 0, len(r)+1)
		for _, v := range r {
			rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
		}

		rec = append(rec, strconv.Itoa(lab[i]))

		err := wri.Write(rec)
		if err != nil {
			return tracer.Mask(err)
		}
	}

	wri.Flush()

	{
		err := wri.Error()
		if err != nil {
			return tracer.Mask(err)
		}
	}

	return nil
}

// ReadLabels reads a single column CSV file with header, as written by the
// training script for test set predictions.
func ReadLabels(r io.Reader) ([]int, error) {
	rec, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, tracer.Mask(err)
	}

	var lab []int
	for i, x := range rec {
		if i == 0 {
			continue
		}

		flo, err := strconv.ParseFloat(x[0], 64)
		if err != nil {
			return nil, tracer.Maskf(invalidValueError, "row %d: %s", i, err.Error())
		}

		lab = append(lab, int(flo))
	}

	return lab, nil
}
