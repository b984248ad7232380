package encoder

import (
	"errors"
	"os"
	"slices"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/xh3b4sd/tracer"
)

var unknownLabelError = &tracer.Error{
	Kind: "unknownLabelError",
}

func IsUnknownLabel(err error) bool {
	return errors.Is(err, unknownLabelError)
}

// Label maps the distinct values of a categorical column to consecutive
// integers. Classes are sorted, so the encoding of a column only depends on
// the set of values it contains.
type Label struct {
	Cla []string `msgpack:"classes"`
}

func Fit(val []string) *Label {
	cla := slices.Clone(val)

	slices.Sort(cla)

	return &Label{
		Cla: slices.Compact(cla),
	}
}

func (l *Label) Encode(val string) (int, error) {
	i, ok := slices.BinarySearch(l.Cla, val)
	if !ok {
		return 0, tracer.Maskf(unknownLabelError, "%q not in %v", val, l.Cla)
	}

	return i, nil
}

func (l *Label) Decode(cod int) (string, error) {
	if cod < 0 || cod >= len(l.Cla) {
		return "", tracer.Maskf(unknownLabelError, "code %d not in [0, %d)", cod, len(l.Cla))
	}

	return l.Cla[cod], nil
}

// Set holds one label encoder per categorical column.
type Set map[string]*Label

func (s Set) Save(pat string) error {
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

func Load(pat string) (Set, error) {
	byt, err := os.ReadFile(pat)
	if err != nil {
		return nil, tracer.Mask(err)
	}

	var s Set
	err = msgpack.Unmarshal(byt, &s)
	if err != nil {
		return nil, tracer.Mask(err)
	}

	return s, nil
}
