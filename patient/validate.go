package patient

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/xh3b4sd/cirrhosis/feature"
	"github.com/xh3b4sd/tracer"
)

const DefaultName = "Unknown Patient"

// Validate turns a raw patient record into the model input vector, ordered as
// defined by feature.Fields, and the trimmed patient name. A record is either
// complete and numeric, or it is rejected as a whole.
func Validate(frm *Form) ([]float64, string, error) {
	var err error

	var nam string
	{
		nam, err = name(frm)
		if err != nil {
			return nil, "", tracer.Mask(err)
		}
	}

	for _, f := range feature.Fields {
		if blank(frm, f.Key) {
			return nil, "", tracer.Maskf(missingFieldsError, "field %q", f.Key)
		}
	}

	vec := make([]float64, len(feature.Fields))
	for i, f := range feature.Fields {
		val, _ := frm.Get(f.Key)

		if f.Kin == feature.Int {
			vec[i], err = toInt(val)
		} else {
			vec[i], err = toFloat(val)
		}

		if err != nil {
			return nil, "", tracer.Maskf(invalidInputError, "field %q: %s", f.Key, err.Error())
		}
	}

	return vec, nam, nil
}

func blank(frm *Form, key string) bool {
	val, ok := frm.Get(key)
	if !ok || val == nil {
		return true
	}

	str, ok := val.(string)
	if ok && strings.TrimSpace(str) == "" {
		return true
	}

	return false
}

func name(frm *Form) (string, error) {
	val, ok := frm.Get(feature.Name)
	if !ok || val == nil {
		return DefaultName, nil
	}

	str, ok := val.(string)
	if !ok {
		return "", tracer.Maskf(invalidObjectError, "%s must be a string", feature.Name)
	}

	return strings.TrimSpace(str), nil
}

func toFloat(val interface{}) (float64, error) {
	switch v := val.(type) {
	case json.Number:
		return overflow(v.Float64())
	case float64:
		return v, nil
	case string:
		str, err := digits(v)
		if err != nil {
			return 0, tracer.Mask(err)
		}

		return overflow(strconv.ParseFloat(str, 64))
	case bool:
		return boolean(v), nil
	}

	return 0, tracer.Maskf(invalidInputError, "unsupported type %T", val)
}

// toInt mirrors integer casting of the input form. Numbers are truncated,
// strings must hold an integral value.
func toInt(val interface{}) (float64, error) {
	switch v := val.(type) {
	case json.Number:
		i, err := v.Int64()
		if err == nil {
			return float64(i), nil
		}

		f, err := overflow(v.Float64())
		if err != nil {
			return 0, err
		}

		return math.Trunc(f), nil
	case float64:
		return math.Trunc(v), nil
	case string:
		str, err := digits(v)
		if err != nil {
			return 0, tracer.Mask(err)
		}

		i, err := strconv.Atoi(str)
		if err != nil {
			return 0, err
		}

		return float64(i), nil
	case bool:
		return boolean(v), nil
	}

	return 0, tracer.Maskf(invalidInputError, "unsupported type %T", val)
}

// digits trims the given string and removes underscores grouping digits, e.g.
// 1_000. An underscore anywhere else makes the number invalid.
func digits(str string) (string, error) {
	str = strings.TrimSpace(str)

	for i := 0; i < len(str); i++ {
		if str[i] != '_' {
			continue
		}

		if i == 0 || i == len(str)-1 || !digit(str[i-1]) || !digit(str[i+1]) {
			return "", tracer.Maskf(invalidInputError, "misplaced underscore in %q", str)
		}
	}

	return strings.ReplaceAll(str, "_", ""), nil
}

func digit(b byte) bool {
	return b >= '0' && b <= '9'
}

// overflow accepts numbers beyond the float64 range as infinity. Such a
// vector passes validation and is rejected before prediction.
func overflow(f float64, err error) (float64, error) {
	if errors.Is(err, strconv.ErrRange) {
		return f, nil
	}

	return f, err
}

func boolean(b bool) float64 {
	if b {
		return 1
	}

	return 0
}
