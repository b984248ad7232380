package patient

import (
	"bytes"
	"encoding/json"

	"github.com/xh3b4sd/tracer"
)

// Form is a JSON object which remembers the order its keys were received in.
// Values are decoded with json.Number so that numbers are echoed exactly as
// the client sent them.
type Form struct {
	key []string
	val map[string]interface{}
}

func NewForm() *Form {
	return &Form{
		val: map[string]interface{}{},
	}
}

func (f *Form) Get(key string) (interface{}, bool) {
	if f == nil {
		return nil, false
	}

	val, ok := f.val[key]
	return val, ok
}

func (f *Form) Keys() []string {
	if f == nil {
		return nil
	}

	return append([]string(nil), f.key...)
}

func (f *Form) Len() int {
	if f == nil {
		return 0
	}

	return len(f.key)
}

// Set adds the given key or overwrites its value. An overwritten key keeps its
// original position.
func (f *Form) Set(key string, val interface{}) {
	if f.val == nil {
		f.val = map[string]interface{}{}
	}

	if _, ok := f.val[key]; !ok {
		f.key = append(f.key, key)
	}

	f.val[key] = val
}

func (f *Form) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	{
		buf.WriteByte('{')
	}

	for i, k := range f.Keys() {
		if i != 0 {
			buf.WriteByte(',')
		}

		{
			byt, err := json.Marshal(k)
			if err != nil {
				return nil, tracer.Mask(err)
			}

			buf.Write(byt)
			buf.WriteByte(':')
		}

		{
			byt, err := json.Marshal(f.val[k])
			if err != nil {
				return nil, tracer.Mask(err)
			}

			buf.Write(byt)
		}
	}

	{
		buf.WriteByte('}')
	}

	return buf.Bytes(), nil
}

func (f *Form) UnmarshalJSON(byt []byte) error {
	dec := json.NewDecoder(bytes.NewReader(byt))
	dec.UseNumber()

	{
		tok, err := dec.Token()
		if err != nil {
			return tracer.Mask(err)
		}

		if tok != json.Delim('{') {
			return tracer.Maskf(invalidObjectError, "got %v", tok)
		}
	}

	{
		f.key = nil
		f.val = map[string]interface{}{}
	}

	for dec.More() {
		var key string
		{
			tok, err := dec.Token()
			if err != nil {
				return tracer.Mask(err)
			}

			key = tok.(string)
		}

		var val interface{}
		{
			err := dec.Decode(&val)
			if err != nil {
				return tracer.Mask(err)
			}
		}

		f.Set(key, val)
	}

	{
		_, err := dec.Token()
		if err != nil {
			return tracer.Mask(err)
		}
	}

	return nil
}
