package statemachine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"

	"github.com/mitchellh/mapstructure"
)

// Data is the working document passed between states. Keys follow the JSON
// names of the structs it is converted from.
type Data map[string]any

// DataFrom converts a JSON-tagged struct (or pointer to one) into Data.
func DataFrom(v any) (Data, error) {
	if d, ok := v.(Data); ok {
		return d.Clone(), nil
	}
	out := Data{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &out,
	})
	if err != nil {
		return nil, fmt.Errorf("build data encoder: %w", err)
	}
	if err := dec.Decode(v); err != nil {
		return nil, fmt.Errorf("encode %T as data: %w", v, err)
	}
	return out, nil
}

// DataFromJSON parses a JSON object into Data. Numbers stay json.Number so
// large integers survive unrounded.
func DataFromJSON(raw []byte) (Data, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out Data
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode json data: %w", err)
	}
	return out, nil
}

// Decode copies d into the JSON-tagged struct pointed to by out. Strings are
// never coerced to numbers.
func (d Data) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		ErrorUnused: false,
		Result:      out,
	})
	if err != nil {
		return fmt.Errorf("build data decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(d)); err != nil {
		return fmt.Errorf("decode data into %T: %w", out, err)
	}
	return nil
}

// Clone returns a shallow copy of d.
func (d Data) Clone() Data {
	if d == nil {
		return nil
	}
	out := make(Data, len(d))
	maps.Copy(out, d)
	return out
}
