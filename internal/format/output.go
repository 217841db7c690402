package format

import (
	"encoding/json"
	"fmt"
	"io"
)

// Envelope is the shape of every command's stdout: the payload under "data" and optional
// follow-up hints under "meta".
type Envelope struct {
	Data any            `json:"data"`
	Meta map[string]any `json:"meta,omitempty"`
}

// WriteJSON writes strict JSON output for CLI commands.
//
// NOTE: Output stays strict JSON only. If you need to communicate how to fetch more data,
// use the `meta` object.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteEnvelope wraps data (and meta, when non-empty) and writes it as JSON.
func WriteEnvelope(w io.Writer, data any, meta map[string]any, pretty bool) error {
	env := Envelope{Data: data}
	if len(meta) > 0 {
		env.Meta = meta
	}
	return WriteJSON(w, env, pretty)
}
