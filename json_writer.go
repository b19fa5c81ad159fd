package wealth

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// jsonObjectWriter builds a JSON object whose keys keep the order they were
// appended in. Its zero value is an empty object.
type jsonObjectWriter struct {
	buf []byte
	err error
}

// Append marshals value under key.
func (w *jsonObjectWriter) Append(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	k, err := json.Marshal(key)
	if err != nil {
		w.err = err
		return w
	}
	v, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("cannot marshal %q: %w", key, err)
		return w
	}
	if len(w.buf) > 0 {
		w.buf = append(w.buf, ',')
	}
	w.buf = append(w.buf, k...)
	w.buf = append(w.buf, ':')
	w.buf = append(w.buf, v...)
	return w
}

// Optional is like Append but skips empty values: nil, zero values and
// values whose IsZero method says so (Money, Quantity, time.Time).
func (w *jsonObjectWriter) Optional(key string, value any) *jsonObjectWriter {
	if isEmpty(value) {
		return w
	}
	return w.Append(key, value)
}

func isEmpty(value any) bool {
	v := reflect.ValueOf(value)
	if !v.IsValid() || v.IsZero() {
		return true
	}
	// pointers are present as soon as they are set.
	if v.Kind() == reflect.Pointer {
		return false
	}
	z, ok := value.(interface{ IsZero() bool })
	return ok && z.IsZero()
}

// MarshalJSON returns the object built so far, or the first error.
func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	b := make([]byte, 0, len(w.buf)+2)
	b = append(b, '{')
	b = append(b, w.buf...)
	return append(b, '}'), nil
}
