package adapter

// Typed parameter extractors. Operation parameters arrive from JSON decoding,
// so numbers are float64 and lists are []interface{}; in-process callers pass
// native Go values. These helpers accept both shapes.

// StringParam returns the named parameter as a string.
func (op Operation) StringParam(name string) (string, bool) {
	v, ok := op.Params[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// StringOr returns the named string parameter or a default.
func (op Operation) StringOr(name, def string) string {
	if s, ok := op.StringParam(name); ok && s != "" {
		return s
	}
	return def
}

// IntParam returns the named parameter as an int.
func (op Operation) IntParam(name string) (int, bool) {
	v, ok := op.Params[name]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// IntOr returns the named int parameter or a default.
func (op Operation) IntOr(name string, def int) int {
	if n, ok := op.IntParam(name); ok {
		return n
	}
	return def
}

// BoolParam returns the named parameter as a bool.
func (op Operation) BoolParam(name string) (bool, bool) {
	v, ok := op.Params[name]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// MapParam returns the named parameter as a string-keyed map.
func (op Operation) MapParam(name string) (map[string]interface{}, bool) {
	v, ok := op.Params[name]
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]interface{})
	return m, ok
}

// ListParam returns the named parameter as a generic list.
func (op Operation) ListParam(name string) ([]interface{}, bool) {
	v, ok := op.Params[name]
	if !ok {
		return nil, false
	}
	switch l := v.(type) {
	case []interface{}:
		return l, true
	case []map[string]interface{}:
		out := make([]interface{}, len(l))
		for i, item := range l {
			out[i] = item
		}
		return out, true
	case []string:
		out := make([]interface{}, len(l))
		for i, item := range l {
			out[i] = item
		}
		return out, true
	}
	return nil, false
}

// BytesParam returns the named parameter as raw bytes. String values are
// converted; JSON callers send content as text.
func (op Operation) BytesParam(name string) ([]byte, bool) {
	v, ok := op.Params[name]
	if !ok {
		return nil, false
	}
	switch b := v.(type) {
	case []byte:
		return b, true
	case string:
		return []byte(b), true
	}
	return nil, false
}

// FloatListParam returns the named parameter as a float32 slice, the shape
// embedding vectors travel in.
func (op Operation) FloatListParam(name string) ([]float32, bool) {
	v, ok := op.Params[name]
	if !ok {
		return nil, false
	}
	switch l := v.(type) {
	case []float32:
		return l, true
	case []float64:
		out := make([]float32, len(l))
		for i, f := range l {
			out[i] = float32(f)
		}
		return out, true
	case []interface{}:
		out := make([]float32, len(l))
		for i, item := range l {
			switch f := item.(type) {
			case float64:
				out[i] = float32(f)
			case float32:
				out[i] = f
			case int:
				out[i] = float32(f)
			default:
				return nil, false
			}
		}
		return out, true
	}
	return nil, false
}
