package gateway

import (
	"fmt"

	"github.com/polystoreio/polystore/pkg/gateway/adapter"
	"github.com/polystoreio/polystore/pkg/paradigm"
)

// ValidateOperation checks an operation against the declared capability
// metadata before any backend work happens. It returns nil when the operation
// is well-formed, otherwise an ErrorInfo describing the first problem found.
func ValidateOperation(op adapter.Operation) *ErrorInfo {
	if op.Paradigm == "" {
		return invalidInput("paradigm is required")
	}

	cap, ok := paradigm.Get(op.Paradigm)
	if !ok {
		return invalidInput(fmt.Sprintf("unknown paradigm '%s'", op.Paradigm))
	}

	if op.Kind == "" {
		return invalidInput("operation kind is required")
	}

	spec, ok := paradigm.Operation(op.Paradigm, op.Kind)
	if !ok {
		return invalidInput(fmt.Sprintf("paradigm '%s' does not support operation '%s'", cap.ID, op.Kind))
	}

	for _, param := range spec.Params {
		value, present := op.Params[param.Name]
		if !present || value == nil {
			if param.Required {
				return invalidInput(fmt.Sprintf("missing required parameter '%s'", param.Name))
			}
			continue
		}

		if !matchesType(value, param.Type) {
			return invalidInput(fmt.Sprintf("parameter '%s' must be of type %s", param.Name, param.Type))
		}
	}

	return nil
}

func invalidInput(msg string) *ErrorInfo {
	return &ErrorInfo{
		Category:  CategoryInvalidInput,
		Message:   msg,
		Retryable: false,
	}
}

// matchesType checks a decoded parameter value against a declared parameter
// type. Values arrive from JSON decoding, so numbers are float64 and lists
// are []interface{}; native Go values built in-process are accepted too.
func matchesType(value interface{}, t paradigm.ParamType) bool {
	switch t {
	case paradigm.TypeString:
		_, ok := value.(string)
		return ok
	case paradigm.TypeBytes:
		switch value.(type) {
		case []byte, string:
			// JSON carries binary content base64- or text-encoded
			return true
		}
		return false
	case paradigm.TypeInt:
		switch v := value.(type) {
		case int, int32, int64:
			return true
		case float64:
			return v == float64(int64(v))
		}
		return false
	case paradigm.TypeFloat:
		switch value.(type) {
		case float64, float32, int, int64:
			return true
		}
		return false
	case paradigm.TypeMap:
		_, ok := value.(map[string]interface{})
		return ok
	case paradigm.TypeList:
		switch value.(type) {
		case []interface{}, []map[string]interface{}, []string:
			return true
		}
		return false
	case paradigm.TypeFloatList:
		switch v := value.(type) {
		case []float32, []float64:
			return true
		case []interface{}:
			for _, item := range v {
				if !matchesType(item, paradigm.TypeFloat) {
					return false
				}
			}
			return true
		}
		return false
	}
	return false
}
