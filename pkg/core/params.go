package core

import (
	"fmt"
	"io"
	"strconv"
	"time"
)

// ParamType enumerates supported parameter value kinds.
type ParamType string

const (
	// ParamTypeInt denotes integer-valued parameters.
	ParamTypeInt ParamType = "int"
	// ParamTypeFloat denotes floating-point parameters.
	ParamTypeFloat ParamType = "float"
	// ParamTypeString denotes free-form text such as topics and frame ids.
	ParamTypeString ParamType = "string"
	// ParamTypeDuration denotes time intervals.
	ParamTypeDuration ParamType = "duration"
)

// Parameter describes a single configured value exposed by a program.
type Parameter struct {
	Key         string
	Label       string
	Type        ParamType
	Value       string
	Description string
}

// ParameterGroup clusters related parameters for presentation purposes.
type ParameterGroup struct {
	Name    string
	Params  []Parameter
	Summary string
}

// ParameterSnapshot captures the current set of values exposed by a program.
type ParameterSnapshot struct {
	Groups []ParameterGroup
}

// ParameterProvider is implemented by programs that can describe their
// configuration.
type ParameterProvider interface {
	Parameters() ParameterSnapshot
}

// Lookup returns the parameter stored under key.
func (s ParameterSnapshot) Lookup(key string) (Parameter, bool) {
	for _, group := range s.Groups {
		for _, p := range group.Params {
			if p.Key == key {
				return p, true
			}
		}
	}
	return Parameter{}, false
}

// Write prints the snapshot as an indented key/value listing.
func (s ParameterSnapshot) Write(w io.Writer) error {
	for _, group := range s.Groups {
		if _, err := fmt.Fprintf(w, "%s\n", group.Name); err != nil {
			return err
		}
		for _, p := range group.Params {
			if _, err := fmt.Fprintf(w, "  %-12s %-24s %s\n", p.Key, p.Label, p.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

// IntParam builds an integer parameter.
func IntParam(key, label string, value int) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeInt, Value: strconv.Itoa(value)}
}

// Int64Param builds an integer parameter from an int64.
func Int64Param(key, label string, value int64) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeInt, Value: strconv.FormatInt(value, 10)}
}

// FloatParam builds a floating point parameter.
func FloatParam(key, label string, value float64) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeFloat, Value: strconv.FormatFloat(value, 'f', -1, 64)}
}

// StringParam builds a text parameter.
func StringParam(key, label, value string) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeString, Value: value}
}

// DurationParam builds a duration parameter; the value is rendered in
// milliseconds to match the *_ms configuration keys.
func DurationParam(key, label string, value time.Duration) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeDuration, Value: strconv.FormatInt(value.Milliseconds(), 10)}
}
