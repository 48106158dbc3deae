package interp

import (
	"strconv"
	"time"
	"unicode/utf8"

	"frontdoor/pkg/doortypes"
)

const (
	nonNumericInput    = "Non-numeric input: \"%s\""
	nonSingleCharInput = "Non-single-character input: \"%s\""
	nonBooleanInput    = "Non-boolean input: \"%s\""
	nonDurationInput   = "Non-duration input: \"%s\""
)

// registerDefaults installs the interpreters every registry starts with.
// rune is an alias of int32, so int32 parameters are read as single characters.
func registerDefaults(r *Registry) {
	must(Register(r, toString))
	must(Register(r, toBool))
	must(Register(r, toRune))
	must(Register(r, toDuration))
	must(Register(r, func(s string) (int, error) {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, doortypes.NewInterpretationError(s, nonNumericInput, err)
		}
		return v, nil
	}))
	must(Register(r, signed[int8](8)))
	must(Register(r, signed[int16](16)))
	must(Register(r, signed[int64](64)))
	must(Register(r, unsigned[uint](strconv.IntSize)))
	must(Register(r, unsigned[uint8](8)))
	must(Register(r, unsigned[uint16](16)))
	must(Register(r, unsigned[uint32](32)))
	must(Register(r, unsigned[uint64](64)))
	must(Register(r, float[float32](32)))
	must(Register(r, float[float64](64)))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func toString(s string) (string, error) {
	return s, nil
}

func toBool(s string) (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, doortypes.NewInterpretationError(s, nonBooleanInput, nil)
	}
}

func toRune(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, doortypes.NewInterpretationError(s, nonSingleCharInput, nil)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

func toDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, doortypes.NewInterpretationError(s, nonDurationInput, err)
	}
	return d, nil
}

func signed[T int8 | int16 | int64](bits int) func(string) (T, error) {
	return func(s string) (T, error) {
		v, err := strconv.ParseInt(s, 10, bits)
		if err != nil {
			return 0, doortypes.NewInterpretationError(s, nonNumericInput, err)
		}
		return T(v), nil
	}
}

func unsigned[T uint | uint8 | uint16 | uint32 | uint64](bits int) func(string) (T, error) {
	return func(s string) (T, error) {
		v, err := strconv.ParseUint(s, 10, bits)
		if err != nil {
			return 0, doortypes.NewInterpretationError(s, nonNumericInput, err)
		}
		return T(v), nil
	}
}

func float[T float32 | float64](bits int) func(string) (T, error) {
	return func(s string) (T, error) {
		v, err := strconv.ParseFloat(s, bits)
		if err != nil {
			return 0, doortypes.NewInterpretationError(s, nonNumericInput, err)
		}
		return T(v), nil
	}
}
