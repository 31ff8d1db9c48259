package bind

import (
	"encoding"
	"fmt"
	"strconv"

	"github.com/yamldoc/go-yamldoc/token"
)

// TextDecoder is implemented by types that know how to populate themselves
// from scalar text. It takes priority over encoding.TextUnmarshaler.
type TextDecoder interface {
	DecodeText(s string) error
}

// TextEncoder is implemented by types that know how to render themselves as
// scalar text. It takes priority over encoding.TextMarshaler.
type TextEncoder interface {
	EncodeText() (string, error)
}

func typeName[T any]() string {
	var z T
	return fmt.Sprintf("%T", z)
}

// decodeText interprets scalar text as the pointed-to type. The empty
// string is a valid string value; for every other supported type it is a
// decode failure.
func decodeText(s string, out any) error {
	switch v := out.(type) {
	case *string:
		*v = s
		return nil
	case *bool:
		switch s {
		case "true", "True", "TRUE":
			*v = true
			return nil
		case "false", "False", "FALSE":
			*v = false
			return nil
		}
		return fmt.Errorf("%q is not a bool", s)
	case *int:
		n, err := strconv.ParseInt(s, 10, strconv.IntSize)
		if err != nil {
			return err
		}
		*v = int(n)
		return nil
	case *int8:
		n, err := strconv.ParseInt(s, 10, 8)
		if err != nil {
			return err
		}
		*v = int8(n)
		return nil
	case *int16:
		n, err := strconv.ParseInt(s, 10, 16)
		if err != nil {
			return err
		}
		*v = int16(n)
		return nil
	case *int32:
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return err
		}
		*v = int32(n)
		return nil
	case *int64:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		*v = n
		return nil
	case *uint:
		n, err := strconv.ParseUint(s, 10, strconv.IntSize)
		if err != nil {
			return err
		}
		*v = uint(n)
		return nil
	case *uint8:
		n, err := strconv.ParseUint(s, 10, 8)
		if err != nil {
			return err
		}
		*v = uint8(n)
		return nil
	case *uint16:
		n, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return err
		}
		*v = uint16(n)
		return nil
	case *uint32:
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return err
		}
		*v = uint32(n)
		return nil
	case *uint64:
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return err
		}
		*v = n
		return nil
	case *float32:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return err
		}
		*v = float32(f)
		return nil
	case *float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*v = f
		return nil
	}
	if d, ok := out.(TextDecoder); ok {
		return d.DecodeText(s)
	}
	if u, ok := out.(encoding.TextUnmarshaler); ok {
		return u.UnmarshalText([]byte(s))
	}
	return fmt.Errorf("unsupported type %T", out)
}

// encodeText renders a value as scalar text, also reporting whether the
// text must be quoted to survive a round trip.
func encodeText(in any) (text string, quoted bool, err error) {
	switch v := in.(type) {
	case string:
		return v, token.NeedsQuote(v) || token.Ambiguous(v), nil
	case bool:
		if v {
			return "true", false, nil
		}
		return "false", false, nil
	case int:
		return strconv.FormatInt(int64(v), 10), false, nil
	case int8:
		return strconv.FormatInt(int64(v), 10), false, nil
	case int16:
		return strconv.FormatInt(int64(v), 10), false, nil
	case int32:
		return strconv.FormatInt(int64(v), 10), false, nil
	case int64:
		return strconv.FormatInt(v, 10), false, nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), false, nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), false, nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), false, nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), false, nil
	case uint64:
		return strconv.FormatUint(v, 10), false, nil
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), false, nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), false, nil
	}
	if e, ok := in.(TextEncoder); ok {
		s, err := e.EncodeText()
		if err != nil {
			return "", false, err
		}
		return s, token.NeedsQuote(s) || token.Ambiguous(s), nil
	}
	if m, ok := in.(encoding.TextMarshaler); ok {
		b, err := m.MarshalText()
		if err != nil {
			return "", false, err
		}
		s := string(b)
		return s, token.NeedsQuote(s) || token.Ambiguous(s), nil
	}
	return "", false, fmt.Errorf("unsupported type %T", in)
}
