package quality

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var errMissing = errors.New("missing value")

// valueKey gives cells that compare equal the same key: integers of any
// width, integral floats and numeric json.Numbers collapse to one number.
func valueKey(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return "s:" + x
	case []byte:
		return "s:" + string(x)
	case bool:
		return "b:" + strconv.FormatBool(x)
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return "n:" + strconv.FormatInt(n, 10)
		}
		if f, err := x.Float64(); err == nil {
			return floatKey(f)
		}
		return "s:" + x.String()
	case time.Time:
		return "t:" + x.UTC().Format(time.RFC3339Nano)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "n:" + strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "n:" + strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return floatKey(rv.Float())
	default:
		return fmt.Sprintf("%T:%v", v, v)
	}
}

func floatKey(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < math.MaxInt64 {
		return "n:" + strconv.FormatInt(int64(f), 10)
	}
	return "f:" + strconv.FormatFloat(f, 'g', -1, 64)
}

// displayValue normalises a cell for reporting.
func displayValue(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n
		}
		return x.String()
	case float64:
		return finiteOrString(x)
	case float32:
		if f := float64(x); math.IsInf(f, 0) {
			return finiteOrString(f)
		}
		return x
	default:
		return v
	}
}

// finiteOrString keeps finite floats and spells out infinities, which JSON
// cannot carry.
func finiteOrString(f float64) any {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return f
}

// toInt64 coerces a cell to a signed 64-bit integer. Floats are truncated.
func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case nil:
		return 0, errMissing
	case string:
		return parseIntString(x)
	case []byte:
		return parseIntString(string(x))
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n, nil
		}
		f, err := x.Float64()
		if err != nil {
			return 0, fmt.Errorf("invalid number %q", x.String())
		}
		return floatToInt64(f)
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, fmt.Errorf("value %d overflows int64", u)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		return floatToInt64(rv.Float())
	default:
		return 0, fmt.Errorf("cannot convert %T to int64", v)
	}
}

func parseIntString(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, fmt.Errorf("value %q overflows int64", s)
		}
		return 0, fmt.Errorf("invalid literal %q", s)
	}
	return n, nil
}

func floatToInt64(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("cannot convert non-finite value %v to int64", f)
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("value %v overflows int64", f)
	}
	return int64(f), nil
}

var datetimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-1-2 15:04:05",
	"2006-1-2",
	"2006/1/2 15:04:05",
	"2006/1/2",
	"2/1/2006 15:04:05",
	"2/1/2006",
	"1/2/2006 15:04:05",
	"1/2/2006",
	"2-1-2006",
	"2.1.2006 15:04:05",
	"2.1.2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"02 Jan 2006 15:04:05",
	time.RFC1123,
	time.RFC1123Z,
	time.ANSIC,
}

// parseDatetime accepts time values, unix seconds and strings in any of the
// known date layouts.
func parseDatetime(v any) error {
	var s string
	switch x := v.(type) {
	case nil:
		return errMissing
	case time.Time:
		return nil
	case json.Number:
		if _, err := x.Float64(); err == nil {
			return nil
		}
		s = x.String()
	case string:
		s = x
	case []byte:
		s = string(x)
	case bool:
		return fmt.Errorf("cannot parse %v as datetime", x)
	default:
		switch reflect.ValueOf(v).Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return nil
		case reflect.Float32, reflect.Float64:
			if IsMarker(v) {
				return errMissing
			}
			return nil
		}
		return fmt.Errorf("cannot parse %T as datetime", v)
	}

	s = strings.TrimSpace(s)
	for _, layout := range datetimeLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return nil
		}
	}
	return fmt.Errorf("unknown datetime string format, unable to parse: %q", s)
}
