package sqlrow

import (
	"math"
	"strconv"
	"time"
)

// The as* helpers convert a value read from the driver into one Go kind.
// They follow SQLite's loose typing: integers may arrive as int64 or as text,
// text may arrive as string or []byte.

func asInt64(src any) (int64, error) {
	switch v := src.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case float64:
		if v != math.Trunc(v) || v < math.MinInt64 || v > math.MaxInt64 {
			return 0, conversionError(src, "int64")
		}
		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	case []byte:
		return strconv.ParseInt(string(v), 10, 64)
	}

	return 0, conversionError(src, "int64")
}

func asIntRange(src any, lo, hi int64, target string) (int64, error) {
	n, err := asInt64(src)
	if err != nil {
		return 0, err
	}

	if n < lo || n > hi {
		return 0, &rangeError{value: n, target: target}
	}

	return n, nil
}

func asUint64(src any) (uint64, error) {
	n, err := asInt64(src)
	if err != nil {
		return 0, err
	}

	if n < 0 {
		return 0, &rangeError{value: n, target: "uint64"}
	}

	return uint64(n), nil
}

func asFloat64(src any) (float64, error) {
	switch v := src.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(v, 64)
	case []byte:
		return strconv.ParseFloat(string(v), 64)
	}

	return 0, conversionError(src, "float64")
}

func asString(src any) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	}

	return "", conversionError(src, "string")
}

func asBytes(src any) ([]byte, error) {
	switch v := src.(type) {
	case []byte:
		out := make([]byte, len(v))
		copy(out, v)
		return out, nil
	case string:
		return []byte(v), nil
	case nil:
		return nil, nil
	}

	return nil, conversionError(src, "[]byte")
}

func asBool(src any) (bool, error) {
	switch v := src.(type) {
	case bool:
		return v, nil
	case int64:
		return v != 0, nil
	case string:
		return strconv.ParseBool(v)
	case []byte:
		return strconv.ParseBool(string(v))
	}

	return false, conversionError(src, "bool")
}

// timeLayouts are tried in order when a time arrives as text.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func asTime(src any) (time.Time, error) {
	switch v := src.(type) {
	case time.Time:
		return v, nil
	case int64:
		return time.Unix(v, 0).UTC(), nil
	case string:
		return parseTime(v)
	case []byte:
		return parseTime(string(v))
	}

	return time.Time{}, conversionError(src, "time.Time")
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, conversionError(s, "time.Time")
}

type rangeError struct {
	value  int64
	target string
}

func (e *rangeError) Error() string {
	return "value " + strconv.FormatInt(e.value, 10) + " overflows " + e.target
}
