package model

import (
	"fmt"
	"strconv"
	"time"
)

// Epoch is the platform epoch in milliseconds since the Unix epoch; the
// timestamp half of every snowflake counts from here.
const Epoch int64 = 1420070400000

// Snowflake is the platform's 64-bit entity id: 42 bits of millisecond
// timestamp, then worker, process and sequence bits.
type Snowflake int64

// ParseSnowflake parses the decimal string form ids travel as on the wire.
func ParseSnowflake(s string) (Snowflake, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("model: parsing snowflake %q: %w", s, err)
	}

	return Snowflake(n), nil
}

// FromTime builds the smallest snowflake whose timestamp is t, useful as a
// paging cursor.
func FromTime(t time.Time) Snowflake {
	return FromUnixMilli(t.UnixMilli())
}

// FromUnixMilli builds the smallest snowflake for a millisecond Unix
// timestamp.
func FromUnixMilli(ms int64) Snowflake {
	return Snowflake((ms - Epoch) << 22)
}

// UnixMilli returns the id's creation time in milliseconds since the Unix
// epoch.
func (s Snowflake) UnixMilli() int64 {
	return (int64(s) >> 22) + Epoch
}

// Time returns the id's creation time in UTC.
func (s Snowflake) Time() time.Time {
	return time.UnixMilli(s.UnixMilli()).UTC()
}

func (s Snowflake) String() string {
	return strconv.FormatInt(int64(s), 10)
}

// AsSnowflake converts a wire id into a Snowflake. Ids normally travel as
// decimal strings, but numeric payloads are accepted too. Nil passes through
// so optional id fields stay optional.
func AsSnowflake(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return ParseSnowflake(v)
	case float64:
		return Snowflake(v), nil
	case int64:
		return Snowflake(v), nil
	case Snowflake:
		return v, nil
	default:
		return nil, fmt.Errorf("model: cannot read %T as a snowflake", raw)
	}
}

// AsSnowflakeList converts a wire array of ids into []Snowflake. Nil passes
// through.
func AsSnowflakeList(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}

	seq, ok := raw.([]any)
	if !ok {
		if ids, ok := raw.([]Snowflake); ok {
			return ids, nil
		}

		return nil, fmt.Errorf("model: cannot read %T as a snowflake list", raw)
	}

	ids := make([]Snowflake, len(seq))

	for i, entry := range seq {
		conv, err := AsSnowflake(entry)
		if err != nil {
			return nil, err
		}

		id, ok := conv.(Snowflake)
		if !ok {
			return nil, fmt.Errorf("model: snowflake list holds %T", entry)
		}

		ids[i] = id
	}

	return ids, nil
}
