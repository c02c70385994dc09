package domain

import (
	"encoding/json"
	"strconv"
)

// Sentinels rendered in place of missing values.
const (
	NoData  = "no data"
	Unknown = "unknown"
)

// Metric is an optional float. A zero Metric is invalid.
type Metric struct {
	Value float64
	Valid bool
}

func NewMetric(v float64) Metric {
	return Metric{Value: v, Valid: true}
}

// Mean returns the arithmetic mean of values, invalid when empty.
func Mean(values []float64) Metric {
	if len(values) == 0 {
		return Metric{}
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return NewMetric(sum / float64(len(values)))
}

// Percent returns part/whole*100, invalid when whole is zero.
func Percent(part, whole int) Metric {
	if whole == 0 {
		return Metric{}
	}
	return NewMetric(float64(part) / float64(whole) * 100)
}

func (m Metric) String() string {
	if !m.Valid {
		return NoData
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}

func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

func (m *Metric) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*m = Metric{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*m = NewMetric(v)
	return nil
}
