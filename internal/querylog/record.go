package querylog

import "time"

// QueryRecord is one generated statement with its bound parameters and the
// UTC instant it was generated at. Records are never edited once written.
type QueryRecord struct {
	SQL        string     `json:"sql"`
	Parameters Parameters `json:"parameters"`
	Timestamp  time.Time  `json:"timestamp"`
}

// Equal compares two records field by field.
func (r QueryRecord) Equal(o QueryRecord) bool {
	if r.SQL != o.SQL || !r.Timestamp.Equal(o.Timestamp) {
		return false
	}
	if len(r.nonNull()) != len(o.nonNull()) {
		return false
	}
	for k, v := range r.nonNull() {
		ov, ok := o.Parameters[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

func (r QueryRecord) nonNull() Parameters {
	out := make(Parameters, len(r.Parameters))
	for k, v := range r.Parameters {
		if !v.IsNull() {
			out[k] = v
		}
	}
	return out
}
