package licensesdk

import (
	"encoding/json"
	"strconv"
)

// Result is the normalized outcome of one call. OK is true only for a 2xx
// response with a JSON object body. StatusCode is 0 when no response
// arrived. Data holds the decoded body whenever one could be parsed,
// including for rejections.
type Result struct {
	OK         bool
	StatusCode int
	Data       map[string]any
	Error      string
}

// Status returns the status label carried by the body: the "status" field,
// or for rejections the "error" field.
func (r Result) Status() string {
	if s, ok := r.Data["status"].(string); ok {
		return s
	}
	if !r.OK {
		if s, ok := r.Data["error"].(string); ok {
			return s
		}
	}
	return ""
}

// Expires returns the "expires" field, or 0.
func (r Result) Expires() int64 {
	return r.int64Field("expires")
}

// Authoritative reports whether the authority itself answered, as opposed to
// a transport failure or a server fault.
func (r Result) Authoritative() bool {
	return r.StatusCode >= 200 && r.StatusCode < 500 && r.Data != nil
}

// String returns a string field of the body.
func (r Result) String(field string) string {
	s, _ := r.Data[field].(string)
	return s
}

func (r Result) int64Field(field string) int64 {
	switch v := r.Data[field].(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			f, _ := v.Float64()
			return int64(f)
		}
		return n
	case int64:
		return v
	case float64:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	}
	return 0
}

func localResult(data map[string]any) Result {
	return Result{OK: true, StatusCode: 200, Data: data}
}
