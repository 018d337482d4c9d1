package connecthealth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Wire values of the status field.
const (
	StatusUp   = "UP"
	StatusDown = "DOWN"
)

// Verdict is the result of one evaluation.
type Verdict struct {
	Up          bool
	Diagnostics *Diagnostics
	// Category classifies the outcome; it is not part of the JSON report.
	Category StatusCategory
	// Duration is the wall time of the evaluation; not part of the JSON report.
	Duration time.Duration
}

// Status returns "UP" or "DOWN".
func (v Verdict) Status() string {
	if v.Up {
		return StatusUp
	}
	return StatusDown
}

// healthReportJSON is the MicroProfile Health representation of a Verdict.
type healthReportJSON struct {
	Status string            `json:"status"`
	Checks []healthCheckJSON `json:"checks"`
}

type healthCheckJSON struct {
	Name   string          `json:"name"`
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// MarshalJSON renders the verdict as a MicroProfile Health report:
//
//	{"status":"UP","checks":[{"name":"Kafka Connect health check","status":"UP","data":{...}}]}
//
// data keeps the diagnostic insertion order and is omitted when empty.
func (v Verdict) MarshalJSON() ([]byte, error) {
	check := healthCheckJSON{Name: CheckName, Status: v.Status()}
	if v.Diagnostics.Len() > 0 {
		data, err := v.Diagnostics.MarshalJSON()
		if err != nil {
			return nil, err
		}
		check.Data = data
	}
	return json.Marshal(healthReportJSON{
		Status: check.Status,
		Checks: []healthCheckJSON{check},
	})
}

// UnmarshalJSON parses a report produced by MarshalJSON.
func (v *Verdict) UnmarshalJSON(data []byte) error {
	var j healthReportJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	v.Up = j.Status == StatusUp
	v.Diagnostics = NewDiagnostics()
	for _, c := range j.Checks {
		if c.Name != CheckName || len(c.Data) == 0 {
			continue
		}
		if err := v.Diagnostics.UnmarshalJSON(c.Data); err != nil {
			return fmt.Errorf("check data: %w", err)
		}
	}
	return nil
}

// MarshalJSON renders the diagnostics as a JSON object in insertion order.
func (d *Diagnostics) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range d.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(d.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object of strings, keeping the document order.
func (d *Diagnostics) UnmarshalJSON(data []byte) error {
	if d.values == nil {
		d.values = make(map[string]string)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("diagnostics: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("diagnostics: expected key, got %v", tok)
		}
		var val string
		if err := dec.Decode(&val); err != nil {
			return fmt.Errorf("diagnostics: value of %q: %w", key, err)
		}
		d.Set(key, val)
	}
	_, err = dec.Token()
	return err
}
