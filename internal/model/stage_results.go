package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// StageResult is one workflow stage's raw text output. Output is free-form;
// stages aim for JSON but the orchestrator never parses it.
type StageResult struct {
	Stage  string
	Output string
}

// StageResults preserves step ordinal order when marshalled to a JSON object.
type StageResults []StageResult

func (s StageResults) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(r.Stage)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.Output)
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

func (s *StageResults) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("stage results: expected object, got %v", tok)
	}
	var out StageResults
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var val string
		if err := dec.Decode(&val); err != nil {
			return err
		}
		out = append(out, StageResult{Stage: key, Output: val})
	}
	*s = out
	return nil
}

// Get returns the output for a stage name.
func (s StageResults) Get(stage string) (string, bool) {
	for _, r := range s {
		if r.Stage == stage {
			return r.Output, true
		}
	}
	return "", false
}
