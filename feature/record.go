package feature

import (
	"bytes"
	"encoding/json"
	"maps"
)

// Record is a single student as received from a caller.
type Record struct {
	ID     any
	Fields map[string]any
}

// NewRecord builds a Record from a flat map, lifting user_id into ID.
func NewRecord(m map[string]any) Record {
	fields := make(map[string]any, len(m))
	maps.Copy(fields, m)

	id := fields[FieldUserID]
	delete(fields, FieldUserID)

	return Record{ID: id, Fields: fields}
}

// Get returns the raw value of a field, or nil if absent.
func (r Record) Get(name string) any {
	if r.Fields == nil {
		return nil
	}
	return r.Fields[name]
}

// UserID returns the record identifier coerced to an int.
func (r Record) UserID() int {
	return ID(r.ID)
}

// MarshalJSON encodes the record as a flat object with user_id.
func (r Record) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(r.Fields)+1)
	maps.Copy(m, r.Fields)
	if r.ID != nil {
		m[FieldUserID] = r.ID
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes a flat object. Numbers are kept as json.Number
// so integer identifiers survive without float rounding.
func (r *Record) UnmarshalJSON(data []byte) error {
	var m map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil {
		return err
	}
	*r = NewRecord(m)
	return nil
}
