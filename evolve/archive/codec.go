package archive

import (
	"encoding/json"
	"errors"
)

// Versions written by EncodeRecord and required by DecodeRecord.
const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

// ErrVersionMismatch is returned when a stored record was written by another schema or codec version.
var ErrVersionMismatch = errors.New("record version mismatch")

// EncodeRecord renders r as indented JSON.
func EncodeRecord(r Record) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// DecodeRecord parses a record and checks its versions.
func DecodeRecord(data []byte) (Record, error) {
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return Record{}, err
	}
	if record.SchemaVersion != CurrentSchemaVersion || record.CodecVersion != CurrentCodecVersion {
		return Record{}, ErrVersionMismatch
	}
	return record, nil
}
