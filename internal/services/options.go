package services

import (
	"bytes"
	"encoding/json"

	"gorm.io/datatypes"
)

var emptyOptionList = datatypes.JSON([]byte("[]"))

// NormalizeOptions coerces whatever the client sent for a question's options
// into a JSON list for storage:
//
//   - a JSON array is stored as-is;
//   - a JSON string is parsed and must itself be an array, otherwise [];
//   - anything else (number, object, bool, null, absent) becomes [].
//
// It never fails: a malformed options value must not abort the authoring
// transaction. The second return value reports whether the input survived
// intact, so callers can log the substitution.
func NormalizeOptions(raw json.RawMessage) (datatypes.JSON, bool) {
	if len(raw) == 0 {
		return emptyOptionList, false
	}

	if isJSONArray(raw) {
		return datatypes.JSON(raw), true
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		inner := []byte(asString)
		if isJSONArray(inner) {
			return datatypes.JSON(inner), true
		}
	}

	return emptyOptionList, false
}

// isJSONArray reports whether data is a syntactically valid JSON array.
func isJSONArray(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return false
	}

	var list []json.RawMessage
	return json.Unmarshal(trimmed, &list) == nil
}
