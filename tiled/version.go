package tiled

import (
	"bytes"
	"strconv"

	"github.com/goccy/go-json"
)

// decodeVersion turns the map's version number into its decimal string.
// Tiled 1.2 and later write the version as a string, which is kept as is.
func decodeVersion(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if isAbsent(raw) {
		return "", parseErrorf("missing version")
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", parseError(err, "version")
		}
		return s, nil
	}

	lit, err := numberLiteral(raw)
	if err != nil {
		return "", parseError(err, "version")
	}
	if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return "", parseError(err, "version")
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}
