package handler

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"rssagg/backend/internal/snowflake"
)

// sourceID is a feed source id as sent by clients: a JSON number, a JSON string
// or a form value. Values are read like PHP's absint, so "12abc" is 12, "-5"
// is 5 and anything without leading digits is 0.
type sourceID int64

func (s *sourceID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}
	*s = sourceID(absint(raw))
	return nil
}

// UnmarshalParam implements echo.BindUnmarshaler for form and query values.
func (s *sourceID) UnmarshalParam(param string) error {
	*s = sourceID(absint(param))
	return nil
}

func absint(raw string) int64 {
	raw = strings.TrimSpace(raw)
	if raw != "" && (raw[0] == '-' || raw[0] == '+') {
		raw = raw[1:]
	}
	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	value, err := strconv.ParseInt(raw[:end], 10, 64)
	if err != nil {
		return 0
	}
	return value
}

func idToString(id int64) string {
	return snowflake.Format(id)
}

func idPtrToString(id *int64) *string {
	if id == nil {
		return nil
	}
	s := idToString(*id)
	return &s
}

func parseOptionalInt(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return value, true
}
