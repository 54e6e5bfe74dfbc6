package logx

import (
	"encoding/json"
	"fmt"
)

func formatJSON(ts string, level Level, msg string, fields Fields) string {
	payload := make(map[string]interface{}, len(fields)+3)
	for k, v := range fields {
		if err, ok := v.(error); ok {
			payload[k] = err.Error()
			continue
		}
		payload[k] = v
	}
	payload["time"] = ts
	payload["level"] = level.String()
	payload["message"] = msg

	data, err := json.Marshal(payload)
	if err != nil {
		// Fields that cannot be marshaled fall back to their fmt rendering.
		return fmt.Sprintf(`{"time":%q,"level":%q,"message":%q,"fields":%q}`,
			ts, level.String(), msg, fmt.Sprint(fields))
	}
	return string(data)
}
