package middleware

import "net/url"

// redactToken hides the websocket ?token= value from logs
func redactToken(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}
	values, err := url.ParseQuery(rawQuery)
	if err != nil || values.Get("token") == "" {
		return rawQuery
	}
	values.Set("token", "REDACTED")
	return values.Encode()
}
