// Package common holds small helpers and constants shared by the DocAssist
// client, its fake backend and the command line tools.
package common

// AuthorizationHeader carries the bearer access token on API requests.
const AuthorizationHeader = "Authorization"

// BearerPrefix precedes the access token in AuthorizationHeader.
const BearerPrefix = "Bearer "

// ExtractBearer returns the token from an Authorization header value, or ""
// when the value is not a bearer credential.
func ExtractBearer(header string) string {
	if len(header) <= len(BearerPrefix) || header[:len(BearerPrefix)] != BearerPrefix {
		return ""
	}
	return header[len(BearerPrefix):]
}
