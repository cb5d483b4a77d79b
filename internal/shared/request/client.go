package request

import "strings"

type ClientType string

const (
	ClientWeb    ClientType = "WEB"
	ClientMobile ClientType = "MOBILE"
	ClientKiosk  ClientType = "KIOSK"
)

// ResolveClientType prefers the explicit X-Client-Type header and falls back to the user agent.
func ResolveClientType(header, userAgent string) ClientType {
	switch ClientType(strings.ToUpper(strings.TrimSpace(header))) {
	case ClientWeb:
		return ClientWeb
	case ClientMobile:
		return ClientMobile
	case ClientKiosk:
		return ClientKiosk
	}

	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "okhttp"), strings.Contains(ua, "cfnetwork"), strings.Contains(ua, "dart"):
		return ClientMobile
	case strings.Contains(ua, "mozilla"):
		return ClientWeb
	default:
		return ClientMobile
	}
}

// IsWebClient reports whether tokens should travel as cookies.
func IsWebClient(t ClientType) bool {
	return t == ClientWeb
}
