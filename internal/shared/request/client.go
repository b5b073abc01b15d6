package request

import "strings"

type ClientType string

const (
	ClientWeb     ClientType = "web"
	ClientMobile  ClientType = "mobile"
	ClientService ClientType = "service"
)

// ResolveClientType menentukan jenis client dari header eksplisit, fallback
// ke heuristik user agent.
func ResolveClientType(headerValue, userAgent string) ClientType {
	switch strings.ToLower(strings.TrimSpace(headerValue)) {
	case "web":
		return ClientWeb
	case "mobile":
		return ClientMobile
	case "service":
		return ClientService
	}

	ua := strings.ToLower(userAgent)
	if strings.Contains(ua, "mozilla") || strings.Contains(ua, "chrome") || strings.Contains(ua, "safari") {
		return ClientWeb
	}
	return ClientService
}

// IsWebClient menentukan apakah token dikirim via cookie HttpOnly.
func IsWebClient(t ClientType) bool {
	return t == ClientWeb
}
