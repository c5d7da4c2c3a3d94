package request

import "strings"

const (
	ClientTypeWeb    = "web"
	ClientTypeMobile = "mobile"
	ClientTypeAPI    = "api"
)

// ResolveClientType menentukan jenis client: header eksplisit menang,
// sisanya ditebak dari User-Agent.
func ResolveClientType(clientHeader, userAgent string) string {
	switch strings.ToLower(strings.TrimSpace(clientHeader)) {
	case ClientTypeWeb:
		return ClientTypeWeb
	case ClientTypeMobile:
		return ClientTypeMobile
	case ClientTypeAPI:
		return ClientTypeAPI
	}

	if strings.Contains(strings.ToLower(userAgent), "mozilla") {
		return ClientTypeWeb
	}
	return ClientTypeAPI
}

func IsWebClient(clientType string) bool {
	return clientType == ClientTypeWeb
}
