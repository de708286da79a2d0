package middleware

import (
	"crypto/subtle"
	"net/http"

	"tutor-portal/pkg/response"
)

const DeviceKeyHeader = "X-Device-Key"

// DeviceKeyMiddleware guards ingestion endpoints used by the companion app.
type DeviceKeyMiddleware struct {
	apiKey []byte
}

// NewDeviceKeyMiddleware returns a middleware that lets everything through when apiKey is empty.
func NewDeviceKeyMiddleware(apiKey string) *DeviceKeyMiddleware {
	return &DeviceKeyMiddleware{apiKey: []byte(apiKey)}
}

func (m *DeviceKeyMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(m.apiKey) > 0 {
			provided := []byte(r.Header.Get(DeviceKeyHeader))
			if subtle.ConstantTimeCompare(provided, m.apiKey) != 1 {
				response.Unauthorized(w, "Chave do dispositivo inválida")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
