package middleware

import (
	"strings"

	"github.com/rinov1/WorkWave/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
)

const (
	ContextDeviceID = "device_id"
	DefaultDeviceID = "default"
	maxDeviceIDLen  = 128
)

// ExtractDeviceID reads X-Device-ID so membership flags are cached per device.
func ExtractDeviceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := strings.TrimSpace(c.GetHeader("X-Device-ID"))
		if deviceID == "" {
			deviceID = DefaultDeviceID
		}
		if len(deviceID) > maxDeviceIDLen {
			deviceID = deviceID[:maxDeviceIDLen]
		}

		c.Set(ContextDeviceID, deviceID)
		c.Request = c.Request.WithContext(contextutil.WithDeviceID(c.Request.Context(), deviceID))
		c.Next()
	}
}

func DeviceID(c *gin.Context) string {
	if d := c.GetString(ContextDeviceID); d != "" {
		return d
	}
	return DefaultDeviceID
}
