package pkg

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetClientIP keys rate limiting and request logs. The first well-formed
// forwarded address wins.
func GetClientIP(c *gin.Context) string {
	for _, header := range []string{"X-Forwarded-For", "X-Real-IP"} {
		value := c.GetHeader(header)

		if value == "" {
			continue
		}

		candidate := strings.TrimSpace(strings.Split(value, ",")[0])

		if net.ParseIP(candidate) != nil {
			return candidate
		}
	}

	if ip := c.ClientIP(); ip != "" {
		return ip
	}

	return "unknown"
}
