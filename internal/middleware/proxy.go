package middleware

import (
	"log/slog"
	"net"

	"github.com/labstack/echo/v4"
)

// TrustedProxies makes c.RealIP() read X-Forwarded-For only when the direct
// peer is inside one of trustedCIDRs. The rate limiter keys on RealIP, so an
// untrusted peer must not be able to pick its own identity.
func TrustedProxies(e *echo.Echo, trustedCIDRs []string) {
	opts := []echo.TrustOption{
		// Only the listed ranges are trusted; disable echo's defaults.
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range trustedCIDRs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			slog.Warn("ignoring invalid trusted proxy CIDR", slog.String("cidr", cidr))
			continue
		}
		opts = append(opts, echo.TrustIPRange(network))
	}
	e.IPExtractor = echo.ExtractIPFromXFFHeader(opts...)
}
