package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ParseTrustedProxies converts IP addresses and CIDR ranges to networks.
// A single IP becomes a /32 or /128 block. Unparseable entries are returned
// separately so the caller can warn about them.
func ParseTrustedProxies(proxies []string) (nets []*net.IPNet, invalid []string) {
	for _, proxy := range proxies {
		proxy = strings.TrimSpace(proxy)
		if proxy == "" {
			continue
		}
		if _, ipNet, err := net.ParseCIDR(proxy); err == nil {
			nets = append(nets, ipNet)
			continue
		}
		ip := net.ParseIP(proxy)
		if ip == nil {
			invalid = append(invalid, proxy)
			continue
		}
		bits := 32
		if ip.To4() == nil {
			bits = 128
		}
		nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
	}
	return nets, invalid
}

func isTrusted(ip string, trustedNets []*net.IPNet) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	for _, ipNet := range trustedNets {
		if ipNet.Contains(parsed) {
			return true
		}
	}
	return false
}

// ClientIP returns the address of the caller. X-Forwarded-For and X-Real-IP
// are only honored when the direct peer is one of trustedNets.
func ClientIP(r *http.Request, trustedNets []*net.IPNet) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}
	if len(trustedNets) == 0 || !isTrusted(remoteIP, trustedNets) {
		return remoteIP
	}

	if xff := r.Header.Get(echo.HeaderXForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get(echo.HeaderXRealIP); xri != "" {
		return strings.TrimSpace(xri)
	}
	return remoteIP
}

// IPExtractor plugs ClientIP into echo so c.RealIP() follows the same rules.
func IPExtractor(trustedNets []*net.IPNet) echo.IPExtractor {
	return func(r *http.Request) string {
		return ClientIP(r, trustedNets)
	}
}
