package middleware

import (
	"net/http"
	"net/netip"
	"strings"

	"github.com/bizledger/backend/internal/infrastructure/config"
	"github.com/bizledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ipAllowlist matches client addresses against single IPs and CIDR ranges.
// An empty list allows everyone.
type ipAllowlist struct {
	prefixes []netip.Prefix
}

func newIPAllowlist(entries []string) ipAllowlist {
	var list ipAllowlist
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			if p, err := netip.ParsePrefix(entry); err == nil {
				list.prefixes = append(list.prefixes, p.Masked())
			}
			continue
		}
		if addr, err := netip.ParseAddr(entry); err == nil {
			list.prefixes = append(list.prefixes, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
		}
	}
	return list
}

func (l ipAllowlist) empty() bool {
	return len(l.prefixes) == 0
}

func (l ipAllowlist) allows(raw string) bool {
	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range l.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// SwaggerProtection guards the API docs. Disabled docs answer 404, the
// allowlist answers 403, and RequireAuth runs the JWT middleware first.
func SwaggerProtection(cfg config.SwaggerConfig, jwtMiddleware gin.HandlerFunc) gin.HandlerFunc {
	allowlist := newIPAllowlist(cfg.AllowedIPs)

	return func(c *gin.Context) {
		if !cfg.Enabled {
			abortWithError(c, http.StatusNotFound, dto.ErrCodeNotFound, "API documentation is not available")
			return
		}
		if !allowlist.empty() && !allowlist.allows(c.ClientIP()) {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Access to API documentation is restricted")
			return
		}
		if cfg.RequireAuth && jwtMiddleware != nil {
			jwtMiddleware(c)
			if c.IsAborted() {
				return
			}
		}
		c.Next()
	}
}
