package cors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	allowHeaders  = "Authorization, Content-Type, X-Request-ID"
	allowMethods  = "GET, POST, PUT, DELETE, OPTIONS"
	exposeHeaders = "Content-Disposition, X-Request-ID"
	maxAgeSeconds = "600"
)

// New answers preflight requests and decorates responses for the admin front-end. An empty
// allow list admits every origin. Entries may use a leading "*." to admit any subdomain.
func New(allowedOrigins []string) gin.HandlerFunc {
	policy := newPolicy(allowedOrigins)

	return func(c *gin.Context) {
		header := c.Writer.Header()
		header.Add("Vary", "Origin")

		origin := c.GetHeader("Origin")
		switch {
		case origin != "" && policy.allows(origin):
			header.Set("Access-Control-Allow-Origin", origin)
			header.Set("Access-Control-Allow-Credentials", "true")
		case origin == "" && policy.any:
			header.Set("Access-Control-Allow-Origin", "*")
		}
		header.Set("Access-Control-Expose-Headers", exposeHeaders)

		if c.Request.Method == http.MethodOptions {
			header.Set("Access-Control-Allow-Headers", allowHeaders)
			header.Set("Access-Control-Allow-Methods", allowMethods)
			header.Set("Access-Control-Max-Age", maxAgeSeconds)
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

type policy struct {
	any      bool
	exact    map[string]struct{}
	suffixes []string
}

func newPolicy(origins []string) policy {
	p := policy{any: len(origins) == 0, exact: map[string]struct{}{}}
	for _, origin := range origins {
		origin = strings.ToLower(strings.TrimRight(strings.TrimSpace(origin), "/"))
		switch {
		case origin == "*":
			p.any = true
		case strings.Contains(origin, "://*."):
			p.suffixes = append(p.suffixes, origin[strings.Index(origin, "*.")+1:])
		case origin != "":
			p.exact[origin] = struct{}{}
		}
	}
	return p
}

func (p policy) allows(origin string) bool {
	if p.any {
		return true
	}
	origin = strings.ToLower(strings.TrimRight(origin, "/"))
	if _, ok := p.exact[origin]; ok {
		return true
	}
	for _, suffix := range p.suffixes {
		if strings.HasSuffix(origin, suffix) {
			return true
		}
	}
	return false
}
