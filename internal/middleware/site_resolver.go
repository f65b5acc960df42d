package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/chroniclecms/chronicle/internal/constants"
	apperrors "github.com/chroniclecms/chronicle/internal/errors"
	"github.com/chroniclecms/chronicle/internal/model"
	"github.com/chroniclecms/chronicle/pkg/cache"
	ctxutil "github.com/chroniclecms/chronicle/pkg/context"
	"github.com/chroniclecms/chronicle/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// siteMemoTTL bounds how stale a hostname-to-site mapping may get.
// Site records change on the order of deploys, not requests.
const siteMemoTTL = 1 * time.Minute

// SiteStore is the site lookup the resolver needs.
type SiteStore interface {
	FindByHostname(ctx context.Context, hostname string, port int) (*model.Site, error)
	DefaultSite(ctx context.Context) (*model.Site, error)
}

// SiteResolverMiddleware attaches the site matching the request host
// to every public API request. Without a matching or default site the
// public API cannot answer anything and responds 503.
type SiteResolverMiddleware struct {
	sites SiteStore
	memo  *cache.Cache
}

func NewSiteResolverMiddleware(sites SiteStore) *SiteResolverMiddleware {
	return &SiteResolverMiddleware{
		sites: sites,
		memo:  cache.NewCache(),
	}
}

// Resolve finds the site for the request host and stores it in both
// the gin context and the request context.
func (m *SiteResolverMiddleware) Resolve() gin.HandlerFunc {
	return func(c *gin.Context) {
		hostname, port := splitRequestHost(c.Request)

		site, err := m.lookup(c.Request.Context(), hostname, port)
		if err != nil {
			logger.GetLogger().Error("Middleware: No site for request host",
				zap.String("hostname", hostname),
				zap.Int("port", port),
				zap.Error(err),
			)
			c.JSON(http.StatusServiceUnavailable,
				constants.BuildErrorResponse(constants.MsgServiceUnavailable, "no site configured for this host"))
			c.Abort()
			return
		}

		c.Set(constants.GinKeySite, site)

		ctx := ctxutil.WithSiteID(c.Request.Context(), site.ID)
		ctx = ctxutil.WithValue(ctx, ctxutil.HostnameKey, hostname)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func (m *SiteResolverMiddleware) lookup(ctx context.Context, hostname string, port int) (*model.Site, error) {
	memoKey := hostname + ":" + strconv.Itoa(port)
	if cached, ok := m.memo.Get(memoKey); ok {
		return cached.(*model.Site), nil
	}

	site, err := m.sites.FindByHostname(ctx, hostname, port)
	if errors.Is(err, apperrors.ErrSiteNotFound) {
		// Unknown hosts fall back to the default site.
		site, err = m.sites.DefaultSite(ctx)
	}
	if err != nil {
		return nil, err
	}

	m.memo.Set(memoKey, site, siteMemoTTL)
	return site, nil
}

// SiteFromContext returns the site the resolver attached, if any.
func SiteFromContext(c *gin.Context) *model.Site {
	if raw, exists := c.Get(constants.GinKeySite); exists {
		if site, ok := raw.(*model.Site); ok {
			return site
		}
	}
	return nil
}

// splitRequestHost extracts hostname and port from the request. A
// missing port means the scheme default.
func splitRequestHost(r *http.Request) (string, int) {
	host, portStr, err := net.SplitHostPort(r.Host)
	if err != nil {
		host = r.Host
		if r.TLS != nil {
			return host, 443
		}
		return host, 80
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = 80
	}
	return host, port
}
