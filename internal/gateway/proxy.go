package gateway

import (
	"net/http"
	"net/http/httputil"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-campus/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-campus/pkg/response"
)

// Proxy forwards /<upstream>/* to the upstream with the prefix stripped.
type Proxy struct {
	table   *Table
	proxies map[string]*httputil.ReverseProxy
	metrics *Metrics
	logger  *logrus.Logger
}

func NewProxy(upstreams []Upstream, transport http.RoundTripper, metrics *Metrics, logger *logrus.Logger) *Proxy {
	p := &Proxy{
		table:   NewTable(upstreams),
		proxies: make(map[string]*httputil.ReverseProxy, len(upstreams)),
		metrics: metrics,
		logger:  logger,
	}
	for _, u := range upstreams {
		p.proxies[u.Name] = p.reverseProxy(u, transport)
	}
	return p
}

func (p *Proxy) reverseProxy(u Upstream, transport http.RoundTripper) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			_, rest, _ := p.table.Match(pr.In.URL.Path)
			pr.Out.URL.Path = rest
			pr.Out.URL.RawPath = ""
			pr.SetURL(u.Target)
			pr.SetXForwarded()
		},
		Transport: transport,
		// the gateway's middleware already set the response id
		ModifyResponse: func(resp *http.Response) error {
			resp.Header.Del(middleware.RequestIDHeader)
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			if p.logger != nil {
				p.logger.WithError(err).WithFields(logrus.Fields{"upstream": u.Name, "path": r.URL.Path}).Warn("proxy request failed")
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"statusCode":502,"message":"upstream unavailable","success":false}`))
		},
	}
}

// Handle is mounted as the engine's NoRoute handler.
func (p *Proxy) Handle(c *gin.Context) {
	u, _, ok := p.table.Match(c.Request.URL.Path)
	if !ok {
		response.Error[any](c, http.StatusNotFound, "no upstream for path", nil)
		return
	}
	start := time.Now()
	p.proxies[u.Name].ServeHTTP(c.Writer, c.Request)
	if p.metrics != nil {
		p.metrics.ObserveProxy(u.Name, c.Writer.Status(), time.Since(start))
	}
}
