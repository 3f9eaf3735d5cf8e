package httpinterface

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/nftswap-network/swapd/internal/core/application"
	"github.com/nftswap-network/swapd/internal/core/domain"
)

// ServerOpts groups the dependencies and knobs of the HTTP interface.
type ServerOpts struct {
	TradeService    application.TradeService
	OperatorService application.OperatorService
	// OperatorAPIKey gates the operator endpoints. Empty only if NoAuth.
	OperatorAPIKey string
	NoAuth         bool
	EnableProfiler bool
}

// Server is the HTTP interface of the daemon. The caller identity is taken
// from the X-Party-ID header: authenticating it is delegated to the fronting
// proxy, the same way the admin layer is an external collaborator.
type Server struct {
	router *gin.Engine
	opts   ServerOpts
}

func NewServer(opts ServerOpts) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(), metricsMiddleware())

	s := &Server{router: router, opts: opts}

	v1 := router.Group("/v1")
	v1.POST("/trades", s.openTrade)
	v1.GET("/trades", s.listTrades)
	v1.GET("/trades/:id", s.getTrade)
	v1.POST("/trades/:id/close", s.closeTrade)
	v1.POST("/trades/:id/match", s.matchTrade)

	operator := v1.Group("/operator", s.operatorAuth())
	operator.GET("/info", s.getInfo)
	operator.PUT("/trading-live", s.updateTradingLive)
	operator.POST("/webhooks", s.addWebhook)
	operator.GET("/webhooks", s.listWebhooks)
	operator.DELETE("/webhooks/:id", s.removeWebhook)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if opts.EnableProfiler {
		router.GET("/debug/pprof/*profile", gin.WrapF(pprof.Index))
	}

	return s
}

// Serve blocks serving the API on the given address until the listener
// fails or the given context is canceled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down http interface")
		return srv.Shutdown(context.Background())
	}
}

// Router exposes the underlying handler, used by tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) operatorAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.opts.NoAuth {
			c.Next()
			return
		}
		if c.GetHeader("X-Api-Key") != s.opts.OperatorAPIKey {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized, gin.H{"error": "invalid api key"},
			)
			return
		}
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"status": c.Writer.Status(),
		}).Debug("http request handled")
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrRequestNotFound),
		errors.Is(err, domain.ErrUnknownAsset):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotOwner),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrNotAuthorizedMatcher):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrRequestNotOpen),
		errors.Is(err, domain.ErrDuplicateRequest),
		errors.Is(err, domain.ErrRequestExpired),
		errors.Is(err, domain.ErrTransferRejected):
		return http.StatusConflict
	case errors.Is(err, domain.ErrTradingPaused):
		return http.StatusServiceUnavailable
	case errors.Is(err, application.ErrMissingCaller),
		errors.Is(err, application.ErrMissingCollection),
		errors.Is(err, application.ErrMissingAssetId),
		errors.Is(err, application.ErrInvalidExpiration),
		errors.Is(err, application.ErrInvalidTopic):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
