package httpinterface

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nftswap-network/swapd/internal/core/ports"
)

// GET /v1/operator/info
func (s *Server) getInfo(c *gin.Context) {
	info, err := s.opts.OperatorService.GetInfo(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// PUT /v1/operator/trading-live
func (s *Server) updateTradingLive(c *gin.Context) {
	var req struct {
		Live *bool `json:"live" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.opts.OperatorService.UpdateTradingLive(
		c.Request.Context(), *req.Live,
	); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trading_live": *req.Live})
}

// POST /v1/operator/webhooks
func (s *Server) addWebhook(c *gin.Context) {
	var req struct {
		Topic    string `json:"topic" binding:"required"`
		Endpoint string `json:"endpoint" binding:"required"`
		Secret   string `json:"secret"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := s.opts.OperatorService.AddWebhook(
		c.Request.Context(), req.Topic, req.Endpoint, req.Secret,
	)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// GET /v1/operator/webhooks
func (s *Server) listWebhooks(c *gin.Context) {
	topic := c.DefaultQuery("topic", ports.AnyTopic)

	hooks, err := s.opts.OperatorService.ListWebhooks(c.Request.Context(), topic)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"webhooks": hooks})
}

// DELETE /v1/operator/webhooks/:id
func (s *Server) removeWebhook(c *gin.Context) {
	if err := s.opts.OperatorService.RemoveWebhook(
		c.Request.Context(), c.Param("id"),
	); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}
