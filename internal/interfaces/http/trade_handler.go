package httpinterface

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/holiman/uint256"

	"github.com/nftswap-network/swapd/internal/core/application"
	"github.com/nftswap-network/swapd/internal/core/domain"
)

const partyHeader = "X-Party-ID"

type openTradeRequest struct {
	AssetACollection string `json:"asset_a_collection" binding:"required"`
	AssetBCollection string `json:"asset_b_collection" binding:"required"`
	AssetAId         string `json:"asset_a_id" binding:"required"`
	AssetBId         string `json:"asset_b_id" binding:"required"`
	IsPrivate        bool   `json:"is_private"`
	Expiration       int64  `json:"expiration"`
}

// POST /v1/trades
func (s *Server) openTrade(c *gin.Context) {
	var req openTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assetAId, err := parseAssetId(req.AssetAId)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	assetBId, err := parseAssetId(req.AssetBId)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := s.opts.TradeService.OpenTrade(
		c.Request.Context(), c.GetHeader(partyHeader),
		application.OpenTradeArgs{
			AssetACollection: req.AssetACollection,
			AssetBCollection: req.AssetBCollection,
			AssetAId:         assetAId,
			AssetBId:         assetBId,
			IsPrivate:        req.IsPrivate,
			Expiration:       req.Expiration,
		},
	)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id.String()})
}

// GET /v1/trades/:id
func (s *Server) getTrade(c *gin.Context) {
	id, err := domain.RequestIDFromString(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := s.opts.TradeService.GetTradeRequest(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, application.NewTradeRequestInfo(request))
}

// GET /v1/trades
func (s *Server) listTrades(c *gin.Context) {
	requests, err := s.opts.TradeService.ListTradeRequests(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}

	infos := make([]application.TradeRequestInfo, 0, len(requests))
	for i := range requests {
		infos = append(infos, application.NewTradeRequestInfo(&requests[i]))
	}
	c.JSON(http.StatusOK, gin.H{"trades": infos})
}

// POST /v1/trades/:id/close
func (s *Server) closeTrade(c *gin.Context) {
	id, err := domain.RequestIDFromString(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.opts.TradeService.CloseTrade(
		c.Request.Context(), c.GetHeader(partyHeader), id,
	); err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "closed"})
}

// POST /v1/trades/:id/match
func (s *Server) matchTrade(c *gin.Context) {
	id, err := domain.RequestIDFromString(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.opts.TradeService.MatchTrade(
		c.Request.Context(), c.GetHeader(partyHeader), id,
	); err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "matched"})
}

func parseAssetId(s string) (*uint256.Int, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return uint256.FromHex(s)
	}
	return uint256.FromDecimal(s)
}
