package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, s.mgr.Health())
}

// handleCoins serves the market snapshot. limit trims the response after the
// cache call; refresh=true forces a refresh past the TTL. The 502 is the one
// failure status in the API: nothing cached and upstream down.
func (s *Server) handleCoins(c *gin.Context) {
	force := c.Query("refresh") == "true"

	snap, err := s.mgr.Snapshot(force)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	rows := snap.Rows
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) handleCompare(c *gin.Context) {
	coin1, coin2, ok := pairParams(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.mgr.Comparison(coin1, coin2))
}

func (s *Server) handleHistory(c *gin.Context) {
	id := strings.ToLower(strings.TrimSpace(c.Param("id")))

	h := s.mgr.History(id)
	if h == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data for " + id})
		return
	}
	c.JSON(http.StatusOK, h)
}

func (s *Server) handleReport(c *gin.Context) {
	coin1, coin2, ok := pairParams(c)
	if !ok {
		return
	}

	res := s.mgr.Comparison(coin1, coin2)
	c.JSON(http.StatusOK, ReportResponse{
		Rows:    flattenPair(res),
		Warning: res.Warning,
	})
}

func (s *Server) handleDebugCache(c *gin.Context) {
	resp := gin.H{"cache": s.mgr.Stats()}
	if s.queue != nil {
		resp["queue"] = s.queue.Stats()
	}
	c.JSON(http.StatusOK, resp)
}

// pairParams reads and normalizes coin1/coin2, writing the 400 itself when
// they are missing or identical.
func pairParams(c *gin.Context) (string, string, bool) {
	coin1 := strings.ToLower(strings.TrimSpace(c.Query("coin1")))
	coin2 := strings.ToLower(strings.TrimSpace(c.Query("coin2")))

	if coin1 == "" || coin2 == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coin1 and coin2 are required"})
		return "", "", false
	}
	if coin1 == coin2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coin1 and coin2 must differ"})
		return "", "", false
	}
	return coin1, coin2, true
}
