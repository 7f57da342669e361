package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skyline-proger/stock-data-pipeline/store"
)

type QueryParams struct {
	Ticker string `form:"ticker" binding:"required"`
	Start  string `form:"start"`
	End    string `form:"end"`
}

// Handler serves range summaries over the stored bars.
type Handler struct {
	store *store.Store
}

func NewHandler(st *store.Store) *Handler {
	return &Handler{store: st}
}

// GetSummary handles GET /api/stocks/summary?ticker=&start=&end=.
// Missing dates default to the trailing 30 days.
func (h *Handler) GetSummary(c *gin.Context) {
	var params QueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	end := time.Now().UTC()
	if params.End != "" {
		var err error
		end, err = time.Parse("2006-01-02", params.End)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end date. Use YYYY-MM-DD"})
			return
		}
	}
	start := end.AddDate(0, 0, -30)
	if params.Start != "" {
		var err error
		start, err = time.Parse("2006-01-02", params.Start)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start date. Use YYYY-MM-DD"})
			return
		}
	}

	summary, err := h.store.Summarize(params.Ticker, start, end)
	if errors.Is(err, store.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data for ticker in range"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// SetupRoutes builds the gin engine with all routes attached.
func SetupRoutes(st *store.Store) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := NewHandler(st)
	r.GET("/api/stocks/summary", h.GetSummary)

	return r
}
