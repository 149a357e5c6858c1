package api

import (
	"github.com/gin-gonic/gin"

	"github.com/abhisek/tinysteps/internal/usage"
)

func (h *handler) usageStats(c *gin.Context) {
	stats := usage.Stats{FeatureBreakdown: map[usage.Feature]int{}}
	if h.recorder != nil {
		stats = h.recorder.Stats(tenantID(c))
	}
	RespondOK(c, gin.H{"stats": stats})
}
