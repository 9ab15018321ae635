package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const predictionCounter = "predictions"

// predictionMetrics returns how many predictions fell in each category since
// the process started
func (s *Server) predictionMetrics(c *gin.Context) {
	name := metricsPrefix + "." + predictionCounter
	counts := map[string]int64{}
	var total int64

	for _, counter := range s.metrics.Snapshot().Counters() {
		if counter.Name() != name {
			continue
		}
		counts[counter.Tags()["category"]] += counter.Value()
		total += counter.Value()
	}

	c.JSON(http.StatusOK, gin.H{
		"total":      total,
		"categories": counts,
	})
}
