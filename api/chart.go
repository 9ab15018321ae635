package api

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bitmark-inc/aqi-predictor/chart"
	"github.com/bitmark-inc/aqi-predictor/utils"
)

func (s *Server) chart(c *gin.Context) {
	p, ok := lastPrediction(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	title := utils.Localize(localizer(c), "chart.title", "Pollutant levels")
	if err := chart.RenderReading(&buf, *p, title); shouldInterupt(err, c) {
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
