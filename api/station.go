package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bitmark-inc/aqi-predictor/utils"
)

type stationQueryParams struct {
	Lat *float64 `form:"lat" binding:"required"`
	Lng *float64 `form:"lng" binding:"required"`
}

// stationAQI reports the index observed by the nearest monitoring station, so
// a prediction can be compared with a measurement.
func (s *Server) stationAQI(c *gin.Context) {
	if s.stations == nil {
		abortWithEncoding(c, http.StatusServiceUnavailable, errorStationNotConfigured)
		return
	}

	var params stationQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}
	if *params.Lat < -90 || *params.Lat > 90 || *params.Lng < -180 || *params.Lng > 180 {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, errors.New("coordinate out of range"))
		return
	}

	o, err := s.stations.Get(c.Request.Context(), *params.Lat, *params.Lng)
	if err != nil {
		abortWithEncoding(c, http.StatusBadGateway, errorStationLookup, err)
		return
	}

	level := s.scale.Categorize(float64(o.AQI))
	l := localizer(c)
	c.JSON(http.StatusOK, gin.H{
		"observation": o,
		"level":       level.Category,
		"category":    utils.Localize(l, level.LabelID, level.Label),
		"color":       level.Color,
		"advisory":    utils.Localize(l, level.AdvisoryID, level.Advisory),
	})
}
