package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bitmark-inc/aqi-predictor/report"
	"github.com/bitmark-inc/aqi-predictor/schema"
)

const maxQRSize = 1024

// lastPrediction aborts the request when the session has nothing to export
func lastPrediction(c *gin.Context) (*schema.Prediction, bool) {
	session, ok := currentSession(c)
	if !ok {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer)
		return nil, false
	}

	if session.Last == nil {
		abortWithEncoding(c, http.StatusNotFound, errorNoPrediction)
		return nil, false
	}
	return session.Last, true
}

func (s *Server) downloadReport(c *gin.Context) {
	format, err := report.ParseFormat(c.Query("format"))
	if err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorUnknownReportType, err)
		return
	}

	p, ok := lastPrediction(c)
	if !ok {
		return
	}

	b, err := report.Bytes(schema.NewReport(*p), format)
	if shouldInterupt(err, c) {
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, report.Filename(format)))
	c.Data(http.StatusOK, report.ContentType(format), b)
}

func (s *Server) reportQRCode(c *gin.Context) {
	size := report.DefaultQRSize
	if v := c.Query("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxQRSize {
			abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, fmt.Errorf("invalid qr size %q", v))
			return
		}
		size = n
	}

	p, ok := lastPrediction(c)
	if !ok {
		return
	}

	png, err := report.QRCode(schema.NewReport(*p), size)
	if shouldInterupt(err, c) {
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
