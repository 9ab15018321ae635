package api

import (
	"github.com/bitmark-inc/aqi-predictor/report"
	"github.com/bitmark-inc/aqi-predictor/store"
)

var (
	errorMessageMap = map[int64]string{
		999: "internal server error",

		1010: "invalid parameters",
		1011: "cannot parse request",

		1100: "prediction failed",
		1101: store.ErrSessionNotFound.Error(),
		1102: "no prediction in this session",
		1103: report.ErrUnknownFormat.Error(),

		1200: "station lookup is not configured",
		1201: "station lookup failed",
	}

	errorInternalServer = errorJSON(999)

	errorInvalidParameters  = errorJSON(1010)
	errorCannotParseRequest = errorJSON(1011)

	errorPrediction        = errorJSON(1100)
	errorSessionNotFound   = errorJSON(1101)
	errorNoPrediction      = errorJSON(1102)
	errorUnknownReportType = errorJSON(1103)

	errorStationNotConfigured = errorJSON(1200)
	errorStationLookup        = errorJSON(1201)
)

type ErrorResponse struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
}

// errorJSON converts an error code to a standardized error object
func errorJSON(code int64) ErrorResponse {
	var message string
	if msg, ok := errorMessageMap[code]; ok {
		message = msg
	} else {
		message = "unknown"
	}

	return ErrorResponse{
		Code:    code,
		Message: message,
	}
}
