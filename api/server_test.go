package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/aqi-predictor/api/mocks"
	"github.com/bitmark-inc/aqi-predictor/score"
)

func newMockServer(ctl *gomock.Controller) (*Server, *mocks.MockSessionStore, *mocks.MockRegressor) {
	sessions := mocks.NewMockSessionStore(ctl)
	regressor := mocks.NewMockRegressor(ctl)
	return NewServer(sessions, regressor, score.StandardScale, nil), sessions, regressor
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	var e ErrorResponse
	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &e), "wrong json unmarshal")
	return e
}

func TestHealthz(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	s, sessions, _ := newMockServer(ctl)
	sessions.EXPECT().Ping(gomock.Any()).Return(nil).Times(1)

	gin.SetMode(gin.TestMode)
	w := serve(s.setupRouter(), httptest.NewRequest("GET", "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")
	assert.Contains(t, w.Body.String(), `"status":"OK"`)
}

func TestCategories(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	s, _, _ := newMockServer(ctl)
	s.scale = score.CompactScale

	gin.SetMode(gin.TestMode)
	w := serve(s.setupRouter(), httptest.NewRequest("GET", "/api/categories", nil))
	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")

	var resp struct {
		Scale  string      `json:"scale"`
		Levels []levelView `json:"levels"`
	}
	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &resp), "wrong json unmarshal")
	assert.Equal(t, "compact", resp.Scale)
	assert.Len(t, resp.Levels, 5)
	assert.Equal(t, 50.0, *resp.Levels[0].Upper)
	assert.Nil(t, resp.Levels[4].Upper, "last level is unbounded")
	assert.Equal(t, "Stay indoors!", resp.Levels[4].Advisory)
}

func TestPredictionMetrics(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	viper.Set("server.apikey.metric", "metric-secret")
	defer viper.Set("server.apikey.metric", "")

	s, _, regressor := newMockServer(ctl)
	gomock.InOrder(
		regressor.EXPECT().Predict(gomock.Any()).Return(30.0, nil),
		regressor.EXPECT().Predict(gomock.Any()).Return(45.0, nil),
		regressor.EXPECT().Predict(gomock.Any()).Return(160.0, nil),
	)

	gin.SetMode(gin.TestMode)
	router := s.setupRouter()
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/api/predict", strings.NewReader(`{"pm25":10}`))
		req.Header.Set("Content-Type", "application/json")
		assert.Equal(t, http.StatusOK, serve(router, req).Code)
	}

	w := serve(router, httptest.NewRequest("GET", "/metrics/predictions", nil))
	assert.Equal(t, http.StatusForbidden, w.Code, "metrics need a token")

	req := httptest.NewRequest("GET", "/metrics/predictions", nil)
	req.Header.Set("Api-Token", "metric-secret")
	w = serve(router, req)
	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")

	var resp struct {
		Total      int64            `json:"total"`
		Categories map[string]int64 `json:"categories"`
	}
	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &resp), "wrong json unmarshal")
	assert.Equal(t, int64(3), resp.Total)
	assert.Equal(t, int64(2), resp.Categories["good"])
	assert.Equal(t, int64(1), resp.Categories["unhealthy"])
}

func TestInformation(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	s, _, _ := newMockServer(ctl)

	gin.SetMode(gin.TestMode)
	w := serve(s.setupRouter(), httptest.NewRequest("GET", "/api/information", nil))
	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")
	assert.Contains(t, w.Body.String(), `"scale":"standard"`)
	assert.Contains(t, w.Body.String(), `"station_lookup":false`)
}
