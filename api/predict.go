package api

import (
	"fmt"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bitmark-inc/aqi-predictor/schema"
	"github.com/bitmark-inc/aqi-predictor/score"
	"github.com/bitmark-inc/aqi-predictor/utils"
)

const indexTemplate = "index.tmpl"

var formKeys = map[schema.Pollutant]string{
	schema.PollutantPM25: "pm25",
	schema.PollutantPM10: "pm10",
	schema.PollutantNO:   "no",
	schema.PollutantNO2:  "no2",
	schema.PollutantCO:   "co",
	schema.PollutantSO2:  "so2",
	schema.PollutantO3:   "o3",
}

var pageTextIDs = map[string]string{
	"page.title":          "Air Quality Index (AQI) Prediction",
	"form.submit":         "Predict AQI",
	"form.clear":          "Clear session",
	"result.predicted":    "Predicted AQI",
	"result.category":     "Air Quality",
	"result.change":       "Change since last prediction",
	"result.download_csv": "Download CSV report",
	"result.download_txt": "Download text report",
	"result.qr":           "Scan to carry the report",
}

type fieldView struct {
	Key   string
	Label string
	Value float64
}

type resultView struct {
	Score    int
	Category string
	Color    string
	Advisory string
	Change   string
}

type pageView struct {
	Lang   string
	Text   map[string]string
	Fields []fieldView
	Error  string
	Result *resultView
}

type levelView struct {
	Category score.Category `json:"category"`
	Upper    *float64       `json:"upper"`
	Color    string         `json:"color"`
	Label    string         `json:"label"`
	Advisory string         `json:"advisory"`
}

// evaluate runs one inference and categorizes the result in the request language
func (s *Server) evaluate(c *gin.Context, r schema.Reading) (*schema.Prediction, score.Level, error) {
	raw, err := s.model.Predict(r.Vector())
	if err != nil {
		return nil, score.Level{}, err
	}

	level := s.scale.Categorize(raw)
	l := localizer(c)
	p := schema.NewPrediction(r, raw,
		utils.Localize(l, level.LabelID, level.Label),
		level.Color,
		utils.Localize(l, level.AdvisoryID, level.Advisory))

	s.metrics.Tagged(map[string]string{"category": string(level.Category)}).Counter(predictionCounter).Inc(1)
	return p, level, nil
}

func (s *Server) renderPage(c *gin.Context, code int, r schema.Reading, session *schema.Session, errMessage string) {
	l := localizer(c)

	view := pageView{
		Lang:  c.Query("lang"),
		Text:  make(map[string]string, len(pageTextIDs)),
		Error: errMessage,
	}
	for id, def := range pageTextIDs {
		view.Text[id] = utils.Localize(l, id, def)
	}
	for _, p := range schema.FeatureOrder {
		view.Fields = append(view.Fields, fieldView{
			Key:   formKeys[p],
			Label: string(p),
			Value: r.Value(p),
		})
	}

	if session != nil && session.Last != nil {
		last := session.Last
		view.Result = &resultView{
			Score:    last.DisplayScore(),
			Category: last.Category,
			Color:    last.Color,
			Advisory: last.Advisory,
		}
		if session.Previous != nil {
			view.Result.Change = fmt.Sprintf("%+.1f%%", score.ChangeRate(last.Score, session.Previous.Score))
		}
	}

	c.HTML(code, indexTemplate, view)
}

func (s *Server) index(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer)
		return
	}

	r := schema.DefaultReading()
	if session.Last != nil {
		r = session.Last.Reading
	}

	s.renderPage(c, http.StatusOK, r, nil, "")
}

func (s *Server) predictForm(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer)
		return
	}

	r := schema.DefaultReading()
	if err := c.ShouldBind(&r); err != nil {
		c.Error(err)
		s.renderPage(c, http.StatusBadRequest, r, nil, errorCannotParseRequest.Message)
		return
	}

	if err := r.Validate(); err != nil {
		s.renderPage(c, http.StatusBadRequest, r, nil, err.Error())
		return
	}

	p, _, err := s.evaluate(c, r)
	if err != nil {
		c.Error(err)
		s.renderPage(c, http.StatusInternalServerError, r, nil, errorPrediction.Message)
		return
	}

	session.Record(p)
	if err := s.sessions.Put(c.Request.Context(), session); err != nil {
		c.Error(err)
		s.renderPage(c, http.StatusInternalServerError, r, nil, errorInternalServer.Message)
		return
	}

	s.renderPage(c, http.StatusOK, r, session, "")
}

func (s *Server) result(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer)
		return
	}

	if session.Last == nil {
		c.Redirect(http.StatusSeeOther, localizedPath(c, "/"))
		return
	}

	s.renderPage(c, http.StatusOK, session.Last.Reading, session, "")
}

func (s *Server) predictJSON(c *gin.Context) {
	var r schema.Reading
	if err := c.ShouldBindJSON(&r); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
		return
	}

	if err := r.Validate(); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	p, level, err := s.evaluate(c, r)
	if err != nil {
		abortWithEncoding(c, http.StatusInternalServerError, errorPrediction, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       p.ID,
		"score":    p.Score,
		"aqi":      p.DisplayScore(),
		"level":    level.Category,
		"category": p.Category,
		"color":    p.Color,
		"advisory": p.Advisory,
	})
}

func (s *Server) categories(c *gin.Context) {
	l := localizer(c)

	levels := make([]levelView, 0, len(s.scale.Levels))
	for _, level := range s.scale.Levels {
		v := levelView{
			Category: level.Category,
			Color:    level.Color,
			Label:    utils.Localize(l, level.LabelID, level.Label),
			Advisory: utils.Localize(l, level.AdvisoryID, level.Advisory),
		}
		if !math.IsInf(level.Upper, 1) {
			upper := level.Upper
			v.Upper = &upper
		}
		levels = append(levels, v)
	}

	c.JSON(http.StatusOK, gin.H{
		"scale":  s.scale.Name,
		"levels": levels,
	})
}
