package aqi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultURL     = "https://api.waqi.info/feed"
	defaultTimeout = 10 * time.Second
	statusOK       = "ok"
)

var (
	ErrResponseStatus = errors.New("response status no ok")
	ErrEmptyToken     = errors.New("empty token")
)

// Observation is the latest index reported by the nearest station
type Observation struct {
	AQI         int    `json:"aqi"`
	Station     string `json:"station"`
	Dominant    string `json:"dominant_pollutant"`
	ObservedAt  string `json:"observed_at"`
	Attribution string `json:"attribution,omitempty"`
}

type AQI interface {
	Get(ctx context.Context, lat, lng float64) (*Observation, error)
}

type aqi struct {
	token  string
	url    string
	client *http.Client
}

type responseCity struct {
	Name string `json:"name"`
}

type responseTime struct {
	S string `json:"s"`
}

type responseAttribution struct {
	Name string `json:"name"`
}

// the feed reports "-" as aqi when a station has no data, so it is decoded
// as a raw value
type responseData struct {
	Aqi          json.RawMessage       `json:"aqi"`
	City         responseCity          `json:"city"`
	Dominentpol  string                `json:"dominentpol"`
	Time         responseTime          `json:"time"`
	Attributions []responseAttribution `json:"attributions"`
}

type jsonResponse struct {
	Status string       `json:"status"`
	Data   responseData `json:"data"`
}

func (a aqi) Get(ctx context.Context, lat, lng float64) (*Observation, error) {
	if a.token == "" {
		return nil, ErrEmptyToken
	}

	// https://api.waqi.info/feed/geo:1.2;3.4/?token=xxxx
	query := fmt.Sprintf("%s/geo:%f;%f/?token=%s", a.url, lat, lng, a.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, query, nil)
	if nil != err {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if nil != err {
		return nil, err
	}
	defer resp.Body.Close()

	d, err := io.ReadAll(resp.Body)
	if nil != err {
		return nil, err
	}

	var r jsonResponse
	err = json.Unmarshal(d, &r)
	if nil != err {
		return nil, err
	}

	if r.Status != statusOK {
		return nil, ErrResponseStatus
	}

	var index int
	if err := json.Unmarshal(r.Data.Aqi, &index); err != nil {
		return nil, fmt.Errorf("station %s has no index: %w", r.Data.City.Name, ErrResponseStatus)
	}

	o := &Observation{
		AQI:        index,
		Station:    r.Data.City.Name,
		Dominant:   r.Data.Dominentpol,
		ObservedAt: r.Data.Time.S,
	}
	if len(r.Data.Attributions) > 0 {
		o.Attribution = r.Data.Attributions[0].Name
	}
	return o, nil
}

func New(token string, url string, client *http.Client) AQI {
	u := defaultURL
	if url != "" {
		u = url
	}

	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	return &aqi{
		token:  token,
		url:    u,
		client: client,
	}
}
