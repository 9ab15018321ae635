package api

import (
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/bitmark-inc/aqi-predictor/utils"
)

const localizerKey = "localizer"

// localizerMiddleware prefers the lang query over Accept-Language
func (s *Server) localizerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(localizerKey, utils.NewLocalizer(c.Query("lang"), c.GetHeader("Accept-Language")))
		c.Next()
	}
}

func localizer(c *gin.Context) *i18n.Localizer {
	if l, ok := c.Get(localizerKey); ok {
		if localizer, ok := l.(*i18n.Localizer); ok {
			return localizer
		}
	}
	return utils.NewLocalizer()
}

// localizedPath keeps the lang query on links and redirects
func localizedPath(c *gin.Context, path string) string {
	lang := c.Query("lang")
	if lang == "" {
		return path
	}
	return path + "?lang=" + url.QueryEscape(lang)
}
