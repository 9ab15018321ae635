package utils

import (
	"embed"
	"os"
	"path"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"
)

//go:embed i18n/*.yaml
var messageFiles embed.FS

var messageFileNames = []string{"en.yaml", "zh_tw.yaml"}

var bundle *i18n.Bundle

func init() {
	InitI18NBundle()
}

// InitI18NBundle loads the embedded message files. Files found in i18n.dir
// replace the embedded ones.
func InitI18NBundle() {
	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	dir := viper.GetString("i18n.dir")
	for _, name := range messageFileNames {
		if dir != "" {
			if buf, err := os.ReadFile(path.Join(dir, name)); err == nil {
				b.MustParseMessageFileBytes(buf, name)
				continue
			}
		}

		buf, err := messageFiles.ReadFile(path.Join("i18n", name))
		if err != nil {
			panic(err)
		}
		b.MustParseMessageFileBytes(buf, name)
	}

	bundle = b
}

func NewLocalizer(langs ...string) *i18n.Localizer {
	return i18n.NewLocalizer(bundle, langs...)
}

// Localize falls back to def when the message is missing
func Localize(l *i18n.Localizer, id, def string) string {
	msg, err := l.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{
			ID:    id,
			Other: def,
		},
	})
	if err != nil && msg == "" {
		return def
	}
	return msg
}
