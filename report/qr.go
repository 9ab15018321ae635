package report

import (
	qrcode "github.com/skip2/go-qrcode"

	"github.com/bitmark-inc/aqi-predictor/schema"
)

const DefaultQRSize = 256

// QRCode encodes the text report as a PNG
func QRCode(r schema.Report, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultQRSize
	}

	text, err := Bytes(r, FormatText)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(string(text), qrcode.Medium, size)
}
