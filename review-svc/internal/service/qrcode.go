package service

import (
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/ZYL1107/next-platform-starter/review-svc/internal/apperrors"
)

const defaultShareCodeSize = 256

// DefaultShareCodeGenerator renders a PNG QR code pointing at a game's
// review section on the public site.
type DefaultShareCodeGenerator struct {
	BaseURL string
	Size    int
}

func (g DefaultShareCodeGenerator) Generate(gameID string) ([]byte, error) {
	if strings.TrimSpace(gameID) == "" {
		return nil, apperrors.Validation("gameId is required")
	}
	size := g.Size
	if size <= 0 {
		size = defaultShareCodeSize
	}
	return qrcode.Encode(g.Link(gameID), qrcode.Medium, size)
}

func (g DefaultShareCodeGenerator) Link(gameID string) string {
	return strings.TrimRight(g.BaseURL, "/") + "/games/" + url.PathEscape(gameID) + "#reviews"
}
