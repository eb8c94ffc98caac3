package screens

import (
	"strings"

	"go.uber.org/zap"
)

// LinkOpener hands a URL to the platform.
type LinkOpener interface {
	Open(url string) error
}

// Links opens external URLs, logging failures instead of returning them.
type Links struct {
	opener LinkOpener
	logger *zap.Logger
}

func NewLinks(opener LinkOpener, logger *zap.Logger) *Links {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Links{opener: opener, logger: logger}
}

// Open opens url. An empty url is ignored.
func (l *Links) Open(url string) {
	if url == "" || l == nil || l.opener == nil {
		return
	}
	if err := l.opener.Open(url); err != nil {
		l.logger.Warn("open link", zap.String("url", url), zap.Error(err))
	}
}

// WebsiteURL adds https:// to a bare host.
func WebsiteURL(site string) string {
	site = strings.TrimSpace(site)
	if site == "" {
		return ""
	}
	if strings.HasPrefix(site, "http://") || strings.HasPrefix(site, "https://") {
		return site
	}
	return "https://" + site
}

// MailtoURL builds a mailto: link.
func MailtoURL(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	return "mailto:" + email
}
