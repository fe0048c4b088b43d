package browser

import (
	"fmt"
	"log"
	"net/url"

	pkgbrowser "github.com/pkg/browser"
)

// Opener hands URLs to the host's default browser
type Opener struct {
	open func(string) error
}

func NewOpener() *Opener {
	return &Opener{open: pkgbrowser.OpenURL}
}

// Open launches the default browser on rawURL. Only http(s) URLs are accepted.
func (o *Opener) Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("refusing to open non-http URL %q", rawURL)
	}

	log.Printf("[Browser] Opening %s", u.Redacted())
	if err := o.open(u.String()); err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	return nil
}
