package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"

	"github.com/dmitrijs2005/docproc/internal/netx"
)

// HTTPOpener downloads http(s) URLs, such as presigned object links.
type HTTPOpener struct {
	Client *http.Client
}

func (o HTTPOpener) Open(ctx context.Context, location string) (*Source, error) {
	u, err := url.Parse(location)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidLocation, location)
	}

	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return nil, fmt.Errorf("%w: %s has no file name", ErrInvalidLocation, location)
	}

	body, err := netx.DownloadURL(ctx, o.Client, location)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", u.Redacted(), err)
	}
	return &Source{Name: name, Body: body}, nil
}
