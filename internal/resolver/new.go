package resolver

import (
	"net/http"
	"time"

	"github.com/nguyentantai21042004/clip-flow/internal/logger"
	"github.com/nguyentantai21042004/clip-flow/internal/safeurl"
)

type implResolver struct {
	client *http.Client
	allow  safeurl.Checker
	logger logger.Logger
}

// New creates a Resolver. The client is used for redirect resolution and
// HTML fetches; pass nil for a default with sane timeouts. Redirects are
// handled manually so every hop can be re-validated against allow.
func New(client *http.Client, allow safeurl.Checker, log logger.Logger) Resolver {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &implResolver{
		client: &http.Client{
			Transport: client.Transport,
			Timeout:   client.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		allow:  allow,
		logger: log,
	}
}
