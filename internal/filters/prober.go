package filters

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"

	"pushbot/internal/models"
)

const probeTimeout = 10 * time.Second

// Prober checks whether search result urls return a successful HTTP response.
type Prober struct {
	logger logSDK.Logger
}

// NewProber is the constructor for Prober.
func NewProber(logger logSDK.Logger) *Prober {
	return &Prober{logger: logger.Named("prober")}
}

// Probe performs one HTTP HEAD request against the result's best known url.
// Transport failures are captured in the returned ProbeResult rather than
// propagated: dead links are an expected outcome, not an error.
func (p *Prober) Probe(ctx context.Context, result *models.SearchResult) *models.ProbeResult {
	target := result.FinalURL()
	if _, err := url.ParseRequestURI(target); err != nil {
		return &models.ProbeResult{Error: "invalid url"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return &models.ProbeResult{Error: err.Error()}
	}

	// this prober is a long-lived singleton while clients are short-lived,
	// so build a fresh client per call instead of holding one forever
	client := &http.Client{Timeout: probeTimeout}

	resp, err := client.Do(req)
	if err != nil {
		p.logger.Debug("probe request failed",
			zap.String("url", target),
			zap.Error(err))
		return &models.ProbeResult{Error: err.Error()}
	}
	defer resp.Body.Close()

	probe := &models.ProbeResult{
		IsAlive:    resp.StatusCode >= 200 && resp.StatusCode < 300,
		StatusCode: resp.StatusCode,
		// some services like reddit and imgur return an etag, identical
		// content under a different url can share it (think file hash)
		Etag:        resp.Header.Get("Etag"),
		ContentType: contentType(resp),
	}

	// the chat surface doesn't follow redirects, so when we followed some
	// the final url is the one worth delivering
	if finalURL := resp.Request.URL.String(); finalURL != target {
		probe.RedirectedURL = finalURL
	}

	return probe
}

func contentType(resp *http.Response) string {
	declared := resp.Header.Get("Content-Type")
	if idx := strings.Index(declared, ";"); idx >= 0 {
		declared = declared[:idx]
	}

	return strings.TrimSpace(declared)
}
