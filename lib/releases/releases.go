package releases

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kmconnect-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("releases")

// Source answers "what is the latest released version of this product".
type Source interface {
	LatestReleased(ctx context.Context, product string) (string, error)
}

// AtlassianSource reads the public Jira project-versions feed of an
// Atlassian tracker, e.g. https://jira.atlassian.com with product "CONF".
type AtlassianSource struct {
	http *resty.Client
}

func NewAtlassianSource(serverURL string) *AtlassianSource {
	client := resty.New()
	client.SetBaseURL(serverURL)
	client.SetTimeout(time.Second * 30)
	telemetry.InstrumentResty(client, "releases/http")

	return &AtlassianSource{http: client}
}

type versionEntry struct {
	Name        string `json:"name"`
	Released    bool   `json:"released"`
	ReleaseDate string `json:"releaseDate"`
}

func (s *AtlassianSource) LatestReleased(ctx context.Context, product string) (string, error) {
	ctx, span := tracer.Start(ctx, "LatestReleased")
	defer span.End()

	res, err := s.http.R().
		SetContext(ctx).
		Get("/rest/api/latest/project/" + product + "/versions")
	if err != nil {
		return "", err
	}
	if !res.IsSuccess() {
		return "", fmt.Errorf("version feed for %s returned status %d", product, res.StatusCode())
	}

	var versions []versionEntry
	if err := json.Unmarshal(res.Body(), &versions); err != nil {
		return "", err
	}

	// release dates are ISO formatted, lexicographic order is enough
	var latest versionEntry
	for _, v := range versions {
		if v.Released && v.ReleaseDate >= latest.ReleaseDate {
			latest = v
		}
	}
	if latest.Name == "" {
		return "", fmt.Errorf("no released version found for %s", product)
	}
	return latest.Name, nil
}
