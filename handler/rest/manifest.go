package rest

import (
	"context"
	"net/http"

	"maplemetrics/core"
	"maplemetrics/handler/render"
	"maplemetrics/pkg/resthttp"

	"github.com/fox-one/pkg/logger"
)

// ManifestHandler serve the dashboard deployment manifest. The upstream
// manifest is fetched with one silent retry; a failed fetch falls back to the
// bundled deployments rather than erroring.
func ManifestHandler(cfg *core.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if cfg.Dashboard.ManifestURL != "" {
			if manifest, err := fetchManifest(ctx, cfg.Dashboard.ManifestURL); err == nil {
				render.JSON(w, manifest)
				return
			} else {
				logger.FromContext(ctx).WithError(err).
					Warningln("manifest fetch failed, serving bundled deployments")
			}
		}

		render.JSON(w, cfg.Dashboard.Deployments)
	}
}

func fetchManifest(ctx context.Context, url string) (map[string]map[string]string, error) {
	var manifest map[string]map[string]string

	fetch := func() error {
		resp, err := resthttp.Request(ctx).Get(url)
		if err != nil {
			return err
		}
		return resthttp.ParseResponse(resp, &manifest)
	}

	if err := fetch(); err != nil {
		// one silent retry before falling back
		if err := fetch(); err != nil {
			return nil, err
		}
	}

	return manifest, nil
}
