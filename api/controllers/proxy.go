package controllers

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/evolutionflow/admin-bff/api/responses"
	pkgerrors "github.com/evolutionflow/admin-bff/pkg/errors"
	"github.com/evolutionflow/admin-bff/pkg/logger"
)

// ProxyPrefix is stripped before a request is forwarded to the backend.
const ProxyPrefix = "/api/proxy"

// BackendProxy forwards /api/proxy/* to the backend origin, replacing the BFF
// bearer with the session's upstream token.
func BackendProxy(backendURL string, logg *logger.Logger) (http.Handler, error) {
	target, err := url.Parse(backendURL)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid backend url %q", backendURL)
	}

	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.Out.URL.Path = singleJoin(target.Path, strings.TrimPrefix(pr.In.URL.Path, ProxyPrefix))
			pr.Out.URL.RawPath = ""
			pr.Out.Header.Del("Cookie")
			pr.Out.Header.Del("Authorization")
			if token := upstreamToken(pr.In); token != "" {
				pr.Out.Header.Set("Authorization", "Bearer "+token)
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "backend unreachable"))
		},
	}
	return proxy, nil
}

func singleJoin(base, rest string) string {
	base = strings.TrimSuffix(base, "/")
	if rest == "" {
		rest = "/"
	}
	if !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	return base + rest
}
