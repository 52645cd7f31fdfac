package util

import (
	"net/http"
	"net/url"
	"strings"
)

// NewProxyFunc builds a transport proxy function from explicit proxy URLs.
// With no explicit proxies it defers to the standard environment variables.
// Hosts listed in noProxy (comma separated) bypass the proxy entirely.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	var bypass []string
	for _, host := range strings.Split(noProxy, ",") {
		if host = strings.TrimSpace(host); host != "" {
			bypass = append(bypass, host)
		}
	}

	return func(req *http.Request) (*url.URL, error) {
		for _, host := range bypass {
			if req.URL.Hostname() == host || strings.HasSuffix(req.URL.Hostname(), "."+host) {
				return nil, nil
			}
		}
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
