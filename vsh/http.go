// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package vsh

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// HTTPCapability is the narrow egress surface spec.md §4.11 allows: a
// caller-supplied *http.Client plus a host allow-list. The `fetch`
// builtin is the only code that ever calls it; a sandbox built with a
// nil HTTPCapability in Options is fully network-dead.
type HTTPCapability struct {
	Client     *http.Client
	AllowHosts []string
}

// Fetch implements interp.HTTPCapability. It refuses any URL whose host
// isn't on the allow-list and never falls back to a direct net/http call
// from builtin code.
func (h *HTTPCapability) Fetch(rawURL string) (int, string, error) {
	if h == nil {
		return 0, "", fmt.Errorf("no HTTP capability configured")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0, "", err
	}
	if !h.hostAllowed(u.Hostname()) {
		return 0, "", fmt.Errorf("host %q is not allow-listed", u.Hostname())
	}
	if h.Client == nil {
		return 0, "", fmt.Errorf("no HTTP client configured")
	}
	resp, err := h.Client.Get(rawURL)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", err
	}
	return resp.StatusCode, string(body), nil
}

func (h *HTTPCapability) hostAllowed(host string) bool {
	for _, allowed := range h.AllowHosts {
		if allowed == host {
			return true
		}
	}
	return false
}
