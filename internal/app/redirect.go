package app

import (
	"net/http"
)

// NewRedirectServer returns the port-80 listener that bounces every HTTP
// request to the portal. Phones probe plain-HTTP URLs when joining the
// kiosk Wi-Fi; this is what makes the captive portal pop up.
func NewRedirectServer(port, portalBaseURL string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		target := portalBaseURL + r.URL.Path
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusFound)
	})

	return &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}
}
