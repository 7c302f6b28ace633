package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PortalHandler serves the captive portal detection endpoints that
// phones probe when joining the kiosk's Wi-Fi. Android expects a 204;
// everything else gets a page that bounces to the portal root.
type PortalHandler struct{}

// NewPortalHandler creates a new PortalHandler.
func NewPortalHandler() *PortalHandler {
	return &PortalHandler{}
}

// Generate204 handles GET /generate_204 and /gen_204 (Android probes).
func (h *PortalHandler) Generate204(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

const portalRedirectPage = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <meta http-equiv="refresh" content="0; url=/">
    <title>VendoPrint - WiFi Portal</title>
</head>
<body>
    <script>window.location.href = "/";</script>
    <p>Redirecting to VendoPrint... <a href="/">Click here</a></p>
</body>
</html>`

// Detect handles the iOS/Windows/Linux captive portal probe URLs.
func (h *PortalHandler) Detect(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(portalRedirectPage))
}
