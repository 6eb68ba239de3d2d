package handlers

import (
	"embed"
	"github.com/gin-gonic/gin"
	"html/template"
	"net/http"
)

//go:embed web/index.html
var webFS embed.FS

// Template is the page served at "/". Register it with gin's SetHTMLTemplate.
func Template() *template.Template {
	return template.Must(template.ParseFS(webFS, "web/index.html"))
}

type clientConfig struct {
	TTLSeconds          int `json:"ttlSeconds"`
	PollIntervalSeconds int `json:"pollIntervalSeconds"`
}

func (h *Handlers) clientConfig() clientConfig {
	cfg := h.manager.Get()
	return clientConfig{
		TTLSeconds:          cfg.Messages.TTLSeconds,
		PollIntervalSeconds: cfg.Messages.PollIntervalSeconds,
	}
}

func (h *Handlers) IndexHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", h.clientConfig())
}

// ConfigHandler publishes the TTL the store was initialised with, for client countdowns.
func (h *Handlers) ConfigHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.clientConfig())
}

func (h *Handlers) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
