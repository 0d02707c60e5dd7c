package inspect

import (
	"embed"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

// Embedded fallback UI. A real frontend build can be dropped into this
// directory before compiling to replace the placeholder page.
//
//go:embed ui/*
var embeddedUI embed.FS

func getEmbedFS() static.ServeFileSystem {
	fs, err := static.EmbedFolder(embeddedUI, "ui")
	if err != nil {
		panic("inspect: failed to get embedded UI filesystem: " + err.Error())
	}
	return fs
}

func mountUI(r *gin.Engine, logger *slog.Logger) {
	distFS := getEmbedFS()
	r.Use(static.Serve("/", distFS))

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.RequestURI, "/api") || strings.HasPrefix(c.Request.RequestURI, "/swagger") {
			return
		}
		index, err := distFS.Open("index.html")
		if err != nil {
			logger.Error("failed to open index.html", "error", err)
			return
		}
		defer index.Close()
		stat, _ := index.Stat()
		http.ServeContent(c.Writer, c.Request, "index.html", stat.ModTime(), index)
	})
}
