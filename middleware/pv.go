package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"blogapi/repositories"
)

// PageViewRecorder records page views per day and path.
func PageViewRecorder(pageViews repositories.PageViewRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only record successful content reads.
		if c.Request.Method != "GET" {
			return
		}
		status := c.Writer.Status()
		if status < 200 || status >= 400 {
			return
		}

		path := c.Request.URL.Path
		if path == "/health" || strings.Contains(path, "/stats") {
			return
		}

		// Use local midnight so a day's views share one counter document.
		now := time.Now().In(time.Local)
		localMidnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = pageViews.Increment(ctx, localMidnight, path)
	}
}
