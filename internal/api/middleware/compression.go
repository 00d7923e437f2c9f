package middleware

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Skip compression for these content types
var excludedContentTypes = []string{
	"image/",
	"video/",
	"audio/",
}

// CompressionConfig holds configuration for the compression middleware
type CompressionConfig struct {
	// Minimum content length to trigger compression (default: 1KB)
	MinLength int
	// Gzip compression level (1-9, higher = better compression but slower)
	Level int
	// MaxRequestBytes caps the size of a decompressed request body
	MaxRequestBytes int64
	// ExcludedPathPrefixes are served untouched (e.g. handlers that negotiate encoding themselves)
	ExcludedPathPrefixes []string
}

// DefaultCompressionConfig returns the default compression configuration
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinLength:            1024, // 1KB
		Level:                gzip.DefaultCompression,
		MaxRequestBytes:      1 << 20, // 1MB
		ExcludedPathPrefixes: []string{"/metrics", "/swagger/"},
	}
}

// shouldCompress checks if the response should be compressed based on content type
func shouldCompress(contentType string) bool {
	for _, excluded := range excludedContentTypes {
		if strings.HasPrefix(contentType, excluded) {
			return false
		}
	}
	return true
}

func (cfg CompressionConfig) excluded(path string) bool {
	for _, prefix := range cfg.ExcludedPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Compression returns a middleware that inflates gzip request bodies and gzips large responses
func Compression(cfg CompressionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.excluded(c.Request.URL.Path) {
			c.Next()
			return
		}

		if c.Request.Header.Get("Content-Encoding") == "gzip" {
			if status := inflateRequest(c.Request, cfg.MaxRequestBytes); status != 0 {
				c.AbortWithStatus(status)
				return
			}
		}

		// Check if client accepts gzip for response
		if !strings.Contains(c.Request.Header.Get("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}

		gzipWriter := &gzipResponseWriter{
			ResponseWriter: c.Writer,
			minLength:      cfg.MinLength,
			level:          cfg.Level,
			contentBuf:     new(bytes.Buffer),
		}
		c.Writer = gzipWriter

		// Add Vary header to prevent caching issues
		c.Header("Vary", "Accept-Encoding")

		c.Next()

		if err := gzipWriter.finishWriting(); err != nil {
			_ = c.Error(err)
		}
	}
}

// inflateRequest replaces a gzip body with its decoded content. A non-zero return is the
// status to abort with.
func inflateRequest(req *http.Request, limit int64) int {
	reader, err := gzip.NewReader(req.Body)
	if err != nil {
		return http.StatusBadRequest
	}
	defer reader.Close()

	src := io.Reader(reader)
	if limit > 0 {
		src = io.LimitReader(reader, limit+1)
	}
	body, err := io.ReadAll(src)
	if err != nil {
		return http.StatusBadRequest
	}
	if limit > 0 && int64(len(body)) > limit {
		return http.StatusRequestEntityTooLarge
	}

	req.Body = io.NopCloser(bytes.NewReader(body))
	req.ContentLength = int64(len(body))
	req.Header.Del("Content-Encoding")
	return 0
}

type gzipResponseWriter struct {
	gin.ResponseWriter
	minLength  int
	level      int
	contentBuf *bytes.Buffer
}

func (g *gzipResponseWriter) Write(data []byte) (int, error) {
	return g.contentBuf.Write(data)
}

func (g *gzipResponseWriter) WriteString(s string) (int, error) {
	return g.contentBuf.WriteString(s)
}

func (g *gzipResponseWriter) finishWriting() error {
	content := g.contentBuf.Bytes()
	if len(content) == 0 {
		return nil
	}

	if !shouldCompress(g.Header().Get("Content-Type")) || len(content) < g.minLength {
		_, err := g.ResponseWriter.Write(content)
		return err
	}

	gz, err := gzip.NewWriterLevel(g.ResponseWriter, g.level)
	if err != nil {
		return err
	}
	g.Header().Set("Content-Encoding", "gzip")
	g.Header().Del("Content-Length")

	if _, err := gz.Write(content); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}

// Buffered content is only flushed by finishWriting, so Flush forwards nothing early
func (g *gzipResponseWriter) Flush() {}

func (g *gzipResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return g.ResponseWriter.Hijack()
}

func (g *gzipResponseWriter) Size() int {
	if g.ResponseWriter.Written() {
		return g.ResponseWriter.Size()
	}
	return g.contentBuf.Len()
}

func (g *gzipResponseWriter) Written() bool {
	return g.ResponseWriter.Written() || g.contentBuf.Len() > 0
}
