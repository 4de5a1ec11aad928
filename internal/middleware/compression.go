package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

// CompressionConfig holds configuration for response compression
type CompressionConfig struct {
	CompressionLevel int      // Gzip compression level (1-9, 9 is best compression)
	ContentTypes     []string // Content types to compress
}

// DefaultCompressionConfig returns the default compression configuration
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		CompressionLevel: gzip.DefaultCompression,
		ContentTypes: []string{
			"application/json",
			"text/csv",
			"text/plain",
		},
	}
}

// CompressionMiddleware gzips large admin payloads such as CSV exports and response listings
type CompressionMiddleware struct {
	config CompressionConfig
	stats  *CompressionStats
	pool   sync.Pool
}

// NewCompressionMiddleware creates a new compression middleware
func NewCompressionMiddleware(config CompressionConfig) *CompressionMiddleware {
	level := config.CompressionLevel
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		level = gzip.DefaultCompression
	}
	config.CompressionLevel = level

	return &CompressionMiddleware{
		config: config,
		stats:  &CompressionStats{},
		pool: sync.Pool{
			New: func() interface{} {
				gz, _ := gzip.NewWriterLevel(io.Discard, level)
				return gz
			},
		},
	}
}

// Handler returns a Gin middleware function for response compression
func (cm *CompressionMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodHead || !clientAcceptsGzip(c.Request) {
			c.Next()
			return
		}

		c.Header("Vary", "Accept-Encoding")

		gzw := &gzipResponseWriter{ResponseWriter: c.Writer, cm: cm}
		c.Writer = gzw
		defer gzw.finish()

		c.Next()
	}
}

// GetStats returns compression statistics
func (cm *CompressionMiddleware) GetStats() map[string]interface{} {
	return cm.stats.snapshot()
}

func clientAcceptsGzip(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
}

func (cm *CompressionMiddleware) shouldCompress(contentType string) bool {
	for _, ct := range cm.config.ContentTypes {
		if strings.Contains(contentType, ct) {
			return true
		}
	}
	return false
}

// gzipResponseWriter decides on the first body write whether to compress
type gzipResponseWriter struct {
	gin.ResponseWriter
	cm       *CompressionMiddleware
	gz       *gzip.Writer
	decided  bool
	original int64
}

func (w *gzipResponseWriter) decide() {
	if w.decided {
		return
	}
	w.decided = true

	header := w.Header()
	if header.Get("Content-Encoding") != "" || !w.cm.shouldCompress(header.Get("Content-Type")) {
		return
	}

	header.Del("Content-Length")
	header.Set("Content-Encoding", "gzip")

	w.gz = w.cm.pool.Get().(*gzip.Writer)
	w.gz.Reset(w.ResponseWriter)
}

func (w *gzipResponseWriter) Write(data []byte) (int, error) {
	w.decide()
	if w.gz == nil {
		return w.ResponseWriter.Write(data)
	}
	w.original += int64(len(data))
	return w.gz.Write(data)
}

func (w *gzipResponseWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// Flush flushes the gzip writer
func (w *gzipResponseWriter) Flush() {
	if w.gz != nil {
		_ = w.gz.Flush()
	}
	w.ResponseWriter.Flush()
}

func (w *gzipResponseWriter) finish() {
	if w.gz == nil {
		w.cm.stats.record(0, 0, false)
		return
	}

	_ = w.gz.Close()
	w.cm.stats.record(w.original, int64(w.ResponseWriter.Size()), true)

	w.gz.Reset(io.Discard)
	w.cm.pool.Put(w.gz)
	w.gz = nil
}

// CompressionStats tracks compression statistics
type CompressionStats struct {
	requests        atomic.Int64
	compressed      atomic.Int64
	originalBytes   atomic.Int64
	compressedBytes atomic.Int64
}

func (cs *CompressionStats) record(original, compressed int64, didCompress bool) {
	cs.requests.Add(1)
	if !didCompress {
		return
	}
	cs.compressed.Add(1)
	cs.originalBytes.Add(original)
	cs.compressedBytes.Add(compressed)
}

func (cs *CompressionStats) snapshot() map[string]interface{} {
	original := cs.originalBytes.Load()
	compressed := cs.compressedBytes.Load()

	ratio := 0.0
	if original > 0 {
		ratio = float64(compressed) / float64(original)
	}

	return map[string]interface{}{
		"requests":          cs.requests.Load(),
		"compressed":        cs.compressed.Load(),
		"original_bytes":    original,
		"compressed_bytes":  compressed,
		"compression_ratio": ratio,
	}
}
