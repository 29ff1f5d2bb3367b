package http

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/MKhiriev/go-resto-sync/internal/app"
	"github.com/MKhiriev/go-resto-sync/internal/utils"
)

var gzipWriterPool = sync.Pool{
	New: func() any {
		return gzip.NewWriter(io.Discard)
	},
}

var gzipReaderPool = sync.Pool{
	New: func() any {
		return new(gzip.Reader)
	},
}

// withGZip inflates gzip request bodies and compresses the response when the
// client accepts gzip. Large batches from a device on a slow link are the
// main user.
func withGZip(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if strings.Contains(req.Header.Get("Content-Encoding"), "gzip") && req.Body != nil {
			gzipReader := gzipReaderPool.Get().(*gzip.Reader)
			if err := gzipReader.Reset(req.Body); err != nil {
				gzipReaderPool.Put(gzipReader)
				utils.WriteError(w, app.MsgInvalidGzipBody, http.StatusBadRequest)
				return
			}

			req.Body = &pooledGzipBody{reader: gzipReader, source: req.Body}
			req.Header.Del("Content-Encoding")
			req.ContentLength = -1
		}

		if !strings.Contains(req.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, req)
			return
		}

		gzipWriter := gzipWriterPool.Get().(*gzip.Writer)
		gzipWriter.Reset(w)
		gzipRW := &gzipResponseWriter{ResponseWriter: w, gzipWriter: gzipWriter}
		defer func() {
			// an empty body must stay empty, not become a bare gzip trailer
			if !gzipRW.wroteBody {
				gzipWriter.Reset(io.Discard)
			}
			gzipWriter.Close()
			gzipWriterPool.Put(gzipWriter)
		}()

		w.Header().Add("Vary", "Accept-Encoding")
		next.ServeHTTP(gzipRW, req)
	})
}

// pooledGzipBody returns its reader to the pool once the handler closes the
// body.
type pooledGzipBody struct {
	reader *gzip.Reader
	source io.ReadCloser
	once   sync.Once
}

func (b *pooledGzipBody) Read(p []byte) (int, error) {
	return b.reader.Read(p)
}

func (b *pooledGzipBody) Close() error {
	var err error
	b.once.Do(func() {
		b.reader.Close()
		gzipReaderPool.Put(b.reader)
		err = b.source.Close()
	})
	return err
}

type gzipResponseWriter struct {
	http.ResponseWriter
	gzipWriter  *gzip.Writer
	wroteHeader bool
	wroteBody   bool
}

func (w *gzipResponseWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.Header().Set("Content-Encoding", "gzip")
	w.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *gzipResponseWriter) Write(data []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if len(data) > 0 {
		w.wroteBody = true
	}
	return w.gzipWriter.Write(data)
}
