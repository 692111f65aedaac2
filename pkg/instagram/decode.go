package instagram

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// AcceptEncoding is advertised on every request; readBody undoes each of them
const AcceptEncoding = "gzip, deflate, br"

// maxBodySize bounds a single decoded response
const maxBodySize = 32 << 20

// readBody reads resp.Body, reversing any Content-Encoding the server applied
func readBody(resp *http.Response) ([]byte, error) {
	reader, err := decodingReader(resp.Header.Get("Content-Encoding"), resp.Body)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data, err := io.ReadAll(io.LimitReader(reader, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}

func decodingReader(encoding string, body io.Reader) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return io.NopCloser(body), nil
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("invalid gzip body: %w", err)
		}
		return zr, nil
	case "deflate":
		return deflateReader(body)
	case "br":
		return io.NopCloser(brotli.NewReader(body)), nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}

// deflateReader accepts both zlib-wrapped and raw deflate streams, since
// servers disagree on what "deflate" means
func deflateReader(body io.Reader) (io.ReadCloser, error) {
	buffered := bufio.NewReader(body)
	header, err := buffered.Peek(2)
	if err == nil && isZlibHeader(header) {
		zr, err := zlib.NewReader(buffered)
		if err != nil {
			return nil, fmt.Errorf("invalid deflate body: %w", err)
		}
		return zr, nil
	}
	return flate.NewReader(buffered), nil
}

func isZlibHeader(h []byte) bool {
	return h[0]&0x0f == 8 && (uint16(h[0])<<8|uint16(h[1]))%31 == 0
}
