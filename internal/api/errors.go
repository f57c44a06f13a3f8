package api

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// VersionHeader is the client-version header every SDK request must carry.
// Its absence is rejected before any handler logic runs.
const VersionHeader = "X-BidOn-Version"

// Exact messages are part of the SDK contract; clients match on them.
const (
	MsgMissingVersionHeader = "Request should contain X-BidOn-Version header"
	MsgInvalidAppKey        = "App key is invalid"
	MsgNoAdsFound           = "No ads found"
	MsgInternalServerError  = "Internal Server Error"
)

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// writeError emits the error envelope all endpoints share.
func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

// writeJSON emits a bare success payload. Errors get the envelope; successes
// never do.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeBody unmarshals a request body into v, transparently inflating
// gzip-compressed payloads the mobile SDKs send.
func decodeBody(r *http.Request, v any) error {
	var reader io.Reader = r.Body
	defer func() { _ = r.Body.Close() }()

	if strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(r.Body)
		if err != nil {
			return fmt.Errorf("gzip body: %w", err)
		}
		defer func() { _ = gz.Close() }()
		reader = gz
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("parse json: %w", err)
	}
	return nil
}

// RequireVersionHeader rejects requests without the client-version header.
func RequireVersionHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(VersionHeader) == "" {
			writeError(w, http.StatusUnprocessableEntity, MsgMissingVersionHeader)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Recover converts handler panics into the standard 500 envelope.
func Recover(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("handler panic", zap.Any("panic", rec), zap.String("path", r.URL.Path))
					writeError(w, http.StatusInternalServerError, MsgInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the originating client address, preferring the first
// X-Forwarded-For hop set by the edge proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
