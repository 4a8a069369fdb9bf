// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/vechain/stakepool/log"
)

// action bodies are tiny, anything longer is truncated in the log line
const maxLoggedBody = 1024

// statusRecorder remembers the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// RequestLoggerHandler logs each request once it is served, with its body, status and latency.
func RequestLoggerHandler(handler http.Handler, logger log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			b, err := io.ReadAll(r.Body)
			if err != nil {
				logger.Warn("unexpected body read error", "err", err)
				http.Error(w, "unable to read body", http.StatusBadRequest)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(b))
			body = b
		}
		if len(body) > maxLoggedBody {
			body = append(body[:maxLoggedBody:maxLoggedBody], "..."...)
		}

		start := time.Now()
		rec := newStatusRecorder(w)
		handler.ServeHTTP(rec, r)

		logger.Info("API Request",
			"method", r.Method,
			"uri", r.URL.String(),
			"status", rec.status,
			"elapsed", time.Since(start),
			"body", string(body),
		)
	})
}
