package exporters

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/smazurov/loglevel/internal/metrics"
	"github.com/smazurov/loglevel/pkg/level"
)

func TestHTTPHandler(t *testing.T) {
	handler := HTTPHandler(slog.New(slog.DiscardHandler))
	if handler == nil {
		t.Fatal("expected non-nil handler")
	}

	metrics.SetLoggerLevel("http-test-logger", level.Error)
	defer metrics.DeleteLoggerMetrics("http-test-logger")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	body := w.Body.String()
	if !strings.Contains(body, `loglevel_logger_level{logger="http-test-logger"} 4`) {
		t.Errorf("expected logger level gauge in response:\n%s", body)
	}
}
