package observability

import (
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/scoring"
	otellog "go.opentelemetry.io/otel/log"
)

func TestShouldSkipUptraceLog(t *testing.T) {
	if !shouldSkipUptraceLog("http_request", []any{"http_path", "/healthz"}) {
		t.Fatalf("expected health check log to be skipped")
	}
	if shouldSkipUptraceLog("http_request", []any{"http_path", "/v1/matches/live"}) {
		t.Fatalf("did not expect match list log to be skipped")
	}
	if shouldSkipUptraceLog("qstash publish request", []any{"http_path", "/healthz"}) {
		t.Fatalf("did not expect non-http_request event to be skipped")
	}
}

func TestBuildOTelLogAttributes(t *testing.T) {
	attrs := buildOTelLogAttributes([]any{"match_id", "m-42", "attempt", 2, "payload"})
	if len(attrs) != 3 {
		t.Fatalf("expected 3 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "match_id" || attrs[0].Value.AsString() != "m-42" {
		t.Fatalf("unexpected match_id attribute")
	}
	if attrs[1].Key != "attempt" || attrs[1].Value.AsInt64() != 2 {
		t.Fatalf("unexpected attempt attribute")
	}
	if attrs[2].Key != "payload" || attrs[2].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("unexpected payload attribute")
	}
}

func TestToOTelLogValue(t *testing.T) {
	if v := toOTelLogValue(uint16(7), 0); v.Kind() != otellog.KindInt64 || v.AsInt64() != 7 {
		t.Fatalf("expected int64 7, got %v", v)
	}
	if v := toOTelLogValue(90*time.Second, 0); v.AsString() != "1m30s" {
		t.Fatalf("expected duration string, got %v", v)
	}
	if v := toOTelLogValue(scoring.FromInt(68), 0); v.AsString() != "68.00" {
		t.Fatalf("expected points to use Stringer, got %v", v)
	}

	m := toOTelLogValue(map[string]any{"wickets": 3, "maiden": true}, 0)
	if m.Kind() != otellog.KindMap || len(m.AsMap()) != 2 {
		t.Fatalf("expected 2 item map value, got %v", m)
	}
}
