package observability

import (
	"context"
	"testing"

	"github.com/riskibarqy/fantasy-cricket/internal/config"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

func TestInitUptrace_DisabledIsNoop(t *testing.T) {
	tests := []config.Config{
		{UptraceEnabled: false, ServiceName: "fantasy-cricket-api", AppEnv: config.EnvDev},
		{UptraceEnabled: true, UptraceDSN: "  ", ServiceName: "fantasy-cricket-api", AppEnv: config.EnvDev},
	}

	for _, cfg := range tests {
		shutdown, err := InitUptrace(cfg, logging.NewNop())
		if err != nil {
			t.Fatalf("init uptrace: %v", err)
		}
		if err := shutdown(context.Background()); err != nil {
			t.Fatalf("shutdown uptrace: %v", err)
		}
	}
}
