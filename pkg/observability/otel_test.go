package observability

import (
	"context"
	"testing"
)

func TestInitOTel_Disabled(t *testing.T) {
	providers, err := InitOTel(context.Background(), OTelConfig{Enabled: false}, testLogger())
	if err != nil {
		t.Fatalf("InitOTel returned error: %v", err)
	}
	if providers != nil {
		t.Errorf("providers = %v, want nil when disabled", providers)
	}
}

func TestShutdownOTel_NilProviders(t *testing.T) {
	if err := ShutdownOTel(context.Background(), nil, testLogger()); err != nil {
		t.Errorf("ShutdownOTel(nil) = %v, want nil", err)
	}
}

func TestUpdateLoggerWithTraceContext_NoSpan(t *testing.T) {
	logger := testLogger()
	got := UpdateLoggerWithTraceContext(context.Background(), logger)
	if got != logger {
		t.Error("expected the original logger back when no span is recording")
	}
}
