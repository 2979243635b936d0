package analytics

import (
	"context"
	"io"
	"testing"

	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/config"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/logger"
)

func TestOpenCommissionWriterDisabled(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "analytics-test", Output: io.Discard})

	writer, closeFn, err := OpenCommissionWriter(context.Background(), config.GCPConfig{}, config.BigQueryConfig{}, logg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if writer != nil {
		t.Fatal("expected no writer when export is disabled")
	}
	if err := closeFn(); err != nil {
		t.Fatalf("closer: %v", err)
	}
}

func TestOpenCommissionWriterRequiresProject(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "analytics-test", Output: io.Discard})
	cfg := config.BigQueryConfig{Enabled: true, Dataset: "rupiya", CommissionTable: "commission_facts"}

	writer, closeFn, err := OpenCommissionWriter(context.Background(), config.GCPConfig{}, cfg, logg)
	if err == nil {
		t.Fatal("expected error without a gcp project")
	}
	if writer != nil || closeFn == nil {
		t.Fatal("expected nil writer and a usable closer on failure")
	}
}
