package analytics

import (
	"context"
	"fmt"

	pkgbigquery "github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/bigquery"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/config"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/logger"
)

// OpenCommissionWriter connects to BigQuery and returns a commission writer
// with a closer for the underlying client. When export is disabled it returns
// a nil writer and a no-op closer.
func OpenCommissionWriter(ctx context.Context, gcp config.GCPConfig, cfg config.BigQueryConfig, logg *logger.Logger) (*CommissionWriter, func() error, error) {
	noop := func() error { return nil }
	if !cfg.Enabled {
		return nil, noop, nil
	}

	client, err := pkgbigquery.NewClient(ctx, gcp, cfg, logg)
	if err != nil {
		return nil, noop, fmt.Errorf("bigquery client: %w", err)
	}
	writer, err := NewCommissionWriter(client, Config{CommissionTable: cfg.CommissionTable})
	if err != nil {
		_ = client.Close()
		return nil, noop, err
	}
	return writer, client.Close, nil
}
