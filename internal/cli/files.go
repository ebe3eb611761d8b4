package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"stockdesk/internal/domain"
	"stockdesk/internal/export"
	"stockdesk/internal/report"
	"stockdesk/internal/service"
)

// saveTable renders the table download into dest. The file is removed on error.
func saveTable(ctx context.Context, exports service.ExportService, domainName, name string, f domain.ReportFilter, p report.Params, format export.Format, dest string) (res *service.ExportResult, err error) {
	file, err := os.Create(dest)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", dest, err)
	}
	defer func() {
		cerr := file.Close()
		if err == nil && cerr != nil {
			err = fmt.Errorf("closing %s: %w", dest, cerr)
		}
		if err != nil {
			if rerr := os.Remove(dest); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
				err = errors.Join(err, rerr)
			}
			res = nil
		}
	}()
	return exports.Table(ctx, domainName, name, f, p, format, file)
}
