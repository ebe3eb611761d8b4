package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stockdesk/internal/domain"
	"stockdesk/internal/export"
	"stockdesk/internal/port"
	"stockdesk/internal/report"
)

// ExportResult describes a finished export.
type ExportResult struct {
	Filename string `json:"filename"`
	Bytes    int64  `json:"bytes"`
	// Key and URL are set for archived exports.
	Key string `json:"key,omitempty"`
	URL string `json:"url,omitempty"`
}

// ExportService writes report exports. Backend exports stream the API's CSV
// unchanged; table downloads render the current view locally.
type ExportService interface {
	// Stream copies the backend CSV to w. Partial output is possible on error.
	Stream(ctx context.Context, domainName, name string, f domain.ReportFilter, w io.Writer) (*ExportResult, error)
	// SaveFile writes the backend CSV to dest. The file is removed on error.
	SaveFile(ctx context.Context, domainName, name string, f domain.ReportFilter, dest string) (*ExportResult, error)
	// Archive uploads the backend CSV to object storage and returns a
	// presigned link.
	Archive(ctx context.Context, domainName, name string, f domain.ReportFilter) (*ExportResult, error)
	// Table renders every filtered row of the report view in format.
	Table(ctx context.Context, domainName, name string, f domain.ReportFilter, p report.Params, format export.Format, w io.Writer) (*ExportResult, error)
}

type exportService struct {
	reports ReportService
	storage port.ObjectStorage
	log     *zap.Logger
	now     func() time.Time
}

const presignExpirySeconds = 3600

// NewExportService creates a new ExportService. storage may be nil, which
// disables Archive.
func NewExportService(reports ReportService, storage port.ObjectStorage, log *zap.Logger) ExportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &exportService{reports: reports, storage: storage, log: log, now: time.Now}
}

func (s *exportService) Stream(ctx context.Context, domainName, name string, f domain.ReportFilter, w io.Writer) (*ExportResult, error) {
	d, info, err := s.reports.Export(ctx, domainName, name, f)
	if err != nil {
		return nil, err
	}
	defer func() { _ = d.Body.Close() }()

	res := &ExportResult{Filename: s.filename(d.Filename, info)}
	n, err := io.Copy(w, d.Body)
	res.Bytes = n
	if err != nil {
		return res, fmt.Errorf("streaming %s export: %w", info.Key, err)
	}
	return res, nil
}

func (s *exportService) SaveFile(ctx context.Context, domainName, name string, f domain.ReportFilter, dest string) (res *ExportResult, err error) {
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
				s.log.Warn("removing partial export failed", zap.String("path", dest), zap.Error(rerr))
			}
			res = nil
		}
	}()

	res, err = s.Stream(ctx, domainName, name, f, file)
	if err != nil {
		return nil, err
	}
	res.Filename = dest
	s.log.Info("export saved", zap.String("path", dest), zap.Int64("bytes", res.Bytes))
	return res, nil
}

func (s *exportService) Archive(ctx context.Context, domainName, name string, f domain.ReportFilter) (*ExportResult, error) {
	if s.storage == nil {
		return nil, domain.ErrStorageDisabled
	}
	// Buffer the whole file so a truncated download never reaches storage.
	var buf bytes.Buffer
	res, err := s.Stream(ctx, domainName, name, f, &buf)
	if err != nil {
		return nil, err
	}

	key := path.Join(domainName, name, uuid.New().String(), res.Filename)
	out, err := s.storage.Upload(ctx, port.UploadInput{
		Key:         key,
		Body:        &buf,
		ContentType: export.FormatCSV.ContentType(),
	})
	if err != nil {
		return nil, fmt.Errorf("archiving export: %w", err)
	}
	res.Key = out.Key
	url, err := s.storage.GetPresignedURL(ctx, out.Key, presignExpirySeconds)
	if err != nil {
		return nil, fmt.Errorf("presigning export: %w", err)
	}
	res.URL = url
	s.log.Info("export archived", zap.String("key", out.Key), zap.Int64("bytes", res.Bytes))
	return res, nil
}

func (s *exportService) Table(ctx context.Context, domainName, name string, f domain.ReportFilter, p report.Params, format export.Format, w io.Writer) (*ExportResult, error) {
	v, err := s.reports.RenderAll(ctx, domainName, name, f, p)
	if err != nil {
		return nil, err
	}
	cw := &countingWriter{w: w}
	if err := export.Write(cw, format, v.Report.Title, v.Table); err != nil {
		return nil, fmt.Errorf("writing %s download: %w", format, err)
	}
	return &ExportResult{
		Filename: export.BuildFilename(v.Report.Title, format, s.now()),
		Bytes:    cw.n,
	}, nil
}

// filename prefers the API's Content-Disposition name.
func (s *exportService) filename(fromAPI string, info report.Info) string {
	if fromAPI != "" {
		return path.Base(fromAPI)
	}
	return export.BuildFilename(info.Title, export.FormatCSV, s.now())
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
