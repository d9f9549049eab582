// Package ingest validates uploaded client rows and upserts the clean ones by MAC.
package ingest

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mohit83k/bngclients/internal/logger"
	"github.com/mohit83k/bngclients/internal/model"
	"github.com/mohit83k/bngclients/internal/tabular"
	"github.com/mohit83k/bngclients/internal/validate"
)

// Store is the part of the record store the ingest path writes to.
type Store interface {
	UpsertBatch(ctx context.Context, records []model.ClientRecord) error
	Delete(ctx context.Context, mac string) error
}

// Report summarises one upload.
type Report struct {
	Message       string              `json:"message"`
	Processed     int                 `json:"processed_records"`
	Valid         int                 `json:"valid_records"`
	Invalid       int                 `json:"invalid_records"`
	InvalidInfo   []validate.RowError `json:"invalid_info,omitempty"`
	RejectFile    string              `json:"reject_file,omitempty"`
	ArtifactError string              `json:"artifact_error,omitempty"`
}

// Service runs the ingestion pipeline.
type Service struct {
	Store   Store
	Rejects RejectSink
	Logger  logger.Logger
	now     func() time.Time
}

// NewService returns an ingest Service. rejects may be nil to skip reject files.
func NewService(store Store, rejects RejectSink, log logger.Logger) *Service {
	return &Service{
		Store:   store,
		Rejects: rejects,
		Logger:  log,
		now:     time.Now,
	}
}

// Ingest parses, validates and stores one tab-delimited upload.
// It returns model.ErrNoContent for an upload with no rows.
func (s *Service) Ingest(ctx context.Context, r io.Reader) (*Report, error) {
	rows, err := tabular.ReadRows(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, model.ErrNoContent
	}

	res := validate.Batch(rows)
	now := s.now()

	upserts := BuildUpserts(res.Valid, now)
	if err := s.Store.UpsertBatch(ctx, upserts); err != nil {
		return nil, model.Storage("Database update failed.", err)
	}

	report := &Report{
		Message:     "The data is processed.",
		Processed:   len(rows),
		Valid:       len(res.Valid),
		Invalid:     len(res.Invalid),
		InvalidInfo: res.Invalid,
	}

	if len(res.Invalid) > 0 && s.Rejects != nil {
		name, err := s.Rejects.WriteRejects(res.Invalid, now)
		if err != nil {
			report.ArtifactError = "Failed to save invalid records file."
			s.Logger.Error(fmt.Errorf("failed to write reject file: %w", err))
		} else {
			report.RejectFile = name
		}
	}

	s.Logger.WithFields(map[string]any{
		"processed": report.Processed,
		"stored":    len(upserts),
		"invalid":   report.Invalid,
		"rejects":   report.RejectFile,
	}).Info("Processed client upload")

	return report, nil
}

// IngestRecord validates and upserts a single row.
// A failing row is returned as *validate.RowError.
func (s *Service) IngestRecord(ctx context.Context, row model.Row) (model.ClientRecord, error) {
	rec, rowErr := validate.Row(row)
	if rowErr != nil {
		return model.ClientRecord{}, rowErr
	}

	recs := BuildUpserts([]model.ClientRecord{rec}, s.now())
	if err := s.Store.UpsertBatch(ctx, recs); err != nil {
		return model.ClientRecord{}, model.Storage("Database update failed.", err)
	}
	return recs[0], nil
}

// Remove deletes the client with the given MAC.
func (s *Service) Remove(ctx context.Context, mac string) error {
	if !validate.ValidMAC(mac) {
		return fmt.Errorf("invalid MAC %q", mac)
	}
	if err := s.Store.Delete(ctx, validate.CanonicalMAC(mac)); err != nil {
		return model.Storage("Database delete failed.", err)
	}
	return nil
}
