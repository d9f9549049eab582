// Package export scans stored client records and renders role-specific downloads.
package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/mohit83k/bngclients/internal/model"
	"github.com/mohit83k/bngclients/internal/redisclient"
)

// Scanner is the part of the record store the export path reads from.
type Scanner interface {
	Scan(ctx context.Context, filter redisclient.Filter) ([]model.ClientRecord, error)
}

// Query is a validated export request.
type Query struct {
	Role   Role
	Format Format
	Filter Filter
}

// Result is a rendered export.
type Result struct {
	ContentType string
	Filename    string
	Records     int
	Body        []byte
}

// Service runs exports against a Scanner.
type Service struct {
	Store Scanner
}

// NewService returns an export Service.
func NewService(store Scanner) *Service {
	return &Service{Store: store}
}

// Export returns model.ErrNoContent when nothing matches.
func (s *Service) Export(ctx context.Context, q Query) (*Result, error) {
	records, err := s.Store.Scan(ctx, q.Filter)
	if err != nil {
		return nil, model.Storage("Database query failed.", err)
	}
	if len(records) == 0 {
		return nil, model.ErrNoContent
	}

	var buf bytes.Buffer
	if err := Encode(&buf, Project(records, q.Role), q.Format); err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	return &Result{
		ContentType: q.Format.ContentType(),
		Filename:    fmt.Sprintf("data_%s.%s", q.Filter.Describe(), q.Format),
		Records:     len(records),
		Body:        buf.Bytes(),
	}, nil
}
