package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lexharvest/dedup-core/internal/core/domain"
	"github.com/lexharvest/dedup-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ReportStore = (*ReportStore)(nil)

// ReportStore implements driven.ReportStore using PostgreSQL
type ReportStore struct {
	db *DB
}

// NewReportStore creates a new ReportStore
func NewReportStore(db *DB) *ReportStore {
	return &ReportStore{db: db}
}

// Save stores a report
func (s *ReportStore) Save(ctx context.Context, report *domain.DuplicateReport) error {
	groups, err := json.Marshal(report.Groups)
	if err != nil {
		return fmt.Errorf("marshal groups: %w", err)
	}
	repeats, err := json.Marshal(report.CrossBatchRepeats)
	if err != nil {
		return fmt.Errorf("marshal cross batch repeats: %w", err)
	}

	query := `
		INSERT INTO dedup_reports (
			id, batch_id, documents_in, documents_out, duplicates_removed,
			groups, cross_batch_repeats, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = s.db.ExecContext(ctx, query,
		report.ID,
		report.BatchID,
		report.DocumentsIn,
		report.DocumentsOut,
		report.DuplicatesRemoved,
		groups,
		repeats,
		report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// Get retrieves a report by ID
func (s *ReportStore) Get(ctx context.Context, id string) (*domain.DuplicateReport, error) {
	return s.getBy(ctx, "id = $1", id)
}

// GetByBatch retrieves the most recent report for a batch
func (s *ReportStore) GetByBatch(ctx context.Context, batchID string) (*domain.DuplicateReport, error) {
	return s.getBy(ctx, "batch_id = $1", batchID)
}

func (s *ReportStore) getBy(ctx context.Context, where string, arg string) (*domain.DuplicateReport, error) {
	query := `
		SELECT id, batch_id, documents_in, documents_out, duplicates_removed,
			   groups, cross_batch_repeats, created_at
		FROM dedup_reports
		WHERE ` + where + `
		ORDER BY created_at DESC
		LIMIT 1
	`

	report, err := scanReport(s.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select report: %w", err)
	}
	return report, nil
}

// List retrieves recent reports, newest first
func (s *ReportStore) List(ctx context.Context, limit, offset int) ([]*domain.DuplicateReport, error) {
	query := `
		SELECT id, batch_id, documents_in, documents_out, duplicates_removed,
			   groups, cross_batch_repeats, created_at
		FROM dedup_reports
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("select reports: %w", err)
	}
	defer rows.Close()

	var reports []*domain.DuplicateReport
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

func scanReport(row rowScanner) (*domain.DuplicateReport, error) {
	var report domain.DuplicateReport
	var groups, repeats []byte

	err := row.Scan(
		&report.ID,
		&report.BatchID,
		&report.DocumentsIn,
		&report.DocumentsOut,
		&report.DuplicatesRemoved,
		&groups,
		&repeats,
		&report.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(groups) > 0 {
		if err := json.Unmarshal(groups, &report.Groups); err != nil {
			return nil, fmt.Errorf("unmarshal groups: %w", err)
		}
	}
	if len(repeats) > 0 {
		if err := json.Unmarshal(repeats, &report.CrossBatchRepeats); err != nil {
			return nil, fmt.Errorf("unmarshal cross batch repeats: %w", err)
		}
	}

	return &report, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}
