package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/jtejido/fingerknuckle"
	"github.com/jtejido/fingerknuckle/decision"
)

// References streams every enrolled pair in enrollment order.
func (s *Store) References(ctx context.Context) (decision.ReferenceIterator, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, finger, knuckle FROM prints ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("query prints: %w", err)
	}
	return &referenceRows{rows: rows}, nil
}

type referenceRows struct {
	rows *sql.Rows
}

// Next decodes the following row. A blob that fails to decode yields a
// reference without images, which the decision policy skips as a shape
// mismatch instead of aborting the run.
func (r *referenceRows) Next(ctx context.Context) (*decision.Reference, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate prints: %w", err)
		}
		return nil, io.EOF
	}
	var id string
	var fingerBlob, knuckleBlob []byte
	if err := r.rows.Scan(&id, &fingerBlob, &knuckleBlob); err != nil {
		return nil, fmt.Errorf("scan print: %w", err)
	}

	ref := &decision.Reference{ID: id}
	finger, fingerErr := fingerknuckle.ParseTemplate(fingerBlob)
	knuckle, knuckleErr := fingerknuckle.ParseTemplate(knuckleBlob)
	if fingerErr == nil && knuckleErr == nil {
		ref.Finger = finger.Rendered
		ref.Knuckle = knuckle.Rendered
	}
	return ref, nil
}

func (r *referenceRows) Close() error {
	return r.rows.Close()
}
