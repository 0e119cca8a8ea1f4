package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// InsertExport records a new pending export.
func InsertExport(db *sql.DB, e Export) error {
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := db.Exec(InsertExportSQL,
		e.ID, e.VideoPath, e.StartFrame, e.EndFrame, e.OutputPath, e.RecordPath, e.Origin, createdAt.UTC())
	if err != nil {
		return fmt.Errorf("insert export: %w", err)
	}
	return nil
}

// MarkExportProcessing sets status=processing and started_at.
func MarkExportProcessing(db *sql.DB, id string, startedAt time.Time) error {
	return execOne(db, "mark export processing", MarkExportProcessingSQL, startedAt.UTC(), id)
}

// MarkExportComplete sets status=complete with the number of frames written and the output size.
func MarkExportComplete(db *sql.DB, id string, finishedAt time.Time, frames int, size int64) error {
	return execOne(db, "mark export complete", MarkExportCompleteSQL, finishedAt.UTC(), frames, size, id)
}

// MarkExportError sets status=error with the error message.
func MarkExportError(db *sql.DB, id string, finishedAt time.Time, msg string) error {
	return execOne(db, "mark export error", MarkExportErrorSQL, finishedAt.UTC(), msg, id)
}

// MarkExportCancelled sets status=cancelled.
func MarkExportCancelled(db *sql.DB, id string, finishedAt time.Time) error {
	return execOne(db, "mark export cancelled", MarkExportCancelledSQL, finishedAt.UTC(), id)
}

// SelectExports returns the most recent exports, newest first.
func SelectExports(db *sql.DB, limit int) ([]Export, error) {
	rows, err := db.Query(SelectExportsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("select exports: %w", err)
	}
	defer rows.Close()

	var exports []Export
	for rows.Next() {
		e, err := scanExport(rows)
		if err != nil {
			return nil, err
		}
		exports = append(exports, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exports: %w", err)
	}
	return exports, nil
}

// SelectExportByID returns the export with the given id, or nil if none exists.
func SelectExportByID(db *sql.DB, id string) (*Export, error) {
	e, err := scanExport(db.QueryRow(SelectExportByIDSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExport(s scanner) (*Export, error) {
	var (
		e          Export
		startedAt  sql.NullTime
		finishedAt sql.NullTime
	)
	err := s.Scan(&e.ID, &e.VideoPath, &e.StartFrame, &e.EndFrame, &e.OutputPath, &e.RecordPath,
		&e.Origin, &e.Status, &e.FramesWritten, &e.OutputSize, &e.Error, &e.CreatedAt, &startedAt, &finishedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan export: %w", err)
	}
	if startedAt.Valid {
		e.StartedAt = &startedAt.Time
	}
	if finishedAt.Valid {
		e.FinishedAt = &finishedAt.Time
	}
	return &e, nil
}

func execOne(db *sql.DB, what, query string, args ...any) error {
	result, err := db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: no export with that id", what)
	}
	return nil
}
