package db

import (
	_ "embed"
)

// Schema

//go:embed sql/create_tables.sql
var CreateTablesSQL string

// Export lifecycle

//go:embed sql/insert_export.sql
var InsertExportSQL string

//go:embed sql/mark_export_processing.sql
var MarkExportProcessingSQL string

//go:embed sql/mark_export_complete.sql
var MarkExportCompleteSQL string

//go:embed sql/mark_export_error.sql
var MarkExportErrorSQL string

//go:embed sql/mark_export_cancelled.sql
var MarkExportCancelledSQL string

// History views

//go:embed sql/select_exports.sql
var SelectExportsSQL string

//go:embed sql/select_export_by_id.sql
var SelectExportByIDSQL string
