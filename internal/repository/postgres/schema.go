package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"docprocessor/internal/model"
	"docprocessor/internal/repository"
)

const (
	documentsSchema = "dps_dbo"
	documentsTable  = "documents"
	documentsTableQ = documentsSchema + "." + documentsTable

	colID        = "id"
	colStatus    = "status"
	colIsDeleted = "isdeleted"
)

// ErrSchemaMismatch is returned by VerifySchema when the table does not match DocumentSchema.
var ErrSchemaMismatch = errors.New("documents table does not match mapping")

// Column binds one Document field to a storage column.
type Column struct {
	Field string
	Name  string

	// Integer marks columns whose values are integer-encoded on every read and write.
	Integer bool
	// Generated columns are assigned by the database and never written.
	Generated bool
	// Immutable columns are written on insert but not by Update.
	Immutable bool

	encode func(d *model.Document) any
	decode func(d *model.Document) any
}

// DocumentSchema is the explicit mapping of Document onto dps_dbo.documents.
// Order is significant: it defines the column order of every generated statement.
var DocumentSchema = []Column{
	{
		Field: "ID", Name: colID, Generated: true,
		encode: func(d *model.Document) any { return d.ID },
		decode: func(d *model.Document) any { return &d.ID },
	},
	{
		Field: "FileName", Name: "filename",
		encode: func(d *model.Document) any { return d.FileName },
		decode: func(d *model.Document) any { return &d.FileName },
	},
	{
		Field: "OriginalFileName", Name: "originalfilename",
		encode: func(d *model.Document) any { return d.OriginalFileName },
		decode: func(d *model.Document) any { return &d.OriginalFileName },
	},
	{
		Field: "FileExtension", Name: "fileextension",
		encode: func(d *model.Document) any { return d.FileExtension },
		decode: func(d *model.Document) any { return &d.FileExtension },
	},
	{
		Field: "FileSize", Name: "filesize",
		encode: func(d *model.Document) any { return d.FileSize },
		decode: func(d *model.Document) any { return &d.FileSize },
	},
	{
		Field: "ContentType", Name: "contenttype",
		encode: func(d *model.Document) any { return d.ContentType },
		decode: func(d *model.Document) any { return &d.ContentType },
	},
	{
		Field: "StoragePath", Name: "storagepath",
		encode: func(d *model.Document) any { return d.StoragePath },
		decode: func(d *model.Document) any { return &d.StoragePath },
	},
	{
		Field: "Status", Name: colStatus, Integer: true,
		encode: func(d *model.Document) any { return encodeStatus(d.Status) },
		decode: func(d *model.Document) any { return statusColumn{dst: &d.Status} },
	},
	{
		Field: "Summary", Name: "summary",
		encode: func(d *model.Document) any { return encodeSummary(d.Summary) },
		decode: func(d *model.Document) any { return &d.Summary },
	},
	{
		Field: "UploadedBy", Name: "uploadedby",
		encode: func(d *model.Document) any { return d.UploadedBy },
		decode: func(d *model.Document) any { return &d.UploadedBy },
	},
	{
		Field: "IsDeleted", Name: colIsDeleted, Integer: true, Immutable: true,
		encode: func(d *model.Document) any { return encodeFlag(d.IsDeleted) },
		decode: func(d *model.Document) any { return flagColumn{dst: &d.IsDeleted} },
	},
}

func encodeStatus(s model.DocumentStatus) int64 { return int64(s) }

func encodeFlag(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func encodeSummary(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// statusColumn decodes an integer column into a DocumentStatus.
type statusColumn struct{ dst *model.DocumentStatus }

func (c statusColumn) Scan(src any) error {
	n, err := scanInt(src)
	if err != nil {
		return fmt.Errorf("%s: %w", colStatus, err)
	}
	*c.dst = model.DocumentStatus(n)
	return nil
}

// flagColumn decodes an integer column into a bool; any non-zero value is true.
type flagColumn struct{ dst *bool }

func (c flagColumn) Scan(src any) error {
	n, err := scanInt(src)
	if err != nil {
		return fmt.Errorf("%s: %w", colIsDeleted, err)
	}
	*c.dst = n != 0
	return nil
}

func scanInt(src any) (int64, error) {
	switch v := src.(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int:
		return int64(v), nil
	case []byte:
		return strconv.ParseInt(string(v), 10, 64)
	case string:
		return strconv.ParseInt(v, 10, 64)
	case nil:
		return 0, errors.New("unexpected NULL integer")
	default:
		return 0, fmt.Errorf("unsupported integer source %T", src)
	}
}

func columnNames(pick func(Column) bool) []string {
	names := make([]string, 0, len(DocumentSchema))
	for _, c := range DocumentSchema {
		if pick(c) {
			names = append(names, c.Name)
		}
	}
	return names
}

func readable(Column) bool { return true }

func insertable(c Column) bool { return !c.Generated }

func updatable(c Column) bool { return !c.Generated && !c.Immutable }

// encodeArgs returns the encoded values of the columns selected by pick, in schema order.
func encodeArgs(d *model.Document, pick func(Column) bool) []any {
	args := make([]any, 0, len(DocumentSchema))
	for _, c := range DocumentSchema {
		if pick(c) {
			args = append(args, c.encode(d))
		}
	}
	return args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var d model.Document
	dest := make([]any, len(DocumentSchema))
	for i, c := range DocumentSchema {
		dest[i] = c.decode(&d)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &d, nil
}

// visibility returns the default-scope predicate for scope, or "" when unrestricted.
func visibility(scope repository.Scope) string {
	if scope == repository.ScopeWithDeleted {
		return ""
	}
	return colIsDeleted + " = 0"
}

// where joins the non-empty conditions into a WHERE clause.
func where(conds ...string) string {
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		if c != "" {
			parts = append(parts, c)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(parts, " AND ")
}

var integerTypes = map[string]bool{"smallint": true, "integer": true, "bigint": true}

// VerifySchema checks dps_dbo.documents against DocumentSchema: every mapped column must exist
// and integer-encoded columns must have an integer type.
func VerifySchema(ctx context.Context, db *sql.DB) error {
	const q = `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
	`
	rows, err := db.QueryContext(ctx, q, documentsSchema, documentsTable)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", documentsTableQ, err)
	}
	defer rows.Close()

	actual := make(map[string]string)
	for rows.Next() {
		var name, typ string
		if err := rows.Scan(&name, &typ); err != nil {
			return fmt.Errorf("inspect %s: %w", documentsTableQ, err)
		}
		actual[strings.ToLower(name)] = strings.ToLower(typ)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("inspect %s: %w", documentsTableQ, err)
	}

	if len(actual) == 0 {
		return fmt.Errorf("%w: table %s not found", ErrSchemaMismatch, documentsTableQ)
	}

	var problems []string
	for _, c := range DocumentSchema {
		typ, ok := actual[c.Name]
		if !ok {
			problems = append(problems, fmt.Sprintf("column %s (%s) missing", c.Name, c.Field))
			continue
		}
		if c.Integer && !integerTypes[typ] {
			problems = append(problems, fmt.Sprintf("column %s has type %s, want integer", c.Name, typ))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrSchemaMismatch, strings.Join(problems, "; "))
	}
	return nil
}
