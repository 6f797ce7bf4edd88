package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Типы ошибок базы данных.
const (
	ErrorTypeConnection = "connection"
	ErrorTypeSchema     = "schema"
	ErrorTypeConstraint = "constraint"
	ErrorTypeUnknown    = "unknown"
)

// Коды SQLSTATE, которые получают отдельное описание.
const (
	codeInvalidPassword     = "28P01"
	codeInvalidAuthSpec     = "28000"
	codeInvalidCatalogName  = "3D000"
	codeUndefinedTable      = "42P01"
	codeUndefinedColumn     = "42703"
	codeCheckViolation      = "23514"
	codeNotNullViolation    = "23502"
	codeUnknownErrorCode    = "UNKNOWN"
	defaultErrorDescription = "A database error occurred"
)

// ErrorInfo содержит понятное описание ошибки базы данных.
type ErrorInfo struct {
	Message string `json:"error"`
	Type    string `json:"type"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// DescribeError классифицирует ошибку драйвера по коду SQLSTATE.
// Для ошибок, не пришедших от сервера Postgres, возвращается тип unknown.
func DescribeError(err error) ErrorInfo {
	info := ErrorInfo{
		Message: defaultErrorDescription,
		Type:    ErrorTypeUnknown,
		Code:    codeUnknownErrorCode,
	}
	if err == nil {
		return info
	}
	info.Details = err.Error()

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		var connErr *pgconn.ConnectError
		if errors.As(err, &connErr) {
			info.Message = "Cannot connect to the database"
			info.Type = ErrorTypeConnection
			info.Details = "Check the database host, port and credentials"
		}
		return info
	}

	info.Code = pgErr.Code
	switch pgErr.Code {
	case codeInvalidPassword, codeInvalidAuthSpec:
		info.Message = "Cannot connect to the database - access denied"
		info.Type = ErrorTypeConnection
		info.Details = "Check your database username and password"
	case codeInvalidCatalogName:
		info.Message = "Database does not exist"
		info.Type = ErrorTypeConnection
		info.Details = "Create the configured database before starting the service"
	case codeUndefinedTable:
		info.Message = "Table does not exist"
		info.Type = ErrorTypeSchema
		info.Details = "Run the database migrations"
	case codeUndefinedColumn:
		info.Message = "Column does not exist in table"
		info.Type = ErrorTypeSchema
		info.Details = "The database schema needs to be updated"
	case codeCheckViolation, codeNotNullViolation:
		info.Message = "Value violates a table constraint"
		info.Type = ErrorTypeConstraint
		info.Details = pgErr.Message
	}

	return info
}
