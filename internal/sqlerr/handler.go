package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/deppfellow/guests-api/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TablePrefix marks the table a "no rows" error refers to. Repositories
// wrap sql.ErrNoRows as "table:<name>: ..." so HandleError can name the
// missing entity.
const TablePrefix = "table:"

// ErrCode reports the mapped Code for err, or Other.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return ConvertSqliteError(liteErr).Code
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return MapCode(pgerr.Code)
	}

	return Other
}

// ConvertPgError converts a raw PostgreSQL error into an *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// sqliteConstraintTarget matches the "table.column" part of messages like
// "UNIQUE constraint failed: guests.guestid".
var sqliteConstraintTarget = regexp.MustCompile(`constraint failed: ([A-Za-z0-9_]+)\.([A-Za-z0-9_]+)`)

// ConvertSqliteError converts a mattn/go-sqlite3 error into an *Error.
//
// SQLite does not report table or column separately, so both are parsed
// out of the message when the constraint names them.
func ConvertSqliteError(src sqlite3.Error) *Error {
	code := Other

	switch src.Code {
	case sqlite3.ErrConstraint:
		switch src.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			code = UniqueViolation
		case sqlite3.ErrConstraintNotNull:
			code = NotNullViolation
		case sqlite3.ErrConstraintForeignKey:
			code = ForeignKeyViolation
		case sqlite3.ErrConstraintCheck:
			code = CheckViolation
		}
	case sqlite3.ErrBusy, sqlite3.ErrLocked:
		code = Busy
	case sqlite3.ErrReadonly:
		code = ReadOnly
	case sqlite3.ErrTooBig:
		code = StringDataTruncation
	}

	sqlErr := &Error{
		Code:         code,
		Severity:     SeverityError,
		DatabaseCode: strconv.Itoa(int(src.ExtendedCode)),
		Message:      src.Error(),
		driverErr:    src,
	}

	if matches := sqliteConstraintTarget.FindStringSubmatch(src.Error()); len(matches) == 3 {
		sqlErr.TableName = matches[1]
		sqlErr.ColumnName = matches[2]
	}

	return sqlErr
}

// generateErrorCode creates consistent application error codes from DB errors.
//
// Output format is <DOMAIN>_<ACTION>, e.g. guests + UniqueViolation => GUEST_ALREADY_EXISTS.
func generateErrorCode(tableName string, errType Code) string {
	if tableName == "" {
		tableName = "RECORD"
	}

	domain := strings.ToUpper(tableName)

	if strings.HasSuffix(domain, "S") && len(domain) > 1 {
		domain = domain[:len(domain)-1]
	}

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

// formatUserFriendlyMessage produces an end-user-facing error message.
func formatUserFriendlyMessage(sqlErr *Error) string {
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("the referenced %s does not exist", entityName)

	case UniqueViolation:
		// "identifier" is replaced by the column name when one is known.
		return fmt.Sprintf("%s with this identifier already exists", entityName)

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName infers a lowercase entity name from table/column data.
//
// A column like "user_id" wins, then the singularized table name, then "record".
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		entity := strings.TrimSuffix(strings.ToLower(columnName), "_id")
		return strings.ReplaceAll(entity, "_", " ")
	}

	if tableName != "" {
		entity := strings.ToLower(tableName)
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return strings.ReplaceAll(entity, "_", " ")
	}

	return "record"
}

// humanizeText converts snake_case into Title Case ("first_name" -> "First Name").
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

var uniqueKeySuffix = regexp.MustCompile(`_([^_]+)_(?:key|ukey|pkey)$`)

// extractColumnForUniqueViolation infers the column from a unique constraint
// name: "unique_<table>_<column>" or "<table>_<column>_(key|ukey|pkey)".
func extractColumnForUniqueViolation(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	matches := uniqueKeySuffix.FindStringSubmatch(constraintName)
	if len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// HandleError converts a low-level database error into an application-level error.
//
//   - *errs.HTTPError: returned unchanged
//   - SQLite / PostgreSQL constraint errors: 409 or 400
//   - sql.ErrNoRows / pgx.ErrNoRows: 404
//   - anything else: 500 carrying the error text
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var sqlErr *Error

	var liteErr sqlite3.Error
	var pgerr *pgconn.PgError
	switch {
	case errors.As(err, &liteErr):
		sqlErr = ConvertSqliteError(liteErr)
	case errors.As(err, &pgerr):
		sqlErr = ConvertPgError(pgerr)
	default:
		errors.As(err, &sqlErr)
	}

	if sqlErr != nil {
		errorCode := generateErrorCode(sqlErr.TableName, sqlErr.Code)
		userMessage := formatUserFriendlyMessage(sqlErr)

		switch sqlErr.Code {
		case ForeignKeyViolation:
			return errs.NewBadRequestError(userMessage, &errorCode, nil)

		case UniqueViolation:
			columnName := sqlErr.ColumnName
			if columnName == "" {
				columnName = extractColumnForUniqueViolation(sqlErr.ConstraintName)
			}
			if columnName != "" {
				userMessage = strings.ReplaceAll(userMessage, "identifier", columnName)
			}
			return errs.NewConflictError(userMessage, &errorCode)

		case NotNullViolation:
			fieldErrors := []string{
				fmt.Sprintf("%s is required", strings.ToLower(sqlErr.ColumnName)),
			}
			return errs.NewBadRequestError(userMessage, &errorCode, fieldErrors)

		case CheckViolation:
			return errs.NewBadRequestError(userMessage, &errorCode, nil)

		default:
			return errs.NewInternalServerError(err)
		}
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		errMsg := err.Error()
		if strings.Contains(errMsg, TablePrefix) {
			table := strings.Split(strings.Split(errMsg, TablePrefix)[1], ":")[0]
			return errs.NewNotFoundError(fmt.Sprintf("%s not found", getEntityName(table, "")), nil)
		}
		return errs.NewNotFoundError("resource not found", nil)
	}

	return errs.NewInternalServerError(err)
}
