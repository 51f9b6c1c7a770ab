package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hotelbook/infras/otel"
	"hotelbook/infras/postgres"
	"hotelbook/shared/constant"
	"hotelbook/shared/dto"
	"hotelbook/shared/logger"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"
)

var (
	errRequiredFilter = errors.New("required filter")
	errEmptyUpdate    = errors.New("nothing to update")
)

type execer interface {
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

type queryer interface {
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
}

// Repository is the table gateway shared by every domain. T is a struct whose
// `db` tags name the columns of table, embedded structs included. Every write
// has a Tx variant so services can compose them inside postgres.Transactor.
type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entitas       string
	primaryColumn string
	InsertColumns []string
}

func NewRepository[T any](entitasName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	return Repository[T]{
		db:            dbConnection,
		otel:          otl,
		table:         tableName,
		entitas:       entitasName,
		primaryColumn: primaryColumn,
		InsertColumns: columnsOf(reflect.TypeOf(zero)),
	}
}

func (repo *Repository[T]) span(ctx context.Context, operation string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entitas, operation))
}

// fail logs and traces a storage error and wraps it with the entity name.
func (repo *Repository[T]) fail(scope otel.Scope, action string, err error) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	return fmt.Errorf("failed to %s (%s): %w", action, repo.entitas, err)
}

func (repo *Repository[T]) exec(ctx context.Context, scope otel.Scope, exec execer, action, query string, arg any) error {
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := exec.NamedExecContext(ctx, query, arg); err != nil {
		return repo.fail(scope, action, err)
	}

	return nil
}

// prepare returns a named statement the caller must close.
func (repo *Repository[T]) prepare(ctx context.Context, scope otel.Scope, q queryer, query string) (*sqlx.NamedStmt, error) {
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	stmt, err := q.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, repo.fail(scope, "prepare statement", err)
	}

	return stmt, nil
}

func (repo *Repository[T]) insert(ctx context.Context, exec execer, operation string, model T) error {
	ctx, scope := repo.span(ctx, operation)
	defer scope.End()

	placeholders := make([]string, len(repo.InsertColumns))
	for i, col := range repo.InsertColumns {
		placeholders[i] = ":" + col
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", repo.table, strings.Join(repo.InsertColumns, ", "), strings.Join(placeholders, ", "))

	return repo.exec(ctx, scope, exec, "insert data", query, model)
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	return repo.insert(ctx, repo.db.Write, "Insert", model)
}

func (repo *Repository[T]) InsertTx(ctx context.Context, sqltx *sqlx.Tx, model T) error {
	return repo.insert(ctx, sqltx, "InsertTx", model)
}

func (repo *Repository[T]) exist(ctx context.Context, q queryer, operation string, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.span(ctx, operation)
	defer scope.End()

	where, args := repo.where(filter)
	if where == "" {
		return false, errRequiredFilter
	}

	stmt, err := repo.prepare(ctx, scope, q, fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s %s)", repo.table, where))
	if err != nil {
		return false, err
	}
	defer stmt.Close()

	var exist bool
	if err = stmt.GetContext(ctx, &exist, args); err != nil {
		return false, repo.fail(scope, "check exist data", err)
	}

	return exist, nil
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	return repo.exist(ctx, repo.db.Read, "Exist", filter)
}

func (repo *Repository[T]) ExistTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup) (bool, error) {
	return repo.exist(ctx, sqltx, "ExistTx", filter)
}

// get returns the zero T when nothing matches. lock appends FOR UPDATE so the
// row stays locked until the surrounding transaction ends.
func (repo *Repository[T]) get(ctx context.Context, q queryer, operation string, filter dto.FilterGroup, lock bool, columns ...string) (T, error) {
	ctx, scope := repo.span(ctx, operation)
	defer scope.End()

	var model T

	where, args := repo.where(filter)
	query := fmt.Sprintf("SELECT %s FROM %s %s", repo.selectList(columns), repo.table, where)

	if lock {
		query += " FOR UPDATE"
	}

	stmt, err := repo.prepare(ctx, scope, q, query)
	if err != nil {
		return model, err
	}
	defer stmt.Close()

	err = stmt.GetContext(ctx, &model, args)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return model, nil
	case err != nil:
		return model, repo.fail(scope, "get data", err)
	}

	return model, nil
}

func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, repo.db.Read, "Get", filter, false, columns...)
}

func (repo *Repository[T]) GetTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, sqltx, "GetTx", filter, false, columns...)
}

func (repo *Repository[T]) GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, sqltx, "GetForUpdateTx", filter, true, columns...)
}

func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	ctx, scope := repo.span(ctx, "GetAll")
	defer scope.End()

	where, args := repo.where(filter)
	query := strings.Join(slices.DeleteFunc([]string{
		fmt.Sprintf("SELECT %s FROM %s", repo.selectList(columns), repo.table),
		where,
		repo.orderBy(params),
		paginate(params, args),
	}, func(part string) bool { return part == "" }), " ")

	stmt, err := repo.prepare(ctx, scope, repo.db.Read, query)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var models []T
	if err = stmt.SelectContext(ctx, &models, args); err != nil {
		return nil, repo.fail(scope, "get all data", err)
	}

	return models, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.span(ctx, "Count")
	defer scope.End()

	where, args := repo.where(filter)

	stmt, err := repo.prepare(ctx, scope, repo.db.Read, fmt.Sprintf("SELECT COUNT(%s) FROM %s %s", repo.primaryColumn, repo.table, where))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	var count int
	if err = stmt.GetContext(ctx, &count, args); err != nil {
		return 0, repo.fail(scope, "count data", err)
	}

	return count, nil
}

func (repo *Repository[T]) delete(ctx context.Context, exec execer, operation string, filter dto.FilterGroup) error {
	ctx, scope := repo.span(ctx, operation)
	defer scope.End()

	where, args := repo.where(filter)
	if where == "" {
		return errRequiredFilter
	}

	return repo.exec(ctx, scope, exec, "delete data", fmt.Sprintf("DELETE FROM %s %s", repo.table, where), args)
}

func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	return repo.delete(ctx, repo.db.Write, "Delete", filter)
}

func (repo *Repository[T]) DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup) error {
	return repo.delete(ctx, sqltx, "DeleteTx", filter)
}

// update sets the columns named by mod's keys. Keys must not collide with the
// filter's argument names.
func (repo *Repository[T]) update(ctx context.Context, exec execer, operation string, mod map[string]any, filter dto.FilterGroup) error {
	ctx, scope := repo.span(ctx, operation)
	defer scope.End()

	if len(mod) == 0 {
		return errEmptyUpdate
	}

	where, args := repo.where(filter)
	if where == "" {
		return errRequiredFilter
	}

	assignments := make([]string, 0, len(mod))
	for _, col := range slices.Sorted(maps.Keys(mod)) {
		assignments = append(assignments, fmt.Sprintf("%s = :%s", col, col))
	}

	maps.Copy(args, mod)

	return repo.exec(ctx, scope, exec, "update data", fmt.Sprintf("UPDATE %s SET %s %s", repo.table, strings.Join(assignments, ", "), where), args)
}

func (repo *Repository[T]) Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) error {
	return repo.update(ctx, repo.db.Write, "Update", mod, filter)
}

func (repo *Repository[T]) UpdateTx(ctx context.Context, sqltx *sqlx.Tx, mod map[string]any, filter dto.FilterGroup) error {
	return repo.update(ctx, sqltx, "UpdateTx", mod, filter)
}

func (repo *Repository[T]) selectList(columns []string) string {
	selected := make([]string, 0, len(repo.InsertColumns))

	for _, col := range repo.InsertColumns {
		if len(columns) > 0 && !slices.Contains(columns, col) {
			continue
		}

		selected = append(selected, repo.table+"."+col)
	}

	return strings.Join(selected, ", ")
}

// orderBy only accepts mapped columns, sort_by comes straight from the query string.
func (repo *Repository[T]) orderBy(params dto.QueryParams) string {
	if params.SortBy == "" || params.SortDir == "" || !slices.Contains(repo.InsertColumns, params.SortBy) {
		return ""
	}

	return fmt.Sprintf("ORDER BY %s.%s %s", repo.table, params.SortBy, params.SortDir)
}

func paginate(params dto.QueryParams, args map[string]any) string {
	switch {
	case params.Limit <= 0:
		return ""
	case params.Page > 0:
		args["limit"] = params.Limit
		args["offset"] = (params.Page - 1) * params.Limit

		return "LIMIT :limit OFFSET :offset"
	default:
		args["limit"] = params.Limit

		return "LIMIT :limit"
	}
}

func (repo *Repository[T]) where(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return "WHERE " + where, args
}

// columnsOf walks the db tags of t, descending into embedded structs.
func columnsOf(t reflect.Type) []string {
	var columns []string

	for i := range t.NumField() {
		field := t.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			columns = append(columns, columnsOf(field.Type)...)

			continue
		}

		if tag := field.Tag.Get("db"); tag != "" && tag != "-" {
			columns = append(columns, tag)
		}
	}

	return columns
}
