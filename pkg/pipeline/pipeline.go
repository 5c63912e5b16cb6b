// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/xataio/pgshift/internal/progress"
	loglib "github.com/xataio/pgshift/pkg/log"
	"github.com/xataio/pgshift/pkg/transform"
	"github.com/xataio/pgshift/pkg/transformers"
)

// Pipeline streams the rows of each table through its transformation plan
// into the sink, one table at a time and one row at a time.
type Pipeline struct {
	logger      loglib.Logger
	source      Source
	querySource QuerySource
	sink        Sink
	builder     transformerBuilder
	barBuilder  progress.BarBuilder
	afterTable  TableHook

	transformers map[string]transform.ColumnTransformers
}

type transformerBuilder interface {
	New(*transformers.Config) (transformers.Transformer, error)
}

// TableHook is called once a table artifact has been committed.
type TableHook func(ctx context.Context, table *Table) error

type Option func(p *Pipeline)

// columns configured with the noop transformer are passed through
const noopTransformer = "noop"

func New(source Source, sink Sink, builder transformerBuilder, opts ...Option) *Pipeline {
	p := &Pipeline{
		logger:       loglib.NewNoopLogger(),
		source:       source,
		sink:         sink,
		builder:      builder,
		transformers: map[string]transform.ColumnTransformers{},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func WithLogger(l loglib.Logger) Option {
	return func(p *Pipeline) {
		p.logger = loglib.NewModuleLogger(l, "pipeline")
	}
}

func WithQuerySource(q QuerySource) Option {
	return func(p *Pipeline) {
		p.querySource = q
	}
}

// WithProgressTracking renders a progress bar per table using the given
// builder, progress.NewRowsBar by default.
func WithProgressTracking(builder progress.BarBuilder) Option {
	return func(p *Pipeline) {
		if builder == nil {
			builder = progress.NewRowsBar
		}
		p.barBuilder = builder
	}
}

func WithAfterTableHook(hook TableHook) Option {
	return func(p *Pipeline) {
		p.afterTable = hook
	}
}

// Prepare validates the tables and builds all their transformers. Every
// configuration error found is returned, before any row is processed.
func (p *Pipeline) Prepare(tables []Table) error {
	var errs []error
	seen := make(map[string]struct{}, len(tables))
	for i := range tables {
		table := &tables[i]
		if _, found := seen[table.Name]; found {
			errs = append(errs, newTableError(table.Name, -1, fmt.Errorf("%w: table declared more than once", transform.ErrConfiguration)))
			continue
		}
		seen[table.Name] = struct{}{}

		columnTransformers, err := p.buildTransformers(table)
		if err != nil {
			errs = append(errs, newTableError(table.Name, -1, err))
			continue
		}
		p.transformers[table.Name] = columnTransformers
	}
	return errors.Join(errs...)
}

// Run prepares and processes the tables in order. A failed table does not
// stop the following ones, all table errors are returned at the end.
func (p *Pipeline) Run(ctx context.Context, tables []Table) error {
	if err := p.Prepare(tables); err != nil {
		return err
	}

	var errs []error
	for i := range tables {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, err)...)
		}

		table := &tables[i]
		if err := p.ProcessTable(ctx, table); err != nil {
			p.logger.Error(err, "processing table", loglib.TableFields(table.Name))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ProcessTable streams the rows of the table into a new artifact. On any
// failure the artifact is aborted and a *TableError is returned.
func (p *Pipeline) ProcessTable(ctx context.Context, table *Table) error {
	columnTransformers, found := p.transformers[table.Name]
	if !found {
		var err error
		if columnTransformers, err = p.buildTransformers(table); err != nil {
			return newTableError(table.Name, -1, err)
		}
	}

	columns, rows, total, err := p.openRows(ctx, table)
	if err != nil {
		if errors.Is(err, ErrSourceUnavailable) {
			p.logger.Info("no data to transform, skipping table", loglib.TableFields(table.Name))
			return nil
		}
		return newTableError(table.Name, -1, err)
	}
	defer rows.Close()

	plan, err := transform.NewPlan(columns, columnTransformers)
	if err != nil {
		return newTableError(table.Name, -1, err)
	}

	writer, err := p.sink.Open(ctx, table.Name, columns)
	if err != nil {
		return newTableError(table.Name, -1, fmt.Errorf("opening table writer: %w", err))
	}

	var bar progress.Bar
	if p.barBuilder != nil {
		bar = p.barBuilder(total, fmt.Sprintf("[cyan]%s[reset]", table.Name))
		defer bar.Close()
	}

	nullReporter, _ := rows.(NullReporter)
	nullWriter, _ := writer.(NullWriter)

	start := time.Now()
	index := 0
	for ; ; index++ {
		row, err := rows.Read(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return p.abort(writer, newTableError(table.Name, index, fmt.Errorf("reading row: %w", err)))
		}

		out, err := plan.Apply(ctx, index, row)
		if err != nil {
			return p.abort(writer, newTableError(table.Name, index, err))
		}

		if nullReporter != nil && nullWriter != nil {
			err = nullWriter.WriteWithNulls(out, plan.Nulls(nullReporter.Nulls(), out))
		} else {
			err = writer.Write(out)
		}
		if err != nil {
			return p.abort(writer, newTableError(table.Name, index, fmt.Errorf("writing row: %w", err)))
		}

		if bar != nil {
			bar.Add(1)
		}
	}

	if err := writer.Commit(ctx); err != nil {
		return newTableError(table.Name, -1, fmt.Errorf("committing table: %w", err))
	}

	p.logger.Info("table transformed", loglib.TableFields(table.Name, loglib.Fields{
		loglib.RowsField: index,
		"duration":       time.Since(start).String(),
	}))

	if p.afterTable != nil {
		if err := p.afterTable(ctx, table); err != nil {
			return newTableError(table.Name, -1, err)
		}
	}

	return nil
}

func (p *Pipeline) buildTransformers(table *Table) (transform.ColumnTransformers, error) {
	mode, err := table.Mode()
	if err != nil {
		return nil, err
	}

	if mode == ModeDerive && p.querySource == nil {
		return nil, ErrQuerySourceRequired
	}

	var errs []error
	columnTransformers := make(transform.ColumnTransformers, len(table.Transformations))
	for _, tr := range table.Transformations {
		if _, found := columnTransformers[tr.Column]; found {
			errs = append(errs, fmt.Errorf("%w: more than one transformation for column %q", transform.ErrConfiguration, tr.Column))
			continue
		}

		if tr.Transformer.Name == "" || tr.Transformer.Name == noopTransformer {
			columnTransformers[tr.Column] = nil
			continue
		}

		cfg := tr.Transformer
		t, err := p.builder.New(&cfg)
		if err != nil {
			errs = append(errs, fmt.Errorf("column %q: %w", tr.Column, err))
			continue
		}
		columnTransformers[tr.Column] = t
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	// pass-through rules give a generated table nothing to fill its rows with
	if mode == ModeGenerate && !hasTransformer(columnTransformers) {
		return nil, ErrNoTransformationPlan
	}

	// declared columns can be checked before reading any row
	columns := table.Columns
	if mode == ModeGenerate {
		columns = table.generatedColumns()
	}
	if len(columns) > 0 {
		if _, err := transform.NewPlan(columns, columnTransformers); err != nil {
			return nil, err
		}
	}

	return columnTransformers, nil
}

func (p *Pipeline) openRows(ctx context.Context, table *Table) ([]string, RowReader, int64, error) {
	mode, err := table.Mode()
	if err != nil {
		return nil, nil, 0, err
	}

	switch mode {
	case ModeGenerate:
		columns := table.generatedColumns()
		return columns, newGeneratedRows(len(columns), table.Generate), int64(table.Generate), nil

	case ModeDerive:
		columns, rows, err := p.querySource.Query(ctx, table.Query)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("querying derived table rows: %w", err)
		}
		if len(table.Columns) == 0 {
			return columns, rows, -1, nil
		}
		if len(table.Columns) != len(columns) {
			rows.Close()
			return nil, nil, 0, fmt.Errorf("%w: query returns %d columns, %d declared", transform.ErrDataIntegrity, len(columns), len(table.Columns))
		}
		return table.Columns, rows, -1, nil

	default:
		columns := table.Columns
		if len(columns) == 0 {
			if columns, err = p.source.Columns(ctx, table.Name); err != nil {
				return nil, nil, 0, err
			}
		}
		rows, err := p.source.Rows(ctx, table.Name)
		if err != nil {
			return nil, nil, 0, err
		}
		total := int64(-1)
		if counter, ok := p.source.(RowCounter); ok {
			if total, err = counter.Count(ctx, table.Name); err != nil {
				p.logger.Warn(err, "counting table rows", loglib.TableFields(table.Name))
				total = -1
			}
		}
		return columns, rows, total, nil
	}
}

func (p *Pipeline) abort(writer TableWriter, err *TableError) error {
	if abortErr := writer.Abort(); abortErr != nil {
		p.logger.Error(abortErr, "aborting table writer", loglib.TableFields(err.Table))
	}
	return err
}

func hasTransformer(columnTransformers transform.ColumnTransformers) bool {
	for _, t := range columnTransformers {
		if t != nil {
			return true
		}
	}
	return false
}
