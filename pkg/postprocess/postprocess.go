// SPDX-License-Identifier: Apache-2.0

package postprocess

import (
	"context"
	"errors"
	"fmt"
	"time"

	pglib "github.com/xataio/pgshift/internal/postgres"
	loglib "github.com/xataio/pgshift/pkg/log"
)

// Task is a post-processing step run once all tables are loaded.
type Task struct {
	Name string
	SQL  *SQLTask
}

// SQLTask executes a statement against any postgres database, not
// necessarily the destination.
type SQLTask struct {
	ConnectionURL string
	SQL           string
}

type Runner struct {
	logger         loglib.Logger
	querierBuilder pglib.QuerierBuilder
}

type Option func(r *Runner)

var ErrInvalidTask = errors.New("invalid post-processing task")

func New(querierBuilder pglib.QuerierBuilder, opts ...Option) *Runner {
	r := &Runner{
		logger:         loglib.NewNoopLogger(),
		querierBuilder: querierBuilder,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func WithLogger(l loglib.Logger) Option {
	return func(r *Runner) {
		r.logger = loglib.NewModuleLogger(l, "postprocess")
	}
}

func (t *Task) Validate() error {
	switch {
	case t.Name == "":
		return fmt.Errorf("%w: missing name", ErrInvalidTask)
	case t.SQL == nil:
		return fmt.Errorf("%w: task %q has no sql configuration", ErrInvalidTask, t.Name)
	case t.SQL.ConnectionURL == "":
		return fmt.Errorf("%w: task %q has no connection url", ErrInvalidTask, t.Name)
	case t.SQL.SQL == "":
		return fmt.Errorf("%w: task %q has no statement", ErrInvalidTask, t.Name)
	}
	return nil
}

// Run executes the tasks in order and stops at the first failure.
func (r *Runner) Run(ctx context.Context, tasks []Task) error {
	for i := range tasks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.runTask(ctx, &tasks[i]); err != nil {
			return fmt.Errorf("post-processing task %q: %w", tasks[i].Name, err)
		}
	}
	return nil
}

func (r *Runner) runTask(ctx context.Context, task *Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	start := time.Now()
	querier, err := r.querierBuilder(ctx, task.SQL.ConnectionURL)
	if err != nil {
		return err
	}
	defer func() {
		if err := querier.Close(ctx); err != nil {
			r.logger.Warn(err, "closing post-processing connection", loglib.Fields{"task": task.Name})
		}
	}()

	tag, err := querier.Exec(ctx, task.SQL.SQL)
	if err != nil {
		return pglib.MapError(err)
	}

	r.logger.Info("post-processing task completed", loglib.Fields{
		"task":          task.Name,
		"rows_affected": tag.RowsAffected(),
		"elapsed":       time.Since(start).String(),
	})
	return nil
}
