// Package di provides the dependency container shared by the CLI commands
package di

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ssargent/etlcdb/pkg/charcode"
	"github.com/ssargent/etlcdb/pkg/codetable"
	"github.com/ssargent/etlcdb/pkg/config"
	"github.com/ssargent/etlcdb/pkg/metrics"
	"github.com/ssargent/etlcdb/pkg/record"
	"github.com/ssargent/etlcdb/pkg/schema"
)

// TableLoader loads a CO-59 code table from path
type TableLoader func(path string) (*codetable.Table, error)

// Container holds all the dependencies for the application
type Container struct {
	config  *config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics

	loadTable TableLoader
	tableOnce sync.Once
	table     *codetable.Table
	tableErr  error
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config, logger *slog.Logger) *Container {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Container{
		config:    cfg,
		logger:    logger,
		metrics:   metrics.New(),
		loadTable: codetable.LoadFile,
	}
}

// Config returns the effective configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the application logger
func (c *Container) Logger() *slog.Logger {
	return c.logger
}

// Metrics returns the process-wide metrics
func (c *Container) Metrics() *metrics.Metrics {
	return c.metrics
}

// SetTableLoader allows overriding the code table loader (for testing)
func (c *Container) SetTableLoader(loader TableLoader) {
	c.loadTable = loader
}

// CodeTable loads the configured code table on first use
func (c *Container) CodeTable() (*codetable.Table, error) {
	c.tableOnce.Do(func() {
		c.table, c.tableErr = c.loadTable(c.config.CodeTable)
		if c.tableErr == nil {
			c.logger.Debug("code table loaded", "path", c.config.CodeTable, "entries", c.table.Len())
		}
	})
	return c.table, c.tableErr
}

// Schema resolves the record layout for path. An explicit format wins over
// detection from the file name.
func (c *Container) Schema(path, format string) (*schema.Schema, error) {
	if format != "" {
		return schema.Lookup(strings.ToUpper(format))
	}
	return schema.Detect(filepath.Base(path))
}

// Decoder builds a record decoder for s. The code table is only loaded for
// schemas that need it.
func (c *Container) Decoder(s *schema.Schema) (*record.Decoder, error) {
	if !s.NeedsCodeTable() {
		return record.NewDecoder(s, charcode.NewDecoder(nil)), nil
	}
	table, err := c.CodeTable()
	if err != nil {
		return nil, fmt.Errorf("%s needs the CO-59 code table: %w", s.Name, err)
	}
	return record.NewDecoder(s, charcode.NewDecoder(table)), nil
}

// OpenSession opens path as a record session, skipping its header records
func (c *Container) OpenSession(path, format string) (*record.Session, error) {
	s, err := c.Schema(path, format)
	if err != nil {
		return nil, err
	}
	dec, err := c.Decoder(s)
	if err != nil {
		return nil, err
	}
	sess, err := record.OpenFile(path, dec, s.SkipRecords)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("file opened", "path", path, "format", s.Name, "records", sess.Len())
	return sess, nil
}
