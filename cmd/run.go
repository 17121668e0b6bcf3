// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"github.com/hashicorp/go-unarchive"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// CLI are the cli parameters for the unarchive binary
type CLI struct {
	Formats   []string         `short:"f" help:"Accepted archive formats (zip, rar4, rar5, 7z, tar). (default: all)"`
	Password  string           `short:"p" env:"UNARCHIVE_PASSWORD" help:"Password for encrypted rar and 7z archives."`
	Telemetry bool             `short:"T" help:"Print telemetry data to log after each operation."`
	Verbose   bool             `short:"v" help:"Verbose logging."`
	Version   kong.VersionFlag `short:"V" help:"Print release version information."`

	List ListCmd `cmd:"" help:"List the entries of an archive."`
	Info InfoCmd `cmd:"" help:"Summarize an archive."`
	Cat  CatCmd  `cmd:"" help:"Write the content of entries to stdout."`
}

// session is passed to the commands
type session struct {
	ctx    context.Context
	logger *slog.Logger
	opts   []unarchive.ConfigOption
	out    io.Writer
}

// open opens the archive with the cli options
func (s *session) open(path string) (*unarchive.Unarchiver, error) {
	u, err := unarchive.Open(s.ctx, path, s.opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %s", path)
	}
	return u, nil
}

// ListCmd lists the entries of an archive
type ListCmd struct {
	Archive string `arg:"" name:"archive" type:"existingfile" help:"Path to archive."`
}

// Run lists the entries as a table
func (c *ListCmd) Run(s *session) error {
	u, err := s.open(c.Archive)
	if err != nil {
		return err
	}
	defer u.Close()

	entries, err := u.Entries(s.ctx)
	if err != nil {
		return errors.Wrap(err, "cannot list entries")
	}
	w := tabwriter.NewWriter(s.out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tSIZE\tCOMPRESSED\tMODIFIED\tPATH")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n", e.Kind, e.UncompressedSize, e.CompressedSize, e.ModTime.Format("2006-01-02 15:04"), e.Path)
	}
	return w.Flush()
}

// InfoCmd summarizes an archive
type InfoCmd struct {
	Archive string `arg:"" name:"archive" type:"existingfile" help:"Path to archive."`
}

// Run prints the summary
func (c *InfoCmd) Run(s *session) error {
	u, err := s.open(c.Archive)
	if err != nil {
		return err
	}
	defer u.Close()

	info, err := u.Info(s.ctx)
	if err != nil {
		return errors.Wrap(err, "cannot read archive info")
	}
	fmt.Fprintf(s.out, "format:            %s\n", info.Format)
	fmt.Fprintf(s.out, "entries:           %d\n", info.EntryCount)
	fmt.Fprintf(s.out, "uncompressed size: %d\n", info.TotalUncompressedSize)
	fmt.Fprintf(s.out, "compressed size:   %d\n", info.TotalCompressedSize)
	fmt.Fprintf(s.out, "encrypted:         %t\n", info.IsEncrypted)
	return nil
}

// CatCmd writes entries to stdout
type CatCmd struct {
	Archive string   `arg:"" name:"archive" type:"existingfile" help:"Path to archive."`
	Entries []string `arg:"" name:"entries" help:"Paths of the entries inside the archive."`
	Limit   int64    `short:"n" default:"-1" help:"Write at most n bytes per entry. (disable: -1)"`
}

// Run extracts the requested entries concurrently and writes them in the
// order they were requested.
func (c *CatCmd) Run(s *session) error {
	u, err := s.open(c.Archive)
	if err != nil {
		return err
	}
	defer u.Close()

	entries, err := u.Entries(s.ctx)
	if err != nil {
		return errors.Wrap(err, "cannot list entries")
	}
	byPath := make(map[string]unarchive.Entry, len(entries))
	for _, e := range entries {
		byPath[e.Path] = e
	}

	selected := make([]unarchive.Entry, 0, len(c.Entries))
	for _, p := range c.Entries {
		e, ok := byPath[p]
		if !ok {
			return errors.Wrap(unarchive.ErrEntryNotFound, p)
		}
		selected = append(selected, e)
	}

	contents := make([][]byte, len(selected))
	g, ctx := errgroup.WithContext(s.ctx)
	for i, e := range selected {
		g.Go(func() error {
			var data []byte
			var err error
			if c.Limit >= 0 {
				data, err = u.ExtractPrefix(ctx, e, c.Limit)
			} else {
				data, err = u.Extract(ctx, e)
			}
			if err != nil {
				return errors.Wrapf(err, "cannot extract %s", e.Path)
			}
			contents[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, data := range contents {
		if _, err := s.out.Write(data); err != nil {
			return errors.Wrap(err, "cannot write output")
		}
	}
	return nil
}

// Run the entrypoint into go-unarchive as a cli tool
func Run(version, commit, date string) {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Description("Read entries of zip, rar, 7z and tar archives"),
		kong.UsageOnError(),
		kong.Vars{
			"version": fmt.Sprintf("%s (%s), commit %s, built at %s", filepath.Base(os.Args[0]), version, commit, date),
		},
	)

	// Check for verbose output
	logLevel := slog.LevelError
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}

	// setup logger
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	s, err := newSession(&cli, logger)
	if err != nil {
		logger.Error("invalid arguments", "err", err)
		os.Exit(-1)
	}
	if err := kctx.Run(s); err != nil {
		logger.Error("command failed", "err", err)
		os.Exit(-1)
	}
}

// newSession translates the cli flags into unarchive options
func newSession(cli *CLI, logger *slog.Logger) (*session, error) {
	telemetryToLog := func(ctx context.Context, td *unarchive.TelemetryData) {
		if cli.Telemetry {
			logger.Info("operation finished", "telemetry", td)
		}
	}

	opts := []unarchive.ConfigOption{
		unarchive.WithLogger(logger),
		unarchive.WithPassword(cli.Password),
		unarchive.WithTelemetryHook(telemetryToLog),
	}
	for _, name := range cli.Formats {
		f, err := unarchive.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		opts = append(opts, unarchive.WithFormats(f))
	}

	return &session{
		ctx:    context.Background(),
		logger: logger,
		opts:   opts,
		out:    os.Stdout,
	}, nil
}
