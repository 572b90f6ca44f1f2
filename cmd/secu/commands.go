package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/meigma/secu"
)

func newPackCommand(cfg *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack SOURCE ARCHIVE",
		Short: "Pack the tree under SOURCE into ARCHIVE",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			h, err := secu.Pack(args[1], args[0],
				secu.PackWithLogger(cfg.logger),
				secu.PackWithWarnEntries(cfg.warnEntries),
				secu.PackWithMaxEntries(cfg.maxEntries),
			)
			if err != nil {
				return packStatus(err)
			}
			fmt.Fprintf(cfg.stdout, "packed %d entries into %s\n", h.EntryCount, args[1])
			return nil
		},
	}
	flags := cmd.Flags()
	flags.Uint64Var(&cfg.warnEntries, "warn-entries", secu.DefaultWarnEntries, "warn when the source holds more entries than this (0 disables)")
	flags.Uint64Var(&cfg.maxEntries, "max-entries", 0, "refuse sources holding more entries than this (0 means no limit)")
	return cmd
}

func newUnpackCommand(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "unpack ARCHIVE DEST",
		Short: "Extract ARCHIVE into DEST",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			stats, err := secu.Unpack(args[0], args[1], secu.ExtractWithLogger(cfg.logger))
			if err != nil {
				return unpackStatus(err)
			}
			fmt.Fprintf(cfg.stdout, "extracted %d directories and %d files (%s) into %s\n",
				stats.Dirs, stats.Files, units.HumanSize(float64(stats.Bytes)), args[1])
			return nil
		},
	}
}

func newListCommand(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "list ARCHIVE",
		Short: "List the entries of ARCHIVE in table order",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return readStatus(listArchive(cfg, args[0]))
		},
	}
}

func listArchive(cfg *config, path string) error {
	r, err := secu.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	entries, err := r.Entries()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cfg.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tSIZE\tNAME")
	for _, e := range entries {
		size := "-"
		if !e.IsDir() {
			size = units.HumanSize(float64(e.Size))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Kind, size, e.Name)
	}
	return tw.Flush()
}

func newInspectCommand(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect ARCHIVE",
		Short: "Print the header and summary of ARCHIVE",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return readStatus(inspectArchive(cfg, args[0]))
		},
	}
}

func inspectArchive(cfg *config, path string) error {
	r, err := secu.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	entries, err := r.Entries()
	if err != nil {
		return err
	}
	var dirs, files int
	var content uint64
	for _, e := range entries {
		if e.IsDir() {
			dirs++
			continue
		}
		files++
		content += e.Size
	}
	d, err := r.Digest()
	if err != nil {
		return err
	}

	h := r.Header()
	tw := tabwriter.NewWriter(cfg.stdout, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "magic:\t%s\n", h.Magic[:])
	fmt.Fprintf(tw, "version:\t%d\n", h.Version)
	fmt.Fprintf(tw, "entries:\t%d (%d directories, %d files)\n", h.EntryCount, dirs, files)
	fmt.Fprintf(tw, "file table:\t%d\n", h.FileTableOffset)
	fmt.Fprintf(tw, "data table:\t%d\n", h.DataTableOffset)
	fmt.Fprintf(tw, "content:\t%s\n", units.HumanSize(float64(content)))
	fmt.Fprintf(tw, "size:\t%s\n", units.HumanSize(float64(r.Size())))
	fmt.Fprintf(tw, "digest:\t%s\n", d)
	return tw.Flush()
}
