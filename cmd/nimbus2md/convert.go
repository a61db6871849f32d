package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/julien-sobczak/nimbus2md/internal/core"
	"github.com/julien-sobczak/nimbus2md/pkg/console"
)

var outputDir string
var exportFormat string
var frontMatterFormat string
var converterKind string
var filter string

func init() {
	convertCmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Export root directory")
	convertCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output dialect (gfm, obsidian, commonmark, html, ...)")
	convertCmd.Flags().StringVarP(&frontMatterFormat, "front-matter", "", "", "Front matter format (yaml, toml, json, none)")
	convertCmd.Flags().StringVarP(&converterKind, "converter", "", "", "Converter (native, builtin, pandoc)")
	convertCmd.Flags().StringVarP(&filter, "filter", "", "", "jq expression selecting notes from their metadata")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert <archive>...",
	Short: "Convert export archives",
	Long:  `Convert one or more export archives (zip files or unzipped directories) into documents.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		applyConvertFlags(settings)

		exporter, err := core.NewExporter(settings, logger)
		if err != nil {
			return err
		}

		if !silent {
			var progress *console.ProgressLog
			exporter.OnNotesCollected(func(count int) {
				progress = console.NewProgressLog(count, progressOptions(cmd.OutOrStdout())...)
			})
			exporter.OnNoteExported(func(note *core.Note) {
				progress.Advance(note.Paths.Target())
			})
			defer func() {
				if progress != nil {
					progress.Clear("")
				}
			}()
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		report, err := exporter.Run(ctx, args, outputDir)
		if err != nil {
			return err
		}
		if !silent {
			report.Print(cmd.OutOrStdout())
		}
		return nil
	},
}

const (
	progressBarWidth  = 20
	progressLineWidth = 59
)

// progressOptions draws a colored bar when writing to a terminal.
func progressOptions(out io.Writer) []func(*console.ProgressLog) {
	options := []func(*console.ProgressLog){console.ToWriter(out), console.ShowPercent()}
	if f, ok := out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		options = append(options, console.GradientBar(progressBarWidth), console.LineLength(progressLineWidth))
	}
	return options
}

// applyConvertFlags overrides the settings with the flags explicitly set.
func applyConvertFlags(settings *core.Settings) {
	if exportFormat != "" {
		settings.ExportFormat = exportFormat
	}
	if frontMatterFormat != "" {
		settings.FrontMatterFormat = frontMatterFormat
	}
	if converterKind != "" {
		settings.Converter = converterKind
	}
	if filter != "" {
		settings.Filter = filter
	}
}
