package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gaitbase/cmd/config"
	"gaitbase/cmd/gaitbase/wire"
	"gaitbase/internal/rom/catalogue"
	"gaitbase/internal/rom/report"
	"gaitbase/internal/rom/usecases"

	"github.com/spf13/pflag"
)

var errMissingROMID = errors.New("--rom-id is required")

func runReport(cfg config.AppConfig, args []string, stdout io.Writer) error {
	flags := pflag.NewFlagSet("report", pflag.ContinueOnError)
	romID := flags.Int64("rom-id", 0, "ROM to report")
	templatePath := flags.String("template", "", "report template file (YAML or JSON)")
	noUnits := flags.Bool("no-units", !cfg.Report.Units, "leave units out of the report")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *romID == 0 {
		return errMissingROMID
	}

	ctx := context.Background()
	services, err := wire.InitializeServices(cfg, usecases.LogNotifier{})
	if err != nil {
		return err
	}

	reports := usecases.ReportService(services.Reports)
	if *templatePath != "" {
		reports, err = customReportService(cfg, *templatePath)
		if err != nil {
			return err
		}
	}

	snapshot, err := services.Sessions.Snapshot(ctx, *romID)
	if err != nil {
		return err
	}
	text, err := reports.Text(ctx, snapshot, !*noUnits)
	if err != nil {
		return err
	}
	_, err = io.WriteString(stdout, text)
	return err
}

func customReportService(cfg config.AppConfig, path string) (*usecases.SimpleReportService, error) {
	tpl, err := report.LoadTemplate(path)
	if err != nil {
		return nil, err
	}
	cat, err := catalogue.Default()
	if cfg.Catalogue.Path != "" {
		cat, err = catalogue.Load(cfg.Catalogue.Path)
	}
	if err != nil {
		return nil, err
	}
	return usecases.NewReportService(cat, tpl, cfg.Report.Replacements)
}

func runExport(cfg config.AppConfig, args []string, stdout io.Writer) error {
	flags := pflag.NewFlagSet("export", pflag.ContinueOnError)
	romID := flags.Int64("rom-id", 0, "ROM to export")
	out := flags.String("out", "", "output file, stdout when empty")
	formatName := flags.String("format", string(usecases.ExportJSON), "json or msgpack")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *romID == 0 {
		return errMissingROMID
	}
	format, err := usecases.ParseExportFormat(*formatName)
	if err != nil {
		return err
	}

	services, err := wire.InitializeServices(cfg, usecases.LogNotifier{})
	if err != nil {
		return err
	}
	snapshot, err := services.Sessions.Snapshot(context.Background(), *romID)
	if err != nil {
		return err
	}

	w := stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", *out, err)
		}
		defer f.Close()
		w = f
	}
	return usecases.Export(w, snapshot, format)
}

func runBackup(cfg config.AppConfig, args []string) error {
	flags := pflag.NewFlagSet("backup", pflag.ContinueOnError)
	dir := flags.String("dir", cfg.Backup.Dir, "backup directory")
	if err := flags.Parse(args); err != nil {
		return err
	}
	cfg.Backup.Dir = *dir

	services, err := wire.InitializeServices(cfg, usecases.LogNotifier{})
	if err != nil {
		return err
	}
	written, err := usecases.BackupAll(context.Background(), services.ROMs, services.Sessions, services.Backups)
	if err != nil {
		return err
	}
	slog.Info("roms backed up", slog.Int("count", written), slog.String("dir", *dir))
	return nil
}
