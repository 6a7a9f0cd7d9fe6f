package wire

import (
	"context"
	"fmt"

	"gaitbase/cmd/config"
	"gaitbase/internal/infra/cache"
	"gaitbase/internal/infra/sql"
	"gaitbase/internal/rom/catalogue"
	"gaitbase/internal/rom/persistence"
	"gaitbase/internal/rom/presentation"
	"gaitbase/internal/rom/report"
	"gaitbase/internal/rom/usecases"
)

// Services is everything the transports and commands need from the ROM
// context. One instance per process: the session store and the database are
// shared.
type Services struct {
	Sessions *usecases.SimpleSessionService
	Patients *usecases.SimplePatientService
	Reports  *usecases.SimpleReportService
	ROMs     *persistence.SimpleROMRepository
	Store    *usecases.SessionStore
	Backups  *usecases.BackupWriter
}

func provideDatabase(cfg config.AppConfig) (sql.ORM, error) {
	switch cfg.Database.Driver {
	case "memory":
		return sql.NewMemoryORM()
	case "postgres":
		return sql.NewPostgresORM(context.Background(), cfg.Database.DSN, cfg.Database.Timeout)
	case "sqlite", "":
		return sql.NewSQLiteORM(cfg.Database.Path, cfg.Database.Timeout)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func provideCache(cfg config.AppConfig) (cache.Cache, error) {
	switch cfg.Cache.Driver {
	case "none":
		return nil, nil
	case "redis":
		return cache.NewRedisCache(context.Background(), cache.RedisConfig{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
			Prefix:   "gaitbase:",
		})
	case "memory", "":
		return cache.New(nil)
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Cache.Driver)
	}
}

// providePatientRepository puts the identity cache in front of the patients
// table unless caching is off.
func providePatientRepository(cfg config.AppConfig, orm sql.ORM, store cache.Cache) (usecases.PatientRepository, error) {
	repository, err := persistence.NewPatientRepository(orm)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return repository, nil
	}
	return persistence.NewCachedPatientRepository(repository, store, cfg.Cache.TTL), nil
}

func provideCatalogue(cfg config.AppConfig) (catalogue.Catalogue, error) {
	if cfg.Catalogue.Path == "" {
		return catalogue.Default()
	}
	return catalogue.Load(cfg.Catalogue.Path)
}

func provideTemplate(cfg config.AppConfig) (report.Template, error) {
	return report.ResolveTemplate(cfg.Report.Template)
}

func provideReportService(cfg config.AppConfig, cat catalogue.Catalogue, tpl report.Template) (*usecases.SimpleReportService, error) {
	return usecases.NewReportService(cat, tpl, cfg.Report.Replacements)
}

func provideBackupWriter(cfg config.AppConfig) (*usecases.BackupWriter, error) {
	format, err := usecases.ParseExportFormat(cfg.Backup.Format)
	if err != nil {
		return nil, err
	}
	return usecases.NewBackupWriter(cfg.Backup.Dir, format), nil
}

func provideFormFactory() usecases.FormFactory {
	return presentation.NewUsecaseForm
}
