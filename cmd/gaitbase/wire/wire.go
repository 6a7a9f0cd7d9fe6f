//go:build wireinject
// +build wireinject

package wire

import (
	"gaitbase/cmd/config"
	"gaitbase/internal/rom/persistence"
	"gaitbase/internal/rom/usecases"

	"github.com/google/wire"
)

func InitializeServices(cfg config.AppConfig, notifier usecases.Notifier) (*Services, error) {
	wire.Build(
		provideDatabase,
		provideCatalogue,
		provideTemplate,
		provideFormFactory,
		provideBackupWriter,
		persistence.NewROMRepository,
		wire.Bind(new(usecases.ROMRepository), new(*persistence.SimpleROMRepository)),
		provideCache,
		providePatientRepository,
		usecases.NewSessionStore,
		usecases.NewSessionService,
		usecases.NewPatientService,
		provideReportService,
		wire.Struct(new(Services), "*"),
	)
	return nil, nil
}
