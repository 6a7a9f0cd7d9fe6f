package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gaitbase/internal/infra/async"

	"github.com/robfig/cron/v3"
)

var _ async.Worker = (*BackupWorker)(nil)

// BackupWorker exports every stored ROM on a cron schedule.
type BackupWorker struct {
	roms     ROMRepository
	sessions SessionService
	backups  *BackupWriter
	schedule cron.Schedule
	stop     chan struct{}
}

func NewBackupWorker(roms ROMRepository, sessions SessionService, backups *BackupWriter, spec string) (*BackupWorker, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parsing backup schedule %q: %w", spec, err)
	}

	return &BackupWorker{
		roms:     roms,
		sessions: sessions,
		backups:  backups,
		schedule: schedule,
		stop:     make(chan struct{}),
	}, nil
}

func (w *BackupWorker) Run(ctx context.Context, done func()) {
	slog.Info("backup worker started")
	defer done()

	for {
		next := w.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			slog.Info("backup worker cancelled")
			return
		case <-w.stop:
			timer.Stop()
			slog.Info("backup worker stopped")
			return
		case <-timer.C:
			written, err := w.BackupAll(ctx)
			if err != nil {
				slog.Error("backing up roms", slog.Any("error", err))
				continue
			}
			slog.Info("roms backed up", slog.Int("count", written))
		}
	}
}

func (w *BackupWorker) Shutdown() {
	close(w.stop)
}

func (w *BackupWorker) BackupAll(ctx context.Context) (int, error) {
	return BackupAll(ctx, w.roms, w.sessions, w.backups)
}

// BackupAll writes one file per ROM and returns how many were written. A ROM
// that cannot be read is skipped.
func BackupAll(ctx context.Context, roms ROMRepository, sessions SessionService, backups *BackupWriter) (int, error) {
	ids, err := roms.FindAllIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing roms: %w", err)
	}

	written := 0
	for _, id := range ids {
		snapshot, err := sessions.Snapshot(ctx, id)
		if err != nil {
			slog.Warn("skipping rom backup", slog.Int64("rom_id", id), slog.Any("error", err))
			continue
		}
		if _, err := backups.WriteROM(id, snapshot); err != nil {
			return written, fmt.Errorf("writing backup of rom %d: %w", id, err)
		}
		written++
	}
	return written, nil
}
