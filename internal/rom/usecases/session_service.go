package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gaitbase/internal/rom/catalogue"
	"gaitbase/internal/rom/domain"

	"github.com/google/uuid"
)

//go:generate mockgen -source=session_service.go -destination=../../../test/unit/doubles/rom/usecases/session_service_mock.go -package=usecases -mock_names=SessionService=MockSessionService

type SessionService interface {
	Create(ctx context.Context, patientID int64) (*Session, error)
	Open(ctx context.Context, romID int64) (*Session, error)
	Get(id string) (*Session, error)
	Close(ctx context.Context, id string, force bool) error
	Snapshot(ctx context.Context, romID int64) (domain.Snapshot, error)
	Fields() []domain.Field
}

var _ SessionService = (*SimpleSessionService)(nil)

type SimpleSessionService struct {
	roms      ROMRepository
	patients  PatientRepository
	catalogue catalogue.Catalogue
	forms     FormFactory
	store     *SessionStore
	notifier  Notifier
	backups   *BackupWriter
	now       func() time.Time
}

func NewSessionService(
	roms ROMRepository,
	patients PatientRepository,
	cat catalogue.Catalogue,
	forms FormFactory,
	store *SessionStore,
	notifier Notifier,
	backups *BackupWriter,
) *SimpleSessionService {
	initMetrics()
	return &SimpleSessionService{
		roms:      roms,
		patients:  patients,
		catalogue: cat,
		forms:     forms,
		store:     store,
		notifier:  notifier,
		backups:   backups,
		now:       time.Now,
	}
}

// WithClock is for tests.
func (s *SimpleSessionService) WithClock(now func() time.Time) *SimpleSessionService {
	s.now = now
	return s
}

func (s *SimpleSessionService) Fields() []domain.Field {
	return s.catalogue.Fields
}

// Create inserts a ROM for the patient and stamps it with today's date, which
// also initializes the stored row.
func (s *SimpleSessionService) Create(ctx context.Context, patientID int64) (*Session, error) {
	identity, err := s.patients.Get(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("getting patient %d: %w", patientID, err)
	}

	romID, err := s.roms.Create(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("creating rom: %w", err)
	}

	session, err := s.newSession(romID, patientID, identity, s.roms.Storage(romID))
	if err != nil {
		return nil, err
	}
	session.Created = true

	if s.catalogue.DateField != "" {
		update, err := session.Set(ctx, s.catalogue.DateField, domain.Text(domain.FormatDate(s.now())))
		if err != nil {
			return nil, fmt.Errorf("setting date of rom %d: %w", romID, err)
		}
		if update.Failed() {
			slog.Warn("new rom created without date", slog.Int64("rom_id", romID))
		}
	}

	if err := s.store.Add(session); err != nil {
		return nil, err
	}
	sessionsOpenedTotal.Add(ctx, 1)
	slog.Info("rom created", slog.Int64("rom_id", romID), slog.String("session_id", session.ID))
	return session, nil
}

// Open loads an existing ROM. A storage error here is fatal for the session.
func (s *SimpleSessionService) Open(ctx context.Context, romID int64) (*Session, error) {
	if s.store.Busy(romID) {
		return nil, ErrSessionBusy
	}

	rom, err := s.roms.Get(ctx, romID)
	if err != nil {
		return nil, fmt.Errorf("reading rom %d: %w", romID, err)
	}
	identity, err := s.patients.Get(ctx, rom.PatientID)
	if err != nil {
		return nil, fmt.Errorf("getting patient %d: %w", rom.PatientID, err)
	}

	session, err := s.newSession(romID, rom.PatientID, identity, s.roms.Storage(romID))
	if err != nil {
		return nil, err
	}
	session.Mismatch = session.registry.Load(ctx, rom.Row)

	if err := s.store.Add(session); err != nil {
		return nil, err
	}
	sessionsOpenedTotal.Add(ctx, 1)
	slog.Info("rom opened",
		slog.Int64("rom_id", romID),
		slog.String("session_id", session.ID),
		slog.Int("modified", session.registry.NModified()))
	return session, nil
}

func (s *SimpleSessionService) Get(id string) (*Session, error) {
	return s.store.Get(id)
}

// Close ends a session. Unless forced the record must validate. Sessions that
// created their ROM leave a backup file behind; a failed backup is only
// logged.
func (s *SimpleSessionService) Close(ctx context.Context, id string, force bool) error {
	session, err := s.store.Get(id)
	if err != nil {
		return err
	}

	session.Lock()
	defer session.Unlock()

	if !force {
		if err := session.Validate(); err != nil {
			return err
		}
	}

	if session.Created && s.backups != nil {
		path, err := s.backups.Write(session.Snapshot())
		if err != nil {
			slog.Warn("writing backup", slog.Int64("rom_id", session.ROMID), slog.Any("error", err))
		} else {
			slog.Info("backup written", slog.Int64("rom_id", session.ROMID), slog.String("path", path))
		}
	}

	s.store.Remove(id)
	if s.notifier != nil {
		s.notifier.Notify(ctx, Notification{SessionID: id, Kind: NotificationClosed})
	}
	slog.Info("session closed", slog.String("session_id", id), slog.Bool("forced", force))
	return nil
}

// Snapshot reads a ROM without opening a session: no presentation and no
// writes.
func (s *SimpleSessionService) Snapshot(ctx context.Context, romID int64) (domain.Snapshot, error) {
	rom, err := s.roms.Get(ctx, romID)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("reading rom %d: %w", romID, err)
	}
	identity, err := s.patients.Get(ctx, rom.PatientID)
	if err != nil && !errors.Is(err, ErrPatientNotFound) {
		return domain.Snapshot{}, fmt.Errorf("getting patient %d: %w", rom.PatientID, err)
	}

	registry := NewRegistry(nil, nil)
	if err := registry.RegisterAll(s.catalogue.Fields); err != nil {
		return domain.Snapshot{}, err
	}
	registry.Load(ctx, rom.Row)
	return registry.Snapshot(identity), nil
}

func (s *SimpleSessionService) newSession(romID, patientID int64, identity domain.Identity, storage RecordStorage) (*Session, error) {
	id := uuid.NewString()

	form, err := s.forms(s.catalogue.Fields)
	if err != nil {
		return nil, fmt.Errorf("building form: %w", err)
	}

	var notifier Notifier
	if s.notifier != nil {
		notifier = sessionNotifier{sessionID: id, next: s.notifier}
	}
	registry := NewRegistry(storage, notifier)
	registry.Bind(form)
	if err := registry.RegisterAll(s.catalogue.Fields); err != nil {
		return nil, err
	}

	return &Session{
		ID:        id,
		ROMID:     romID,
		PatientID: patientID,
		Identity:  identity,
		dateField: s.catalogue.DateField,
		registry:  registry,
		form:      form,
	}, nil
}
