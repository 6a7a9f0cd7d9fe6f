package persistence

import (
	"context"
	gosql "database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gaitbase/internal/infra/sql"
	"gaitbase/internal/rom/catalogue"
	"gaitbase/internal/rom/domain"
	"gaitbase/internal/rom/persistence/internal"
	"gaitbase/internal/rom/usecases"
)

var (
	ErrInvalidColumn = errors.New("invalid column name")

	columnName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// NewROMRepository creates the roms table when it does not exist. An existing
// table is used as is: columns are never added or dropped.
func NewROMRepository(orm sql.ORM, cat catalogue.Catalogue) (*SimpleROMRepository, error) {
	ddl, err := createROMTable(orm.Dialect(), cat.Fields)
	if err != nil {
		return nil, err
	}
	if err := orm.Exec(ddl).Error(); err != nil {
		return nil, fmt.Errorf("creating roms table: %w", err)
	}

	return &SimpleROMRepository{
		orm:   orm,
		codec: internal.CodecFor(orm.Dialect()),
	}, nil
}

var _ usecases.ROMRepository = (*SimpleROMRepository)(nil)

type SimpleROMRepository struct {
	orm   sql.ORM
	codec internal.ValueCodec
}

func (r *SimpleROMRepository) Create(ctx context.Context, patientID int64) (int64, error) {
	entity := internal.ROM{PatientID: patientID}
	if err := r.orm.WithContext(ctx).Create(&entity).Error(); err != nil {
		return 0, fmt.Errorf("inserting rom: %w", err)
	}
	return entity.ROMID, nil
}

// Get reads the whole row. Columns the catalogue does not know are returned
// too, so callers can detect data loss.
func (r *SimpleROMRepository) Get(ctx context.Context, romID int64) (domain.ROM, error) {
	rows, err := r.orm.WithContext(ctx).
		Table(internal.ROM{}.TableName()).
		Where(internal.ROMIDColumn+" = ?", romID).
		Rows()
	if err != nil {
		return domain.ROM{}, fmt.Errorf("selecting rom: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return domain.ROM{}, fmt.Errorf("reading columns: %w", err)
	}
	raw, err := scanOne(rows, len(columns))
	if err != nil {
		return domain.ROM{}, err
	}

	rom := domain.ROM{ID: romID, Row: make(domain.Row, len(columns))}
	for i, column := range columns {
		switch column {
		case internal.ROMIDColumn:
		case internal.PatientIDColumn:
			v, err := domain.ValueOf(raw[i])
			if err != nil {
				return domain.ROM{}, fmt.Errorf("reading patient id: %w", err)
			}
			id, _ := v.Float()
			rom.PatientID = int64(id)
		default:
			v, err := r.codec.Decode(raw[i])
			if err != nil {
				return domain.ROM{}, fmt.Errorf("decoding %s: %w", column, err)
			}
			rom.Row[column] = v
		}
	}
	return rom, nil
}

func (r *SimpleROMRepository) Select(ctx context.Context, romID int64, names []string) ([]domain.Value, error) {
	if err := checkColumns(names); err != nil {
		return nil, err
	}
	rows, err := r.orm.WithContext(ctx).
		Table(internal.ROM{}.TableName()).
		Select(names).
		Where(internal.ROMIDColumn+" = ?", romID).
		Rows()
	if err != nil {
		return nil, fmt.Errorf("selecting %s: %w", strings.Join(names, ", "), err)
	}
	defer rows.Close()

	raw, err := scanOne(rows, len(names))
	if err != nil {
		return nil, err
	}
	values := make([]domain.Value, len(names))
	for i := range raw {
		if values[i], err = r.codec.Decode(raw[i]); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", names[i], err)
		}
	}
	return values, nil
}

func (r *SimpleROMRepository) Update(ctx context.Context, romID int64, names []string, values []domain.Value) error {
	if len(names) != len(values) {
		return fmt.Errorf("updating rom %d: %d columns but %d values", romID, len(names), len(values))
	}
	if err := checkColumns(names); err != nil {
		return err
	}

	set := make(map[string]any, len(names))
	for i, name := range names {
		encoded, err := r.codec.Encode(values[i])
		if err != nil {
			return err
		}
		set[name] = encoded
	}

	tx := r.orm.WithContext(ctx).
		Table(internal.ROM{}.TableName()).
		Where(internal.ROMIDColumn+" = ?", romID).
		Updates(set)
	if err := tx.Error(); err != nil {
		return fmt.Errorf("updating rom %d: %w", romID, err)
	}
	if tx.RowsAffected() == 0 {
		return fmt.Errorf("updating rom %d: %w", romID, usecases.ErrROMNotFound)
	}
	return nil
}

func (r *SimpleROMRepository) FindAllIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.orm.WithContext(ctx).
		Table(internal.ROM{}.TableName()).
		Order(internal.ROMIDColumn).
		Pluck(internal.ROMIDColumn, &ids).
		Error()
	if err != nil {
		return nil, fmt.Errorf("listing roms: %w", err)
	}
	return ids, nil
}

func (r *SimpleROMRepository) Storage(romID int64) usecases.RecordStorage {
	return romStorage{repository: r, romID: romID}
}

type romStorage struct {
	repository *SimpleROMRepository
	romID      int64
}

func (s romStorage) Select(ctx context.Context, names []string) ([]domain.Value, error) {
	return s.repository.Select(ctx, s.romID, names)
}

func (s romStorage) Update(ctx context.Context, names []string, values []domain.Value) error {
	return s.repository.Update(ctx, s.romID, names, values)
}

func scanOne(rows *gosql.Rows, n int) ([]any, error) {
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		return nil, usecases.ErrROMNotFound
	}
	raw := make([]any, n)
	dest := make([]any, n)
	for i := range raw {
		dest[i] = &raw[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scanning row: %w", err)
	}
	return raw, nil
}

func checkColumns(names []string) error {
	for _, name := range names {
		if !columnName.MatchString(name) {
			return fmt.Errorf("%w: %q", ErrInvalidColumn, name)
		}
	}
	return nil
}

func createROMTable(dialect string, fields []domain.Field) (string, error) {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS roms (")
	if dialect == "postgres" {
		b.WriteString("rom_id BIGSERIAL PRIMARY KEY, patient_id BIGINT NOT NULL")
	} else {
		b.WriteString("rom_id INTEGER PRIMARY KEY AUTOINCREMENT, patient_id INTEGER NOT NULL")
	}

	for _, field := range fields {
		if !columnName.MatchString(field.Name) {
			return "", domain.NewConfigurationError("field %q cannot be stored as a column", field.Name)
		}
		fmt.Fprintf(&b, `, "%s"`, field.Name)
		if dialect == "postgres" {
			b.WriteString(" TEXT")
		}
	}
	b.WriteString(")")
	return b.String(), nil
}
