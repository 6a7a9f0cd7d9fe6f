package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"gaitbase/internal/rom/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Update describes the effect of one Set: every value that changed, the set
// field included, and the writes the row store rejected.
type Update struct {
	Changed  map[string]domain.Value
	Failures []*domain.StorageFailure
}

func (u Update) Failed() bool {
	return len(u.Failures) > 0
}

// Registry owns the in-memory record of one entry session and keeps it in step
// with the presentation and the row store. It is not safe for concurrent use.
type Registry struct {
	storage      RecordStorage
	presentation Presentation
	notifier     Notifier

	order      []string
	fields     map[string]domain.Field
	record     domain.Record
	defaults   domain.Record
	dependents map[string][]string
}

// NewRegistry accepts a nil storage or notifier; writes and notifications are
// then skipped.
func NewRegistry(storage RecordStorage, notifier Notifier) *Registry {
	initMetrics()
	return &Registry{
		storage:    storage,
		notifier:   notifier,
		fields:     make(map[string]domain.Field),
		record:     make(domain.Record),
		defaults:   make(domain.Record),
		dependents: make(map[string][]string),
	}
}

// Bind attaches the presentation. Fields registered afterwards take their
// defaults from it.
func (r *Registry) Bind(p Presentation) {
	r.presentation = p
}

// Register adds a field. Derived fields must come after their sources, and a
// derived field cannot feed another one.
func (r *Registry) Register(field domain.Field) error {
	if _, ok := r.fields[field.Name]; ok {
		return domain.NewConfigurationError("duplicate field %q", field.Name)
	}
	if !field.Kind.Valid() {
		return domain.NewConfigurationError("field %q has unknown kind %q", field.Name, field.Kind)
	}
	if field.Kind == domain.KindChoice && !slices.Contains(field.Choices, field.Sentinel.String()) {
		return domain.NewConfigurationError("choice field %q does not offer its sentinel %q", field.Name, field.Sentinel.String())
	}
	for _, source := range field.Sources() {
		sourceField, ok := r.fields[source]
		if !ok {
			return domain.NewConfigurationError("derived field %q depends on unregistered field %q", field.Name, source)
		}
		if sourceField.IsDerived() {
			return domain.NewConfigurationError("derived field %q depends on derived field %q", field.Name, source)
		}
	}

	r.fields[field.Name] = field
	r.order = append(r.order, field.Name)
	for _, source := range field.Sources() {
		r.dependents[source] = append(r.dependents[source], field.Name)
	}

	initial := field.Normalize(field.Default)
	switch {
	case field.IsDerived():
		initial = r.derive(field)
	case r.presentation != nil && r.presentation.Has(field.Name):
		v, err := r.presentation.GetVal(field.Name)
		if err != nil {
			return fmt.Errorf("reading initial value of %q: %w", field.Name, err)
		}
		initial = field.Normalize(v)
	}
	r.record[field.Name] = initial
	r.defaults[field.Name] = initial
	return nil
}

func (r *Registry) RegisterAll(fields []domain.Field) error {
	for _, field := range fields {
		if err := r.Register(field); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) Get(name string) (domain.Value, error) {
	v, ok := r.record[name]
	if !ok {
		return domain.Null, &domain.UnknownFieldError{Field: name}
	}
	return v, nil
}

func (r *Registry) Field(name string) (domain.Field, bool) {
	f, ok := r.fields[name]
	return f, ok
}

// Fields returns the registered fields in registration order.
func (r *Registry) Fields() []domain.Field {
	result := make([]domain.Field, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.fields[name])
	}
	return result
}

// Set stores a value, recomputes the fields derived from it and writes every
// changed value to storage, one column per call. A failed write leaves the
// record updated; it is reported in the returned Update.
// Values are stored as given; legality per field kind is the presentation's
// concern.
func (r *Registry) Set(ctx context.Context, name string, value domain.Value) (Update, error) {
	field, ok := r.fields[name]
	if !ok {
		return Update{}, &domain.UnknownFieldError{Field: name}
	}
	if field.IsDerived() {
		return Update{}, &domain.ReadOnlyFieldError{Field: name}
	}

	value = field.Normalize(value)
	if err := r.show(name, value); err != nil {
		return Update{}, err
	}

	r.record[name] = value
	update := Update{Changed: map[string]domain.Value{name: value}}
	writes := []string{name}

	for _, dependent := range r.dependents[name] {
		derived := r.derive(r.fields[dependent])
		if derived.Equal(r.record[dependent]) {
			continue
		}
		r.record[dependent] = derived
		if err := r.show(dependent, derived); err != nil {
			slog.Warn("presentation rejected derived value",
				slog.String("field", dependent),
				slog.Any("error", err))
		}
		update.Changed[dependent] = derived
		writes = append(writes, dependent)
	}

	for _, column := range writes {
		if failure := r.write(ctx, column); failure != nil {
			update.Failures = append(update.Failures, failure)
		}
	}

	r.notify(ctx, Notification{Kind: NotificationChanged, Values: update.Changed})
	return update, nil
}

// OnChange is called by the presentation when the user edits a control.
func (r *Registry) OnChange(ctx context.Context, name string) (Update, error) {
	if r.presentation == nil {
		return Update{}, fmt.Errorf("no presentation bound for field %q", name)
	}
	v, err := r.presentation.GetVal(name)
	if err != nil {
		return Update{}, err
	}
	return r.Set(ctx, name, v)
}

// Load replaces the record with stored data. Null or missing columns resolve
// to their default and derived fields are recomputed. Nothing is written back
// to storage.
func (r *Registry) Load(ctx context.Context, row domain.Row) domain.KeyMismatch {
	for _, name := range r.order {
		field := r.fields[name]
		if field.IsDerived() {
			continue
		}
		r.record[name] = r.defaults[name]
		if v, ok := row[name]; ok && !v.IsNull() {
			r.record[name] = field.Normalize(v)
		}
	}
	for _, name := range r.order {
		if field := r.fields[name]; field.IsDerived() {
			r.record[name] = r.derive(field)
		}
	}

	for _, name := range r.order {
		if err := r.show(name, r.record[name]); err != nil {
			slog.Warn("presentation rejected stored value",
				slog.String("field", name),
				slog.String("value", r.record[name].String()),
				slog.Any("error", err))
		}
	}

	mismatch := domain.CompareKeys(r.order, row.Names())
	if mismatch.DataLoss() {
		warning := mismatch.Warning()
		slog.Warn("stored row has unknown columns", slog.Any("columns", mismatch.Extra))
		r.notify(ctx, Notification{Kind: NotificationWarning, Message: warning.Error()})
	}
	return mismatch
}

// ReadAll pulls every value from the presentation without writing to storage.
// Fields the presentation does not know keep their value and are reported.
func (r *Registry) ReadAll() error {
	if r.presentation == nil {
		return nil
	}
	var unknown []string
	for _, name := range r.order {
		field := r.fields[name]
		if !r.presentation.Has(name) {
			unknown = append(unknown, name)
			continue
		}
		if field.IsDerived() {
			continue
		}
		v, err := r.presentation.GetVal(name)
		if err != nil {
			return fmt.Errorf("reading %q: %w", name, err)
		}
		r.record[name] = field.Normalize(v)
	}
	for _, name := range r.order {
		if field := r.fields[name]; field.IsDerived() {
			r.record[name] = r.derive(field)
		}
	}
	if len(unknown) > 0 {
		return &domain.DataLossWarning{Keys: unknown}
	}
	return nil
}

// Snapshot copies the record for reporting. Units are recomputed from the
// current values.
func (r *Registry) Snapshot(identity domain.Identity) domain.Snapshot {
	return domain.NewSnapshot(r.record, r.Units(), r.Defaulted(), identity)
}

func (r *Registry) Record() domain.Record {
	return r.record.Clone()
}

func (r *Registry) Defaults() domain.Record {
	return r.defaults.Clone()
}

// Modified lists, sorted, the fields whose value differs from the default.
func (r *Registry) Modified() []string {
	var result []string
	for name, v := range r.record {
		if !v.Equal(r.defaults[name]) {
			result = append(result, name)
		}
	}
	slices.Sort(result)
	return result
}

// Defaulted is the complement of Modified.
func (r *Registry) Defaulted() []string {
	var result []string
	for name, v := range r.record {
		if v.Equal(r.defaults[name]) {
			result = append(result, name)
		}
	}
	slices.Sort(result)
	return result
}

func (r *Registry) NModified() int {
	return len(r.Modified())
}

// Units returns the display unit of every field for its current value.
func (r *Registry) Units() map[string]string {
	units := make(map[string]string, len(r.record))
	for name, v := range r.record {
		units[name] = r.fields[name].Unit(v)
	}
	return units
}

func (r *Registry) derive(field domain.Field) domain.Value {
	source := r.fields[field.Derived.Source]
	normalizer := r.fields[field.Derived.Normalizer]
	sv, nv := r.record[source.Name], r.record[normalizer.Name]
	if source.IsSentinel(sv) || normalizer.IsSentinel(nv) {
		return field.Sentinel
	}
	s, ok := sv.Float()
	if !ok {
		return field.Sentinel
	}
	n, ok := nv.Float()
	if !ok || n == 0 {
		return field.Sentinel
	}
	return domain.Number(s / n)
}

func (r *Registry) show(name string, v domain.Value) error {
	if r.presentation == nil || !r.presentation.Has(name) {
		return nil
	}
	return r.presentation.SetVal(name, v)
}

func (r *Registry) write(ctx context.Context, name string) *domain.StorageFailure {
	if r.storage == nil {
		return nil
	}
	v := r.record[name]
	attrs := metric.WithAttributes(attribute.String("field", name))
	fieldWritesTotal.Add(ctx, 1, attrs)

	err := r.storage.Update(ctx, []string{name}, []domain.Value{v})
	if err == nil {
		return nil
	}

	failure := &domain.StorageFailure{Fields: []string{name}, Err: err}
	storageFailuresTotal.Add(ctx, 1, attrs)
	slog.Error("writing field",
		slog.String("field", name),
		slog.String("value", v.String()),
		slog.Any("error", err))
	r.notify(ctx, Notification{Kind: NotificationWarning, Message: failure.Error()})
	return failure
}

func (r *Registry) notify(ctx context.Context, n Notification) {
	if r.notifier != nil {
		r.notifier.Notify(ctx, n)
	}
}
