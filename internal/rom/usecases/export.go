package usecases

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gaitbase/internal/rom/domain"

	"github.com/vmihailenco/msgpack/v5"
)

type ExportFormat string

const (
	ExportJSON    ExportFormat = "json"
	ExportMsgpack ExportFormat = "msgpack"
)

var (
	ErrUnknownExportFormat = errors.New("unknown export format")
	ErrUnsafeBackupName    = errors.New("backup file name leaves the backup directory")
)

func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", ExportJSON:
		return ExportJSON, nil
	case ExportMsgpack:
		return ExportMsgpack, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownExportFormat, s)
	}
}

func (f ExportFormat) Extension() string {
	if f == ExportMsgpack {
		return ".msgpack"
	}
	return ".json"
}

func (f ExportFormat) ContentType() string {
	if f == ExportMsgpack {
		return "application/msgpack"
	}
	return "application/json; charset=utf-8"
}

// Export writes the record and identity fields as one flat object with sorted
// keys. JSON output is indented and keeps non-ASCII text unescaped.
func Export(w io.Writer, snapshot domain.Snapshot, format ExportFormat) error {
	flat := snapshot.Flat()

	switch format {
	case ExportMsgpack:
		values := make(map[string]any, len(flat))
		for name, v := range flat {
			values[name] = v.Any()
		}
		enc := msgpack.NewEncoder(w)
		enc.SetSortMapKeys(true)
		if err := enc.Encode(values); err != nil {
			return fmt.Errorf("encoding msgpack export: %w", err)
		}
		return nil
	default:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", " ")
		if err := enc.Encode(flat); err != nil {
			return fmt.Errorf("encoding json export: %w", err)
		}
		return nil
	}
}

// BackupWriter stores exports under a directory, one timestamped file per
// call.
type BackupWriter struct {
	dir    string
	format ExportFormat
	now    func() time.Time
}

func NewBackupWriter(dir string, format ExportFormat) *BackupWriter {
	return &BackupWriter{dir: dir, format: format, now: time.Now}
}

// WithClock is for tests.
func (b *BackupWriter) WithClock(now func() time.Time) *BackupWriter {
	b.now = now
	return b
}

func (b *BackupWriter) FileName(identity domain.Identity) string {
	return ExportFileName(identity, b.format, b.now())
}

// ExportFileName is "<patient code>_<name words reversed>_<timestamp><ext>",
// e.g. "C1234_DoeJohn_2024_03_01_14_05_09.json".
func ExportFileName(identity domain.Identity, format ExportFormat, at time.Time) string {
	words := strings.Fields(identity.FullName())
	for i, j := 0, len(words)-1; i < j; i, j = i+1, j-1 {
		words[i], words[j] = words[j], words[i]
	}
	return fmt.Sprintf("%s_%s_%s%s",
		fileNamePart(identity.PatientCode),
		fileNamePart(strings.Join(words, "")),
		at.Format("2006_01_02_15_04_05"),
		format.Extension(),
	)
}

var unsafeFileName = strings.NewReplacer("..", "_", "/", "_", `\`, "_", "\x00", "")

// fileNamePart keeps patient supplied text from naming a path outside the
// backup directory.
func fileNamePart(s string) string {
	return unsafeFileName.Replace(s)
}

func (b *BackupWriter) Write(snapshot domain.Snapshot) (string, error) {
	return b.write(snapshot, b.FileName(snapshot.Identity()))
}

// WriteROM prefixes the file name with the ROM id so that bulk backups of one
// patient do not overwrite each other.
func (b *BackupWriter) WriteROM(romID int64, snapshot domain.Snapshot) (string, error) {
	return b.write(snapshot, fmt.Sprintf("rom%d_%s", romID, b.FileName(snapshot.Identity())))
}

func (b *BackupWriter) write(snapshot domain.Snapshot, name string) (string, error) {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}
	path := filepath.Join(b.dir, name)
	if filepath.Dir(path) != filepath.Clean(b.dir) {
		return "", fmt.Errorf("%w: %q", ErrUnsafeBackupName, name)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating backup file: %w", err)
	}

	if err := Export(f, snapshot, b.format); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing backup file: %w", err)
	}
	return path, nil
}
