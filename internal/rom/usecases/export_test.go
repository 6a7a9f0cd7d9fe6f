package usecases_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gaitbase/internal/rom/domain"
	"gaitbase/internal/rom/usecases"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/vmihailenco/msgpack/v5"
)

var _ = Describe("Export", func() {
	var snapshot domain.Snapshot

	BeforeEach(func() {
		snapshot = domain.NewSnapshot(
			domain.Record{"Paino": domain.Number(72.5), "Kommentti": domain.Text("kävely <ok>")},
			map[string]string{"Paino": " kg"},
			[]string{"Kommentti"},
			domain.Identity{PatientCode: "C1234", FirstName: "John Paul", LastName: "Doe"},
		)
	})

	It("should write indented json with sorted keys and unescaped text", func() {
		var buf bytes.Buffer

		Expect(usecases.Export(&buf, snapshot, usecases.ExportJSON)).To(Succeed())

		out := buf.String()
		Expect(out).To(HavePrefix("{\n \"Kommentti\": \"kävely <ok>\",\n \"Paino\": 72.5,\n"))
		Expect(strings.Index(out, `"TiedotID"`)).To(BeNumerically("<", strings.Index(out, `"diagnosis"`)))
	})

	It("should write msgpack with the same keys", func() {
		var buf bytes.Buffer

		Expect(usecases.Export(&buf, snapshot, usecases.ExportMsgpack)).To(Succeed())

		var flat map[string]any
		Expect(msgpack.Unmarshal(buf.Bytes(), &flat)).To(Succeed())
		Expect(flat).To(HaveKeyWithValue("Paino", 72.5))
		Expect(flat).To(HaveKeyWithValue("TiedotNimi", "John Paul Doe"))
	})

	It("should parse export formats", func() {
		Expect(usecases.ParseExportFormat("")).To(Equal(usecases.ExportJSON))
		Expect(usecases.ParseExportFormat(" MsgPack ")).To(Equal(usecases.ExportMsgpack))
		_, err := usecases.ParseExportFormat("xml")
		Expect(err).To(MatchError(usecases.ErrUnknownExportFormat))
	})

	Context("BackupWriter", func() {
		var dir string
		var writer *usecases.BackupWriter

		BeforeEach(func() {
			dir = filepath.Join(GinkgoT().TempDir(), "backups")
			writer = usecases.NewBackupWriter(dir, usecases.ExportJSON).
				WithClock(func() time.Time { return time.Date(2024, 3, 1, 14, 5, 9, 0, time.UTC) })
		})

		It("should name files after the patient with reversed name words", func() {
			Expect(writer.FileName(snapshot.Identity())).To(Equal("C1234_DoePaulJohn_2024_03_01_14_05_09.json"))
		})

		It("should create the directory and write the export", func() {
			path, err := writer.Write(snapshot)

			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal(filepath.Join(dir, "C1234_DoePaulJohn_2024_03_01_14_05_09.json")))
			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`"TiedotHetu": ""`))
		})

		It("should prefix bulk backups with the rom id", func() {
			path, err := writer.WriteROM(12, snapshot)

			Expect(err).NotTo(HaveOccurred())
			Expect(filepath.Base(path)).To(Equal("rom12_C1234_DoePaulJohn_2024_03_01_14_05_09.json"))
		})

		It("should keep files with path-like patient codes inside the directory", func() {
			escaping := domain.NewSnapshot(
				domain.Record{},
				nil,
				nil,
				domain.Identity{PatientCode: "../escaped", FirstName: "B/x", LastName: `A\..`},
			)

			path, err := writer.Write(escaping)

			Expect(err).NotTo(HaveOccurred())
			Expect(filepath.Dir(path)).To(Equal(dir))
			Expect(filepath.Base(path)).To(Equal("__escaped_A__B_x_2024_03_01_14_05_09.json"))
			Expect(path).To(BeAnExistingFile())
		})

		It("should fail when the directory cannot be created", func() {
			blocker := filepath.Join(GinkgoT().TempDir(), "file")
			Expect(os.WriteFile(blocker, nil, 0o644)).To(Succeed())

			_, err := usecases.NewBackupWriter(filepath.Join(blocker, "backups"), usecases.ExportJSON).Write(snapshot)

			Expect(err).To(MatchError(ContainSubstring("creating backup directory")))
		})
	})
})
