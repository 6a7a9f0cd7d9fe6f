package usecases_test

import (
	"gaitbase/internal/rom/catalogue"

	. "github.com/onsi/gomega"
)

const notMeasured = "Ei mitattu"

const testCatalogue = `
labels:
  not_measured: Ei mitattu
  yes: Kyllä
  no: Ei
  not_applicable: Ei mahdollinen
date_field: TiedotPvm
weight_field: Paino
fields:
  - name: TiedotPvm
    kind: text
  - name: Paino
    kind: numeric
    suffix: " kg"
    minimum: 0
  - name: Voima
    kind: numeric
    suffix: " Nm"
    minimum: 0
  - name: VoimaNorm
    kind: numeric
    suffix: " Nm/kg"
    derived:
      source: Voima
  - name: Confusion
    kind: boolean
  - name: Kommentti
    kind: comment
`

func testFields() catalogue.Catalogue {
	cat, err := catalogue.Parse([]byte(testCatalogue))
	Expect(err).NotTo(HaveOccurred())
	return cat
}
