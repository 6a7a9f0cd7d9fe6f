package steps

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

func (fc *FeatureContext) aPatientNamedExists(code, firstName, lastName string) error {
	if err := fc.keep(fc.apiDriver.CreatePatient(code, firstName, lastName)); err != nil {
		return err
	}
	fc.require.Equal(http.StatusCreated, fc.response.StatusCode, string(fc.responseBody))

	var data map[string]any
	fc.require.NoError(fc.decodeBody(&data))
	id, ok := data["id"].(float64)
	fc.require.True(ok, "patient id should be a number")

	fc.patientID = int64(id)
	fc.patientCode = code
	return nil
}

func (fc *FeatureContext) iCreateAROMForThePatient() error {
	if err := fc.keep(fc.apiDriver.CreateROM(fc.patientID)); err != nil {
		return err
	}
	if fc.response.StatusCode == http.StatusCreated {
		fc.rememberSession()
	}
	return nil
}

func (fc *FeatureContext) aROMIsBeingEditedForThePatient() error {
	if err := fc.iCreateAROMForThePatient(); err != nil {
		return err
	}
	fc.require.Equal(http.StatusCreated, fc.response.StatusCode, string(fc.responseBody))
	return nil
}

func (fc *FeatureContext) iOpenTheROMAgain() error {
	if err := fc.keep(fc.apiDriver.OpenROM(fc.romID)); err != nil {
		return err
	}
	if fc.response.StatusCode == http.StatusCreated {
		fc.rememberSession()
	}
	return nil
}

func (fc *FeatureContext) rememberSession() {
	var data map[string]any
	fc.require.NoError(fc.decodeBody(&data))

	id, ok := data["id"].(string)
	fc.require.True(ok, "session id should be a string")
	romID, ok := data["rom_id"].(float64)
	fc.require.True(ok, "rom id should be a number")

	fc.sessionID = id
	fc.romID = int64(romID)
	fc.responseData = data
}

func (fc *FeatureContext) theSessionShouldBeForPatient(code string) error {
	patient, ok := fc.responseData["patient"].(map[string]any)
	fc.require.True(ok, "session should carry the patient")
	fc.require.Equal(code, patient["patient_code"])
	return nil
}

func (fc *FeatureContext) iSetFieldToNumber(field, number string) error {
	n, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return err
	}
	return fc.updateField(field, map[string]any{"value": n})
}

func (fc *FeatureContext) iSetFieldToText(field, text string) error {
	return fc.updateField(field, map[string]any{"value": text})
}

func (fc *FeatureContext) iSetFieldToCheckState(field string, state int) error {
	return fc.updateField(field, map[string]any{"check_state": state})
}

func (fc *FeatureContext) iResetField(field string) error {
	return fc.updateField(field, map[string]any{"reset": true})
}

func (fc *FeatureContext) updateField(field string, input map[string]any) error {
	return fc.keep(fc.apiDriver.UpdateField(fc.sessionID, field, input))
}

func (fc *FeatureContext) theChangeShouldIncludeWithNumber(field, number string) error {
	var data struct {
		Changed map[string]any `json:"changed"`
	}
	fc.require.NoError(fc.decodeBody(&data))
	return fc.requireNumber(data.Changed, field, number)
}

func (fc *FeatureContext) sessionValues() map[string]any {
	if err := fc.keep(fc.apiDriver.GetSession(fc.sessionID)); err != nil {
		fc.require.NoError(err)
	}
	fc.require.Equal(http.StatusOK, fc.response.StatusCode, string(fc.responseBody))

	var data struct {
		Values map[string]any `json:"values"`
	}
	fc.require.NoError(fc.decodeBody(&data))
	return data.Values
}

func (fc *FeatureContext) fieldShouldBeNumber(field, number string) error {
	return fc.requireNumber(fc.sessionValues(), field, number)
}

func (fc *FeatureContext) fieldShouldBeText(field, text string) error {
	fc.require.Equal(text, fc.sessionValues()[field])
	return nil
}

func (fc *FeatureContext) requireNumber(values map[string]any, field, number string) error {
	want, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return err
	}
	got, ok := values[field].(float64)
	fc.require.True(ok, "%s should be a number, got %v", field, values[field])
	fc.require.InDelta(want, got, 1e-9)
	return nil
}

func (fc *FeatureContext) iRequestTheReport() error {
	return fc.keep(fc.apiDriver.GetReport(fc.sessionID, true))
}

func (fc *FeatureContext) iRequestTheReportWithoutUnits() error {
	return fc.keep(fc.apiDriver.GetReport(fc.sessionID, false))
}

func (fc *FeatureContext) iRequestTheStoredReportOfTheROM() error {
	return fc.keep(fc.apiDriver.GetROMReport(fc.romID))
}

func (fc *FeatureContext) theReportShouldContain(text string) error {
	fc.require.Equal(http.StatusOK, fc.response.StatusCode, string(fc.responseBody))
	fc.require.Contains(string(fc.responseBody), text)
	return nil
}

func (fc *FeatureContext) theReportShouldNotContain(text string) error {
	fc.require.NotContains(string(fc.responseBody), text)
	return nil
}

func (fc *FeatureContext) iRequestTheExport() error {
	return fc.keep(fc.apiDriver.GetExport(fc.sessionID))
}

func (fc *FeatureContext) theExportShouldContainWithNumber(field, number string) error {
	fc.require.Equal(http.StatusOK, fc.response.StatusCode, string(fc.responseBody))
	var data map[string]any
	fc.require.NoError(fc.decodeBody(&data))
	return fc.requireNumber(data, field, number)
}

func (fc *FeatureContext) iCloseTheSession() error {
	return fc.closeSession(false)
}

func (fc *FeatureContext) iForceCloseTheSession() error {
	return fc.closeSession(true)
}

func (fc *FeatureContext) closeSession(force bool) error {
	if err := fc.keep(fc.apiDriver.CloseSession(fc.sessionID, force)); err != nil {
		return err
	}
	if fc.response.StatusCode == http.StatusNoContent {
		fc.sessionID = ""
	}
	return nil
}

func (fc *FeatureContext) aBackupFileShouldExistForThePatient() error {
	matches, err := filepath.Glob(filepath.Join(fc.backupDir, fc.patientCode+"_*.json"))
	if err != nil {
		return err
	}
	fc.require.NotEmpty(matches, "no backup for %s in %s", fc.patientCode, fc.backupDir)

	content, err := os.ReadFile(matches[0])
	if err != nil {
		return err
	}
	if !strings.Contains(string(content), fmt.Sprintf("%q: %q", "patient_code", fc.patientCode)) {
		return fmt.Errorf("backup %s does not name patient %s", matches[0], fc.patientCode)
	}
	return nil
}
