package steps

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"gaitbase/test/functional/driver"

	"github.com/cucumber/godog"
	"github.com/stretchr/testify/require"
)

type FeatureContext struct {
	apiDriver    *driver.APIDriver
	backupDir    string
	response     *http.Response
	responseBody []byte
	responseData map[string]any
	patientID    int64
	patientCode  string
	romID        int64
	sessionID    string
	require      *require.Assertions
	t            godog.TestingT
}

func NewFeatureContext(baseURL, backupDir string) *FeatureContext {
	return &FeatureContext{
		apiDriver: driver.NewAPIDriver(baseURL),
		backupDir: backupDir,
	}
}

func (fc *FeatureContext) RegisterSteps(ctx *godog.ScenarioContext) {
	// Generic steps
	ctx.Step(`^wait for (.*)$`, fc.waitForDuration)
	ctx.Then(`^the response status code should be (\d+)$`, fc.theResponseStatusCodeShouldBe)

	// Health steps
	ctx.When(`^I call the healthz endpoint$`, fc.iCallTheHealthzEndpoint)
	ctx.Then(`^the response should contain status information$`, fc.theResponseShouldContainStatusInformation)
	ctx.Then(`^the response should contain version information$`, fc.theResponseShouldContainVersionInformation)

	// Patient and ROM steps
	ctx.Given(`^a patient "([^"]*)" named "([^"]*)" "([^"]*)" exists$`, fc.aPatientNamedExists)
	ctx.When(`^I create a ROM for the patient$`, fc.iCreateAROMForThePatient)
	ctx.Given(`^a ROM is being edited for the patient$`, fc.aROMIsBeingEditedForThePatient)
	ctx.When(`^I open the ROM again$`, fc.iOpenTheROMAgain)
	ctx.Then(`^the session should be for patient "([^"]*)"$`, fc.theSessionShouldBeForPatient)

	// Field steps
	ctx.When(`^I set field "([^"]*)" to number ([-0-9.]+)$`, fc.iSetFieldToNumber)
	ctx.When(`^I set field "([^"]*)" to text "([^"]*)"$`, fc.iSetFieldToText)
	ctx.When(`^I set field "([^"]*)" to check state (\d+)$`, fc.iSetFieldToCheckState)
	ctx.When(`^I reset field "([^"]*)"$`, fc.iResetField)
	ctx.Then(`^the change should include "([^"]*)" with number ([-0-9.]+)$`, fc.theChangeShouldIncludeWithNumber)
	ctx.Then(`^field "([^"]*)" should be number ([-0-9.]+)$`, fc.fieldShouldBeNumber)
	ctx.Then(`^field "([^"]*)" should be text "([^"]*)"$`, fc.fieldShouldBeText)

	// Report and export steps
	ctx.When(`^I request the report$`, fc.iRequestTheReport)
	ctx.When(`^I request the report without units$`, fc.iRequestTheReportWithoutUnits)
	ctx.When(`^I request the stored report of the ROM$`, fc.iRequestTheStoredReportOfTheROM)
	ctx.Then(`^the report should contain "([^"]*)"$`, fc.theReportShouldContain)
	ctx.Then(`^the report should not contain "([^"]*)"$`, fc.theReportShouldNotContain)
	ctx.When(`^I request the export$`, fc.iRequestTheExport)
	ctx.Then(`^the export should contain "([^"]*)" with number ([-0-9.]+)$`, fc.theExportShouldContainWithNumber)

	// Close steps
	ctx.When(`^I close the session$`, fc.iCloseTheSession)
	ctx.When(`^I force close the session$`, fc.iForceCloseTheSession)
	ctx.Then(`^a backup file should exist for the patient$`, fc.aBackupFileShouldExistForThePatient)

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		fc.t = godog.T(ctx)
		fc.require = require.New(fc.t)

		fc.reset()
		return ctx, nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if fc.sessionID != "" {
			if resp, closeErr := fc.apiDriver.CloseSession(fc.sessionID, true); closeErr == nil {
				resp.Body.Close()
			}
		}
		return ctx, err
	})
}

func (fc *FeatureContext) reset() {
	fc.response = nil
	fc.responseBody = nil
	fc.responseData = nil
	fc.patientID = 0
	fc.patientCode = ""
	fc.romID = 0
	fc.sessionID = ""
}

// keep reads and closes the response body so later steps can inspect it.
func (fc *FeatureContext) keep(response *http.Response, err error) error {
	if err != nil {
		return err
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}
	fc.response = response
	fc.responseBody = body
	fc.responseData = nil
	return nil
}

func (fc *FeatureContext) decodeBody(target any) error {
	return json.Unmarshal(fc.responseBody, target)
}
