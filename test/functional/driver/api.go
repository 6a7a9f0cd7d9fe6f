package driver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

type APIDriver struct {
	baseURL string
	client  *http.Client
}

func NewAPIDriver(baseURL string) *APIDriver {
	return &APIDriver{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

func (d *APIDriver) BaseURL() string {
	return d.baseURL
}

func (d *APIDriver) CreatePatient(code, firstName, lastName string) (*http.Response, error) {
	reqBody, err := json.Marshal(map[string]any{
		"patient_code": code,
		"firstname":    firstName,
		"lastname":     lastName,
		"ssn":          "010180-123A",
		"diagnosis":    "CP",
	})
	if err != nil {
		panic(err)
	}
	return d.client.Post(fmt.Sprintf("%s/v1/patients", d.baseURL), "application/json", bytes.NewBuffer(reqBody))
}

func (d *APIDriver) CreateROM(patientID int64) (*http.Response, error) {
	reqBody, err := json.Marshal(map[string]any{"patient_id": patientID})
	if err != nil {
		panic(err)
	}
	return d.client.Post(fmt.Sprintf("%s/v1/roms", d.baseURL), "application/json", bytes.NewBuffer(reqBody))
}

func (d *APIDriver) OpenROM(romID int64) (*http.Response, error) {
	return d.client.Post(fmt.Sprintf("%s/v1/roms/%d/sessions", d.baseURL, romID), "application/json", nil)
}

func (d *APIDriver) GetSession(id string) (*http.Response, error) {
	return d.client.Get(fmt.Sprintf("%s/v1/sessions/%s", d.baseURL, id))
}

// UpdateField sends one input, e.g. {"value": 70} or {"check_state": 2}.
func (d *APIDriver) UpdateField(sessionID, field string, input map[string]any) (*http.Response, error) {
	reqBody, err := json.Marshal(input)
	if err != nil {
		panic(err)
	}
	req, err := http.NewRequest(http.MethodPut, fmt.Sprintf("%s/v1/sessions/%s/fields/%s", d.baseURL, sessionID, field), bytes.NewBuffer(reqBody))
	if err != nil {
		panic(err)
	}
	req.Header.Set("Content-Type", "application/json")
	return d.client.Do(req)
}

func (d *APIDriver) GetReport(sessionID string, units bool) (*http.Response, error) {
	return d.client.Get(fmt.Sprintf("%s/v1/sessions/%s/report?units=%t", d.baseURL, sessionID, units))
}

func (d *APIDriver) GetROMReport(romID int64) (*http.Response, error) {
	return d.client.Get(fmt.Sprintf("%s/v1/roms/%d/report", d.baseURL, romID))
}

func (d *APIDriver) GetExport(sessionID string) (*http.Response, error) {
	return d.client.Get(fmt.Sprintf("%s/v1/sessions/%s/export", d.baseURL, sessionID))
}

func (d *APIDriver) CloseSession(sessionID string, force bool) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/v1/sessions/%s?force=%t", d.baseURL, sessionID, force), nil)
	if err != nil {
		panic(err)
	}
	return d.client.Do(req)
}

func (d *APIDriver) GetHealthz() (*http.Response, error) {
	return d.client.Get(fmt.Sprintf("%s/healthz", d.baseURL))
}
