package internal

import (
	"encoding/json"
	"fmt"

	"gaitbase/internal/rom/domain"
	"gaitbase/internal/rom/usecases"
)

type ROMCreateRequest struct {
	PatientID int64 `json:"patient_id"`
}

type SessionResponse struct {
	ID          string                  `json:"id"`
	ROMID       int64                   `json:"rom_id"`
	Patient     PatientResponse         `json:"patient"`
	Created     bool                    `json:"created"`
	Values      map[string]domain.Value `json:"values"`
	Defaulted   []string                `json:"defaulted"`
	Modified    int                     `json:"modified"`
	ExtraKeys   []string                `json:"extra_keys,omitempty"`
	MissingKeys []string                `json:"missing_keys,omitempty"`
}

// ToSessionResponse must be called with the session locked.
func ToSessionResponse(session *usecases.Session) SessionResponse {
	registry := session.Registry()
	return SessionResponse{
		ID:          session.ID,
		ROMID:       session.ROMID,
		Patient:     ToPatientResponse(session.PatientID, session.Identity),
		Created:     session.Created,
		Values:      registry.Record(),
		Defaulted:   registry.Defaulted(),
		Modified:    registry.NModified(),
		ExtraKeys:   session.Mismatch.Extra,
		MissingKeys: session.Mismatch.Missing,
	}
}

// FieldUpdateRequest mirrors a single user interaction. Exactly one of the
// members must be given.
type FieldUpdateRequest struct {
	Value         json.RawMessage `json:"value,omitempty"`
	CheckState    *int            `json:"check_state,omitempty"`
	NotApplicable *bool           `json:"not_applicable,omitempty"`
	Reset         bool            `json:"reset,omitempty"`
}

func (r FieldUpdateRequest) ToInput() (domain.Input, error) {
	var in domain.Input
	given := 0
	if len(r.Value) > 0 {
		var v domain.Value
		if err := json.Unmarshal(r.Value, &v); err != nil {
			return domain.Input{}, fmt.Errorf("decoding value: %w", err)
		}
		in.Value = &v
		given++
	}
	if r.CheckState != nil {
		in.CheckState = r.CheckState
		given++
	}
	if r.NotApplicable != nil {
		in.NotApplicable = r.NotApplicable
		given++
	}
	if r.Reset {
		in.Reset = true
		given++
	}
	if given != 1 {
		return domain.Input{}, fmt.Errorf("expected exactly one of value, check_state, not_applicable or reset, got %d", given)
	}
	return in, nil
}

type FieldUpdateResponse struct {
	Changed  map[string]domain.Value `json:"changed"`
	Warnings []string                `json:"warnings,omitempty"`
}

func ToFieldUpdateResponse(update usecases.Update) FieldUpdateResponse {
	response := FieldUpdateResponse{Changed: update.Changed}
	if response.Changed == nil {
		response.Changed = map[string]domain.Value{}
	}
	for _, failure := range update.Failures {
		response.Warnings = append(response.Warnings, failure.Error())
	}
	return response
}

type SessionEvent struct {
	Type      string                  `json:"type"`
	SessionID string                  `json:"session_id"`
	Message   string                  `json:"message,omitempty"`
	Values    map[string]domain.Value `json:"values,omitempty"`
}

func ToSessionEvent(n usecases.Notification) SessionEvent {
	return SessionEvent{
		Type:      string(n.Kind),
		SessionID: n.SessionID,
		Message:   n.Message,
		Values:    n.Values,
	}
}
