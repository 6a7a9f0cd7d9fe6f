package internal

import "gaitbase/internal/rom/domain"

type FieldListResponse struct {
	Data []FieldResponse `json:"data"`
}

type FieldResponse struct {
	Name      string       `json:"name"`
	Kind      domain.Kind  `json:"kind"`
	Default   domain.Value `json:"default"`
	Sentinel  domain.Value `json:"sentinel"`
	Suffix    string       `json:"suffix,omitempty"`
	Minimum   *float64     `json:"minimum,omitempty"`
	Choices   []string     `json:"choices,omitempty"`
	Important bool         `json:"important"`
	Derived   bool         `json:"derived"`
}

func ToFieldListResponse(fields []domain.Field) FieldListResponse {
	response := FieldListResponse{Data: make([]FieldResponse, 0, len(fields))}
	for _, f := range fields {
		response.Data = append(response.Data, FieldResponse{
			Name:      f.Name,
			Kind:      f.Kind,
			Default:   f.Default,
			Sentinel:  f.Sentinel,
			Suffix:    f.Suffix,
			Minimum:   f.Minimum,
			Choices:   f.Choices,
			Important: f.Important,
			Derived:   f.IsDerived(),
		})
	}
	return response
}
