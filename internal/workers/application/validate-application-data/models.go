// internal/workers/application/validate-application-data/models.go
package validateapplicationdata

import "nagarik-sewa/internal/common/validation"

// ApplicationData is the citizen draft carried by the process.
type ApplicationData struct {
	FullName          string `json:"fullName"`
	Email             string `json:"email,omitempty"`
	Phone             string `json:"phone,omitempty"`
	CitizenshipNumber string `json:"citizenshipNumber,omitempty"`
	Province          string `json:"province"`
	District          string `json:"district"`
	City              string `json:"city"`
	Ward              string `json:"ward,omitempty"`
	ServiceType       string `json:"serviceType"`
}

type Input struct {
	ApplicationData ApplicationData `json:"applicationData"`
}

type Output struct {
	IsValid          bool                         `json:"isValid"`
	ValidatedData    ApplicationData              `json:"validatedData"`
	CityAvailable    bool                         `json:"cityAvailable"`
	ValidationErrors []validation.ValidationError `json:"validationErrors"`
}

const inputSchema = `{
  "type": "object",
  "required": ["applicationData"],
  "properties": {
    "applicationData": {
      "type": "object",
      "required": ["fullName", "province", "district", "city", "serviceType"],
      "properties": {
        "fullName": {"type": "string"},
        "email": {"type": "string"},
        "phone": {"type": "string"},
        "citizenshipNumber": {"type": "string"},
        "province": {"type": "string"},
        "district": {"type": "string"},
        "city": {"type": "string"},
        "ward": {"type": "string"},
        "serviceType": {"type": "string"}
      }
    }
  }
}`
