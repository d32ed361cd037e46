// internal/workers/application/route-application/models.go
package routeapplication

type Input struct {
	ApplicationID string `json:"applicationId"`
	ServiceType   string `json:"serviceType"`
	Ward          string `json:"ward,omitempty"`
}

type Output struct {
	TargetOfficeLevel string `json:"targetOfficeLevel"`
	TargetOfficeName  string `json:"targetOfficeName"`
}

const inputSchema = `{
  "type": "object",
  "required": ["serviceType"],
  "properties": {
    "applicationId": {"type": "string"},
    "serviceType": {"type": "string", "minLength": 1},
    "ward": {"type": "string"}
  }
}`
