package entities

// FitPayload is the lead-capture form. Honey is a bot trap that real users never fill.
type FitPayload struct {
	Name     string   `json:"name" validate:"required" msg:"Name is required"`
	Email    string   `json:"email" validate:"required,emailshape" msg:"Valid email is required"`
	Company  string   `json:"company"`
	Website  string   `json:"website"`
	Budget   string   `json:"budget" validate:"required" msg:"Budget is required"`
	Timeline string   `json:"timeline" validate:"required" msg:"Timeline is required"`
	Services []string `json:"services" validate:"min=1" msg:"Choose at least 1 service"`
	Message  string   `json:"message" validate:"min=10" msg:"Message must be at least 10 characters"`
	Honey    string   `json:"honey"`
}

type FitEmailData struct {
	ID       string
	Name     string
	Email    string
	Company  string
	Website  string
	Budget   string
	Timeline string
	Services string
	Message  string
}

// AssessmentRequest is the free-form "tell us what to improve" form.
type AssessmentRequest struct {
	FullName string `json:"fullName" validate:"min=2" msg:"Name is required."`
	Email    string `json:"email" validate:"emailshape" msg:"Valid email is required."`
	Company  string `json:"company"`
	Website  string `json:"website"`
	Goal     string `json:"goal" validate:"min=10" msg:"Please add a bit more detail about what you want to improve."`
}
