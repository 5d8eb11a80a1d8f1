package domain

import "time"

type Profile struct {
	ID              string    `json:"id"`
	FullName        string    `json:"full_name"`
	Headline        string    `json:"headline"`
	Summary         string    `json:"summary"`
	Location        string    `json:"location"`
	Phone           string    `json:"phone"`
	LinkedInURL     string    `json:"linkedin_url"`
	WebsiteURL      string    `json:"website_url"`
	CurrentTitle    string    `json:"current_title"`
	CurrentCompany  string    `json:"current_company"`
	YearsExperience *int      `json:"years_experience"`
	Skills          []string  `json:"skills"`
	Languages       []string  `json:"languages"`
	IsVerified      bool      `json:"is_verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type WorkExperience struct {
	ID          string    `json:"id"`
	ProfileID   string    `json:"profile_id"`
	Company     string    `json:"company"`
	Title       string    `json:"title"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	IsCurrent   bool      `json:"is_current"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type Education struct {
	ID           string    `json:"id"`
	ProfileID    string    `json:"profile_id"`
	Institution  string    `json:"institution"`
	Degree       string    `json:"degree"`
	FieldOfStudy string    `json:"field_of_study"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	CreatedAt    time.Time `json:"created_at"`
}

type BoardExperience struct {
	ID           string    `json:"id"`
	ProfileID    string    `json:"profile_id"`
	Organization string    `json:"organization"`
	Role         string    `json:"role"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
}

type Certification struct {
	ID           string    `json:"id"`
	ProfileID    string    `json:"profile_id"`
	Name         string    `json:"name"`
	Issuer       string    `json:"issuer"`
	IssuedDate   string    `json:"issued_date"`
	ExpiryDate   string    `json:"expiry_date"`
	CredentialID string    `json:"credential_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProfileAggregate es el perfil raiz junto con sus cuatro colecciones hijas.
// Las colecciones nunca son nil en una lectura agregada.
type ProfileAggregate struct {
	Profile
	WorkExperience  []WorkExperience  `json:"work_experience"`
	Education       []Education       `json:"education"`
	BoardExperience []BoardExperience `json:"board_experience"`
	Certifications  []Certification   `json:"certifications"`
}

// NewProfileAggregate inicializa las colecciones vacias.
func NewProfileAggregate(p Profile) ProfileAggregate {
	return ProfileAggregate{
		Profile:         p,
		WorkExperience:  []WorkExperience{},
		Education:       []Education{},
		BoardExperience: []BoardExperience{},
		Certifications:  []Certification{},
	}
}

// MergeSource identifica el origen de un delta de perfil.
type MergeSource string

const (
	MergeSourceManual MergeSource = "manual"
	MergeSourceCV     MergeSource = "cv"
	MergeSourceVoice  MergeSource = "voice"
)
