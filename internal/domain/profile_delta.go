package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ProfileDelta es el esquema explicito de campos actualizables del perfil.
// Un campo nil no se toca; un campo presente sobrescribe el valor actual.
// is_verified no forma parte del esquema: solo la verificacion de identidad lo escribe.
type ProfileDelta struct {
	FullName        *string   `json:"full_name,omitempty" validate:"omitempty,min=1,max=200"`
	Headline        *string   `json:"headline,omitempty" validate:"omitempty,max=300"`
	Summary         *string   `json:"summary,omitempty" validate:"omitempty,max=5000"`
	Location        *string   `json:"location,omitempty" validate:"omitempty,max=200"`
	Phone           *string   `json:"phone,omitempty" validate:"omitempty,max=50"`
	LinkedInURL     *string   `json:"linkedin_url,omitempty" validate:"omitempty,max=500,optional_http_url"`
	WebsiteURL      *string   `json:"website_url,omitempty" validate:"omitempty,max=500,optional_http_url"`
	CurrentTitle    *string   `json:"current_title,omitempty" validate:"omitempty,max=200"`
	CurrentCompany  *string   `json:"current_company,omitempty" validate:"omitempty,max=200"`
	YearsExperience *int      `json:"years_experience,omitempty" validate:"omitempty,min=0,max=80"`
	Skills          *[]string `json:"skills,omitempty" validate:"omitempty,max=100,dive,min=1,max=100"`
	Languages       *[]string `json:"languages,omitempty" validate:"omitempty,max=30,dive,min=1,max=60"`

	WorkExperience  []WorkExperienceInput  `json:"work_experience,omitempty" validate:"omitempty,max=50,dive"`
	Education       []EducationInput       `json:"education,omitempty" validate:"omitempty,max=30,dive"`
	BoardExperience []BoardExperienceInput `json:"board_experience,omitempty" validate:"omitempty,max=30,dive"`
	Certifications  []CertificationInput   `json:"certifications,omitempty" validate:"omitempty,max=50,dive"`
}

// Las entradas hijas se identifican por clave natural; reaplicarlas no duplica filas.

type WorkExperienceInput struct {
	Company     string `json:"company" validate:"required,max=200"`
	Title       string `json:"title" validate:"required,max=200"`
	StartDate   string `json:"start_date" validate:"max=20"`
	EndDate     string `json:"end_date" validate:"max=20"`
	IsCurrent   bool   `json:"is_current"`
	Description string `json:"description" validate:"max=5000"`
}

type EducationInput struct {
	Institution  string `json:"institution" validate:"required,max=200"`
	Degree       string `json:"degree" validate:"max=200"`
	FieldOfStudy string `json:"field_of_study" validate:"max=200"`
	StartDate    string `json:"start_date" validate:"max=20"`
	EndDate      string `json:"end_date" validate:"max=20"`
}

type BoardExperienceInput struct {
	Organization string `json:"organization" validate:"required,max=200"`
	Role         string `json:"role" validate:"required,max=200"`
	StartDate    string `json:"start_date" validate:"max=20"`
	EndDate      string `json:"end_date" validate:"max=20"`
	Description  string `json:"description" validate:"max=5000"`
}

type CertificationInput struct {
	Name         string `json:"name" validate:"required,max=200"`
	Issuer       string `json:"issuer" validate:"max=200"`
	IssuedDate   string `json:"issued_date" validate:"max=20"`
	ExpiryDate   string `json:"expiry_date" validate:"max=20"`
	CredentialID string `json:"credential_id" validate:"max=200"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
	knownFields  map[string]struct{}
)

func deltaValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("optional_http_url", func(fl validator.FieldLevel) bool {
			raw := strings.TrimSpace(fl.Field().String())
			if raw == "" {
				return true
			}
			u, err := url.Parse(raw)
			if err != nil {
				return false
			}
			return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
		})

		knownFields = make(map[string]struct{})
		t := reflect.TypeOf(ProfileDelta{})
		for i := 0; i < t.NumField(); i++ {
			name := strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]
			knownFields[name] = struct{}{}
		}
	})
	return validate
}

// IsEmpty indica si el delta no trae ningun campo actualizable.
func (d ProfileDelta) IsEmpty() bool {
	return d.FullName == nil &&
		d.Headline == nil &&
		d.Summary == nil &&
		d.Location == nil &&
		d.Phone == nil &&
		d.LinkedInURL == nil &&
		d.WebsiteURL == nil &&
		d.CurrentTitle == nil &&
		d.CurrentCompany == nil &&
		d.YearsExperience == nil &&
		d.Skills == nil &&
		d.Languages == nil &&
		len(d.WorkExperience) == 0 &&
		len(d.Education) == 0 &&
		len(d.BoardExperience) == 0 &&
		len(d.Certifications) == 0
}

// Validate aplica las reglas del esquema. Devuelve un error de validacion con los
// campos ofensivos.
func (d ProfileDelta) Validate() error {
	if d.IsEmpty() {
		return Validation("profile.validate", "no updatable fields")
	}
	if err := deltaValidator().Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return Validation("profile.validate", "invalid fields: "+strings.Join(fields, ", "))
		}
		return Validation("profile.validate", err.Error())
	}
	return nil
}

// DecodeStrictDelta decodifica una edicion manual: cualquier campo desconocido es rechazado.
func DecodeStrictDelta(raw []byte) (ProfileDelta, error) {
	var d ProfileDelta
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return ProfileDelta{}, Validation("profile.decode", "invalid profile payload: "+err.Error())
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return ProfileDelta{}, Validation("profile.decode", "invalid profile payload: unexpected data after JSON object")
	}
	return d, nil
}

// DecodeLenientDelta decodifica datos extraidos (CV, voz): los campos desconocidos se
// descartan y se devuelven para que el llamador los registre.
func DecodeLenientDelta(raw []byte) (ProfileDelta, []string, error) {
	deltaValidator()
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ProfileDelta{}, nil, Validation("ingestion.decode", "extracted data must be a JSON object")
	}
	var dropped []string
	for name := range fields {
		if _, ok := knownFields[name]; !ok {
			dropped = append(dropped, name)
			delete(fields, name)
		}
	}
	sort.Strings(dropped)

	cleaned, err := json.Marshal(fields)
	if err != nil {
		return ProfileDelta{}, dropped, Validation("ingestion.decode", err.Error())
	}
	var d ProfileDelta
	if err := json.Unmarshal(cleaned, &d); err != nil {
		return ProfileDelta{}, dropped, Validation("ingestion.decode", "invalid extracted data: "+err.Error())
	}
	return d, dropped, nil
}
