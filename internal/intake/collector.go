package intake

import (
	"net/url"
	"strings"

	"github.com/lehigh-university-libraries/brochurer/internal/models"
)

// FormFields is a snapshot of the property/agent form as submitted
type FormFields struct {
	Address      string   `json:"address" yaml:"address"`
	Postcode     string   `json:"postcode" yaml:"postcode"`
	Price        string   `json:"price" yaml:"price"`
	PropertyType string   `json:"property_type" yaml:"property_type"`
	Description  string   `json:"description" yaml:"description"`
	Features     []string `json:"features" yaml:"features"` // values of the checked feature inputs
	AgentName    string   `json:"agent_name" yaml:"agent_name"`
	AgentPhone   string   `json:"agent_phone" yaml:"agent_phone"`
	AgentEmail   string   `json:"agent_email" yaml:"agent_email"`
}

// Input is the normalized record the assembly engine consumes
type Input struct {
	Photos    []*models.Photo
	Property  models.PropertyInfo
	Agent     models.AgentInfo
	FloorPlan *models.FloorPlan
}

// Collect normalizes the photo list, form snapshot and optional floor plan.
// It performs no validation.
func Collect(photos []*models.Photo, form FormFields, floorplan *models.FloorPlan) Input {
	if photos == nil {
		photos = []*models.Photo{}
	}

	return Input{
		Photos: photos,
		Property: models.PropertyInfo{
			Address:      form.Address,
			Postcode:     form.Postcode,
			Price:        form.Price,
			Bedrooms:     countFeatures(form.Features, "bedroom"),
			Bathrooms:    countFeatures(form.Features, "bathroom"),
			PropertyType: form.PropertyType,
			Description:  form.Description,
		},
		Agent: models.AgentInfo{
			Name:  form.AgentName,
			Phone: form.AgentPhone,
			Email: form.AgentEmail,
		},
		FloorPlan: floorplan,
	}
}

// countFeatures counts checked features whose value contains substr.
// Matching is case-sensitive.
func countFeatures(features []string, substr string) int {
	n := 0
	for _, f := range features {
		if strings.Contains(f, substr) {
			n++
		}
	}
	return n
}

// FormFromValues reads a form post. Checked features arrive as repeated
// "features" keys.
func FormFromValues(values url.Values) FormFields {
	return FormFields{
		Address:      values.Get("address"),
		Postcode:     values.Get("postcode"),
		Price:        values.Get("price"),
		PropertyType: values.Get("property_type"),
		Description:  values.Get("description"),
		Features:     append([]string{}, values["features"]...),
		AgentName:    values.Get("agent_name"),
		AgentPhone:   values.Get("agent_phone"),
		AgentEmail:   values.Get("agent_email"),
	}
}
