package models

import (
	"time"
)

// Photo represents an uploaded property photograph
type Photo struct {
	ID       string `json:"id" yaml:"id" parquet:"id"`
	Filename string `json:"filename" yaml:"filename" parquet:"filename"`
	// Source is a displayable URL or path
	Source string `json:"source" yaml:"source" parquet:"source"`
	// Category is a free-form room label such as "exterior" or "kitchen"
	Category string `json:"category,omitempty" yaml:"category,omitempty" parquet:"category,optional"`

	// Quality metadata attached by the upload handler
	Width    int    `json:"width,omitempty" yaml:"width,omitempty" parquet:"width,optional"`
	Height   int    `json:"height,omitempty" yaml:"height,omitempty" parquet:"height,optional"`
	Checksum string `json:"checksum,omitempty" yaml:"checksum,omitempty" parquet:"checksum,optional"`
}

// PropertyInfo is the property snapshot taken at generation time
type PropertyInfo struct {
	Address      string `json:"address" yaml:"address"`
	Postcode     string `json:"postcode" yaml:"postcode"`
	Price        string `json:"price" yaml:"price"`
	Bedrooms     int    `json:"bedrooms" yaml:"bedrooms"`
	Bathrooms    int    `json:"bathrooms" yaml:"bathrooms"`
	PropertyType string `json:"property_type" yaml:"property_type"`
	Description  string `json:"description" yaml:"description"`
}

// AgentInfo is the agent snapshot taken at generation time
type AgentInfo struct {
	Name  string `json:"name" yaml:"name"`
	Phone string `json:"phone" yaml:"phone"`
	Email string `json:"email" yaml:"email"`
}

// FloorPlan is an optional uploaded floor plan
type FloorPlan struct {
	Filename string `json:"filename" yaml:"filename"`
	Source   string `json:"source" yaml:"source"`
}

// Brochure is the paginated document produced by one generation run
type Brochure struct {
	Pages       []Page       `json:"pages" yaml:"pages"`
	Photos      []*Photo     `json:"photos" yaml:"photos"`
	Property    PropertyInfo `json:"property" yaml:"property"`
	Agent       AgentInfo    `json:"agent" yaml:"agent"`
	FloorPlan   *FloorPlan   `json:"floorplan,omitempty" yaml:"floorplan,omitempty"`
	GeneratedAt time.Time    `json:"generated_at" yaml:"generated_at"`
}

// Session represents a brochure editing session
type Session struct {
	ID        string     `json:"id"`
	Photos    []*Photo   `json:"photos"`
	FloorPlan *FloorPlan `json:"floorplan,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
