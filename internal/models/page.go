package models

import (
	"encoding/json"
	"fmt"
)

// PageType identifies the role a page plays in a brochure
type PageType string

const (
	PageTypeCover     PageType = "cover"
	PageTypeInterior  PageType = "interior"
	PageTypeFloorPlan PageType = "floorplan"
	PageTypeContact   PageType = "contact"
)

// Page is a single brochure page. Photos are shared with Brochure.Photos.
type Page struct {
	ID      int         `json:"id" yaml:"id"`
	Type    PageType    `json:"type" yaml:"type"`
	Title   string      `json:"title" yaml:"title"`
	Photos  []*Photo    `json:"photos" yaml:"photos"`
	Content PageContent `json:"content" yaml:"content"`
}

// PageContent is the type-specific payload of a page. The concrete type
// always matches the page's Type.
type PageContent interface {
	PageType() PageType
}

type CoverContent struct {
	Address string `json:"address" yaml:"address"`
	Price   string `json:"price" yaml:"price"`
}

type InteriorContent struct {
	Description string `json:"description" yaml:"description"`
}

type FloorPlanContent struct {
	FloorPlan FloorPlan `json:"floorplan" yaml:"floorplan"`
}

type ContactContent struct {
	Agent AgentInfo `json:"agent" yaml:"agent"`
}

func (CoverContent) PageType() PageType     { return PageTypeCover }
func (InteriorContent) PageType() PageType  { return PageTypeInterior }
func (FloorPlanContent) PageType() PageType { return PageTypeFloorPlan }
func (ContactContent) PageType() PageType   { return PageTypeContact }

// UnmarshalJSON decodes the content variant selected by the page type.
func (p *Page) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID      int             `json:"id"`
		Type    PageType        `json:"type"`
		Title   string          `json:"title"`
		Photos  []*Photo        `json:"photos"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	content, err := newContent(raw.Type)
	if err != nil {
		return err
	}
	if len(raw.Content) > 0 && string(raw.Content) != "null" {
		if err := json.Unmarshal(raw.Content, content); err != nil {
			return fmt.Errorf("failed to decode %s page content: %w", raw.Type, err)
		}
	}

	p.ID = raw.ID
	p.Type = raw.Type
	p.Title = raw.Title
	p.Photos = raw.Photos
	p.Content = derefContent(content)
	return nil
}

func newContent(t PageType) (any, error) {
	switch t {
	case PageTypeCover:
		return &CoverContent{}, nil
	case PageTypeInterior:
		return &InteriorContent{}, nil
	case PageTypeFloorPlan:
		return &FloorPlanContent{}, nil
	case PageTypeContact:
		return &ContactContent{}, nil
	default:
		return nil, fmt.Errorf("unknown page type %q", t)
	}
}

func derefContent(c any) PageContent {
	switch v := c.(type) {
	case *CoverContent:
		return *v
	case *InteriorContent:
		return *v
	case *FloorPlanContent:
		return *v
	case *ContactContent:
		return *v
	}
	return nil
}
