package places

import (
	"encoding/json"
	"fmt"
)

// Place is the marketing content for a tourist site, flattened from the
// catalog's nested payload
type Place struct {
	CatalogID   string        `json:"catalog_id"`
	Name        string        `json:"name"`
	Link        string        `json:"link,omitempty"`
	Bookable    bool          `json:"bookable"`
	Description string        `json:"description,omitempty"`
	Images      []string      `json:"images,omitempty"`
	Categories  []string      `json:"categories,omitempty"`
	City        *CityInfo     `json:"city,omitempty"`
	Backend     *BackendPlace `json:"backend_place,omitempty"`
}

// CityInfo carries the place's city and its sibling places
type CityInfo struct {
	Name   string         `json:"name"`
	Slug   string         `json:"slug,omitempty"`
	Places []SiblingPlace `json:"places,omitempty"`
}

// SiblingPlace is a neighbouring site in the same city
type SiblingPlace struct {
	CatalogID   string   `json:"catalog_id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug,omitempty"`
	Description string   `json:"description,omitempty"`
	Images      []string `json:"images,omitempty"`
}

// BackendPlace is the booking backend's view of the same site
type BackendPlace struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// UnmarshalJSON tolerates numeric ids; the backend has been seen sending
// both numbers and object-id strings
func (b *BackendPlace) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID   json.RawMessage `json:"id"`
		Name string          `json:"name"`
		Type string          `json:"type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.Name = raw.Name
	b.Type = raw.Type
	if len(raw.ID) == 0 {
		return nil
	}
	var asString string
	if err := json.Unmarshal(raw.ID, &asString); err == nil {
		b.ID = asString
		return nil
	}
	var asNumber json.Number
	if err := json.Unmarshal(raw.ID, &asNumber); err != nil {
		return fmt.Errorf("backend place id is neither string nor number: %w", err)
	}
	b.ID = asNumber.String()
	return nil
}

// Catalog response shapes (Strapi-style data/attributes nesting)

type mediaList struct {
	Data []struct {
		Attributes struct {
			URL string `json:"url"`
		} `json:"attributes"`
	} `json:"data"`
}

func (m mediaList) urls() []string {
	out := make([]string, 0, len(m.Data))
	for _, d := range m.Data {
		if d.Attributes.URL != "" {
			out = append(out, d.Attributes.URL)
		}
	}
	return out
}

type slugRef struct {
	Data *struct {
		Attributes struct {
			Slug string `json:"slug"`
		} `json:"attributes"`
	} `json:"data"`
}

func (s slugRef) slug() string {
	if s.Data == nil {
		return ""
	}
	return s.Data.Attributes.Slug
}

type siblingAttributes struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Images      mediaList `json:"images"`
	PlaceDetail slugRef   `json:"placeDetail"`
}

type cityAttributes struct {
	Name       string  `json:"name"`
	CityDetail slugRef `json:"cityDetail"`
	Places     struct {
		Data []struct {
			ID         string            `json:"id"`
			Attributes siblingAttributes `json:"attributes"`
		} `json:"data"`
	} `json:"places"`
}

type placeAttributes struct {
	Name        string    `json:"name"`
	Link        string    `json:"link"`
	Bookable    bool      `json:"bookable"`
	Description string    `json:"description"`
	Images      mediaList `json:"images"`
	Categories  struct {
		Data []struct {
			Attributes struct {
				Name string `json:"Name"`
			} `json:"attributes"`
		} `json:"data"`
	} `json:"categories"`
	City struct {
		Data *struct {
			Attributes cityAttributes `json:"attributes"`
		} `json:"data"`
	} `json:"city"`
}

type placeDetailsQuery struct {
	PlaceDetails struct {
		Data []struct {
			Attributes struct {
				Place struct {
					Data *struct {
						ID         string          `json:"id"`
						Attributes placeAttributes `json:"attributes"`
					} `json:"data"`
				} `json:"place"`
			} `json:"attributes"`
		} `json:"data"`
	} `json:"placeDetails"`
}

// toPlace flattens the catalog nesting into the Place shape
func (q *placeDetailsQuery) toPlace() *Place {
	if len(q.PlaceDetails.Data) == 0 {
		return nil
	}
	node := q.PlaceDetails.Data[0].Attributes.Place.Data
	if node == nil {
		return nil
	}

	attrs := node.Attributes
	place := &Place{
		CatalogID:   node.ID,
		Name:        attrs.Name,
		Link:        attrs.Link,
		Bookable:    attrs.Bookable,
		Description: attrs.Description,
		Images:      attrs.Images.urls(),
	}

	for _, cat := range attrs.Categories.Data {
		if cat.Attributes.Name != "" {
			place.Categories = append(place.Categories, cat.Attributes.Name)
		}
	}

	if city := attrs.City.Data; city != nil {
		info := &CityInfo{
			Name: city.Attributes.Name,
			Slug: city.Attributes.CityDetail.slug(),
		}
		for _, sibling := range city.Attributes.Places.Data {
			info.Places = append(info.Places, SiblingPlace{
				CatalogID:   sibling.ID,
				Name:        sibling.Attributes.Name,
				Slug:        sibling.Attributes.PlaceDetail.slug(),
				Description: sibling.Attributes.Description,
				Images:      sibling.Attributes.Images.urls(),
			})
		}
		place.City = info
	}

	return place
}
