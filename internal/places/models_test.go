package places

import (
	"encoding/json"
	"testing"
)

func TestBackendPlaceIDTolerance(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"string id", `{"id":"65aa27a26aebab05633bd572","name":"Sun Temple"}`, "65aa27a26aebab05633bd572"},
		{"numeric id", `{"id":42,"name":"Sun Temple"}`, "42"},
		{"missing id", `{"name":"Sun Temple"}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var backend BackendPlace
			if err := json.Unmarshal([]byte(tt.in), &backend); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if backend.ID != tt.want {
				t.Errorf("ID = %q, want %q", backend.ID, tt.want)
			}
			if backend.Name != "Sun Temple" {
				t.Errorf("Name = %q", backend.Name)
			}
		})
	}
}

func TestBackendPlaceIDRejectsObjects(t *testing.T) {
	var backend BackendPlace
	if err := json.Unmarshal([]byte(`{"id":{"nested":true}}`), &backend); err == nil {
		t.Error("expected error for object-valued id")
	}
}

const catalogPayload = `{
	"placeDetails": {
		"data": [{
			"attributes": {
				"place": {
					"data": {
						"id": "cat-1",
						"attributes": {
							"name": "Sun Temple",
							"link": "sun-temple",
							"bookable": true,
							"description": "A 13th century temple.",
							"images": {"data": [
								{"attributes": {"url": "https://cdn/img1.jpg"}},
								{"attributes": {"url": ""}}
							]},
							"categories": {"data": [
								{"attributes": {"Name": "Heritage"}}
							]},
							"city": {"data": {"attributes": {
								"name": "Konark",
								"cityDetail": {"data": {"attributes": {"slug": "konark"}}},
								"places": {"data": [{
									"id": "cat-2",
									"attributes": {
										"name": "Beach",
										"description": "Nearby beach.",
										"images": {"data": []},
										"placeDetail": {"data": {"attributes": {"slug": "konark-beach"}}}
									}
								}]}
							}}}
						}
					}
				}
			}
		}]
	}
}`

func TestToPlaceFlattensCatalogNesting(t *testing.T) {
	var resp placeDetailsQuery
	if err := json.Unmarshal([]byte(catalogPayload), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	place := resp.toPlace()
	if place == nil {
		t.Fatal("toPlace returned nil")
	}

	if place.CatalogID != "cat-1" || place.Name != "Sun Temple" || !place.Bookable {
		t.Errorf("place = %+v", place)
	}
	if len(place.Images) != 1 || place.Images[0] != "https://cdn/img1.jpg" {
		t.Errorf("Images = %v, empty urls must be dropped", place.Images)
	}
	if len(place.Categories) != 1 || place.Categories[0] != "Heritage" {
		t.Errorf("Categories = %v", place.Categories)
	}

	if place.City == nil {
		t.Fatal("City missing")
	}
	if place.City.Name != "Konark" || place.City.Slug != "konark" {
		t.Errorf("City = %+v", place.City)
	}
	if len(place.City.Places) != 1 || place.City.Places[0].Slug != "konark-beach" {
		t.Errorf("siblings = %+v", place.City.Places)
	}
}

func TestToPlaceEmptyResult(t *testing.T) {
	var resp placeDetailsQuery
	if err := json.Unmarshal([]byte(`{"placeDetails":{"data":[]}}`), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if place := resp.toPlace(); place != nil {
		t.Errorf("toPlace = %+v, want nil for an unknown slug", place)
	}
}
