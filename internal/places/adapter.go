package places

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"darshan/internal/shared/upstream"
	"darshan/internal/shared/utils/envelope"

	"github.com/machinebox/graphql"
)

// ErrPlaceNotFound is returned when the catalog has no place for a slug
var ErrPlaceNotFound = errors.New("place not found")

// fetchPlaceDetailsQuery asks the catalog for everything the place page
// renders, keyed by slug
const fetchPlaceDetailsQuery = `
query FetchPlaceDetails($slug: String) {
  placeDetails(filters: { slug: { eq: $slug } }) {
    data {
      attributes {
        place {
          data {
            id
            attributes {
              name
              link
              bookable
              description
              images {
                data {
                  attributes {
                    url
                  }
                }
              }
              categories(pagination: { limit: 999 }) {
                data {
                  attributes {
                    Name
                  }
                }
              }
              city {
                data {
                  attributes {
                    name
                    cityDetail {
                      data {
                        attributes {
                          slug
                        }
                      }
                    }
                    places(pagination: { limit: 100 }) {
                      data {
                        id
                        attributes {
                          name
                          description
                          placeDetail {
                            data {
                              attributes {
                                slug
                              }
                            }
                          }
                          images {
                            data {
                              attributes {
                                url
                              }
                            }
                          }
                        }
                      }
                    }
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

// Adapter resolves place content and the catalog-to-backend id mapping
type Adapter interface {
	FetchPlace(ctx context.Context, slug string) (*Place, error)
	ResolveBackendPlace(ctx context.Context, catalogID string) (*BackendPlace, error)
}

type apiAdapter struct {
	gql     *graphql.Client
	booking *upstream.Client
}

// NewAdapter creates a place adapter over the content API and the booking
// backend
func NewAdapter(graphqlURL string, timeout time.Duration, booking *upstream.Client) Adapter {
	httpClient := &http.Client{Timeout: timeout}
	return &apiAdapter{
		gql:     graphql.NewClient(graphqlURL, graphql.WithHTTPClient(httpClient)),
		booking: booking,
	}
}

// FetchPlace runs the catalog query for a slug
func (a *apiAdapter) FetchPlace(ctx context.Context, slug string) (*Place, error) {
	req := graphql.NewRequest(fetchPlaceDetailsQuery)
	req.Var("slug", slug)

	var resp placeDetailsQuery
	if err := a.gql.Run(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("place content fetch failed: %w", err)
	}

	place := resp.toPlace()
	if place == nil {
		return nil, ErrPlaceNotFound
	}
	return place, nil
}

// ResolveBackendPlace maps a catalog place id to the booking backend's
// place record. The response may be result-wrapped.
func (a *apiAdapter) ResolveBackendPlace(ctx context.Context, catalogID string) (*BackendPlace, error) {
	if catalogID == "" {
		return nil, fmt.Errorf("catalog place id is required")
	}

	query := url.Values{}
	query.Set("locationId", catalogID)

	raw, err := a.booking.GetJSON(ctx, "/place/get", query, "")
	if err != nil {
		return nil, fmt.Errorf("backend place lookup failed: %w", err)
	}

	var backend BackendPlace
	if err := envelope.UnwrapInto(raw, &backend); err != nil {
		return nil, fmt.Errorf("backend place parse failed: %w", err)
	}
	if backend.ID == "" {
		return nil, fmt.Errorf("backend place lookup returned no id")
	}
	return &backend, nil
}
