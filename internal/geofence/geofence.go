package geofence

import (
	"encoding/json"
	"time"

	geofenceDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/geofence"
)

type Geofence struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Description       *string         `json:"description"`
	PolygonJSON       json.RawMessage `json:"polygon_json"`
	OrganizationID    int64           `json:"organization"`
	OrganizationName  string          `json:"organization_name"`
	Active            bool            `json:"active"`
	CreatedByUsername *string         `json:"created_by_username"`
	CenterPoint       *[2]float64     `json:"center_point"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type geoJSON struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
	Geometry    *geoJSON        `json:"geometry"`
}

// PolygonCoordinates returns the rings of a Polygon or of a Feature wrapping
// one. Anything else yields nil.
func PolygonCoordinates(raw json.RawMessage) [][][]float64 {
	var g geoJSON
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil
	}

	var coords json.RawMessage
	switch {
	case g.Type == "Polygon":
		coords = g.Coordinates
	case g.Type == "Feature" && g.Geometry != nil && g.Geometry.Type == "Polygon":
		coords = g.Geometry.Coordinates
	default:
		return nil
	}

	var rings [][][]float64
	if err := json.Unmarshal(coords, &rings); err != nil {
		return nil
	}
	return rings
}

// CenterPoint averages every vertex of the first ring, closing vertex
// included, and returns [lon, lat]. It never fails; unusable input gives nil.
func CenterPoint(raw json.RawMessage) *[2]float64 {
	rings := PolygonCoordinates(raw)
	if len(rings) == 0 || len(rings[0]) == 0 {
		return nil
	}

	var sumLon, sumLat float64
	for _, vertex := range rings[0] {
		if len(vertex) < 2 {
			return nil
		}
		sumLon += vertex[0]
		sumLat += vertex[1]
	}
	n := float64(len(rings[0]))
	return &[2]float64{sumLon / n, sumLat / n}
}

func FromDataModel(g *geofenceDatamodel.Geofence) *Geofence {
	out := &Geofence{
		ID:             g.ID,
		Name:           g.Name,
		Description:    g.Description,
		PolygonJSON:    json.RawMessage(g.PolygonJSON),
		OrganizationID: g.OrganizationID,
		Active:         g.Active,
		CenterPoint:    CenterPoint(json.RawMessage(g.PolygonJSON)),
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
	}
	if g.Organization != nil {
		out.OrganizationName = g.Organization.Name
	}
	if g.CreatedBy != nil {
		name := g.CreatedBy.Username
		out.CreatedByUsername = &name
	}
	return out
}
