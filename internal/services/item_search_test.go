// internal/services/item_search_test.go
package services

import (
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/config"
	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/geo"
	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/models"
	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/utils"
)

var testGeoCfg = config.GeoConfig{
	MapMaxResults:   100,
	DefaultRadiusKm: 10,
	QueryTimeoutSec: 5,
}

func TestParseMapQueryDefaults(t *testing.T) {
	params, errs := ParseMapQuery(url.Values{}, testGeoCfg)

	require.Empty(t, errs)
	assert.Equal(t, 0.0, params.Latitude)
	assert.Equal(t, 0.0, params.Longitude)
	assert.Equal(t, 10.0, params.RadiusKm)
	assert.Equal(t, models.ItemStatusActive, params.Status)
}

func TestParseMapQueryValid(t *testing.T) {
	values := url.Values{}
	values.Set("latitude", "-23.5505")
	values.Set("longitude", "-46.6333")
	values.Set("radius", "25")

	params, errs := ParseMapQuery(values, testGeoCfg)

	require.Empty(t, errs)
	assert.Equal(t, -23.5505, params.Latitude)
	assert.Equal(t, -46.6333, params.Longitude)
	assert.Equal(t, 25.0, params.RadiusKm)
}

func TestParseMapQueryOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		field string
	}{
		{"latitude too high", "latitude", "999", "latitude"},
		{"latitude too low", "latitude", "-90.5", "latitude"},
		{"longitude too high", "longitude", "181", "longitude"},
		{"radius too large", "radius", "200", "radius"},
		{"radius at exclusive lower bound", "radius", "0.1", "radius"},
		{"radius zero", "radius", "0", "radius"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{}
			values.Set(tt.key, tt.value)

			params, errs := ParseMapQuery(values, testGeoCfg)

			assert.Nil(t, params)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.NotEmpty(t, errs[0].Message)
		})
	}
}

func TestParseMapQueryMalformedValues(t *testing.T) {
	values := url.Values{}
	values.Set("latitude", "not-a-number")
	values.Set("materialId", "not-a-uuid")
	values.Set("status", "BROKEN")

	params, errs := ParseMapQuery(values, testGeoCfg)

	assert.Nil(t, params)
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "latitude")
	assert.Contains(t, fields, "materialId")
	assert.Contains(t, fields, "status")
}

func TestParseMapQueryRadiusUpperBoundInclusive(t *testing.T) {
	values := url.Values{}
	values.Set("radius", "100")

	params, errs := ParseMapQuery(values, testGeoCfg)

	require.Empty(t, errs)
	assert.Equal(t, 100.0, params.RadiusKm)
}

func TestParseMapQueryNegativePrice(t *testing.T) {
	values := url.Values{}
	values.Set("minPrice", "-1")

	params, errs := ParseMapQuery(values, testGeoCfg)

	assert.Nil(t, params)
	require.Len(t, errs, 1)
	assert.Equal(t, "min_price", errs[0].Field)
}

func TestParseSearchQueryWithoutGeo(t *testing.T) {
	values := url.Values{}
	values.Set("query", "garrafa pet")

	params, errs := ParseSearchQuery(values, testGeoCfg, utils.PaginationParams{Page: 1, Limit: 20})

	require.Empty(t, errs)
	assert.Nil(t, params.Geo)
	assert.Equal(t, "garrafa pet", params.Query)
}

func TestParseSearchQueryWithGeo(t *testing.T) {
	values := url.Values{}
	values.Set("latitude", "-23.5505")

	params, errs := ParseSearchQuery(values, testGeoCfg, utils.PaginationParams{Page: 1, Limit: 20})

	require.Empty(t, errs)
	require.NotNil(t, params.Geo)
	assert.Equal(t, -23.5505, params.Geo.Latitude)
	assert.Equal(t, 0.0, params.Geo.Longitude)
	assert.Equal(t, 10.0, params.Geo.RadiusKm)
}

func TestParseSearchQueryGeoValidated(t *testing.T) {
	values := url.Values{}
	values.Set("latitude", "-23.5505")
	values.Set("radius", "500")

	params, errs := ParseSearchQuery(values, testGeoCfg, utils.PaginationParams{Page: 1, Limit: 20})

	assert.Nil(t, params)
	require.Len(t, errs, 1)
	assert.Equal(t, "radius", errs[0].Field)
}

func TestCompileItemFiltersDefaults(t *testing.T) {
	compiled := compileItemFilters(ItemFilters{}, nil)

	require.Len(t, compiled, 1)
	assert.Equal(t, "status = ?", compiled[0].Expr)
	assert.Equal(t, []interface{}{models.ItemStatusActive}, compiled[0].Args)
}

func TestCompileItemFiltersSpatial(t *testing.T) {
	g := &GeoQuery{Latitude: -23.5505, Longitude: -46.6333, RadiusKm: 25}
	compiled := compileItemFilters(ItemFilters{}, g)

	require.Len(t, compiled, 3)
	assert.Equal(t, "latitude IS NOT NULL AND longitude IS NOT NULL", compiled[1].Expr)
	assert.Equal(t, spatialWithinExpr, compiled[2].Expr)
	// Radius travels to PostGIS in meters, longitude before latitude.
	assert.Equal(t, []interface{}{-46.6333, -23.5505, 25000.0}, compiled[2].Args)
}

func TestCompileItemFiltersAttributes(t *testing.T) {
	materialID := uuid.New()
	organizationID := uuid.New()
	minPrice := 1.5
	maxPrice := 99.0

	compiled := compileItemFilters(ItemFilters{
		Query:          "Vidro",
		MaterialID:     &materialID,
		OrganizationID: &organizationID,
		MinPrice:       &minPrice,
		MaxPrice:       &maxPrice,
		Status:         models.ItemStatusSold,
	}, nil)

	exprs := make([]string, 0, len(compiled))
	for _, f := range compiled {
		exprs = append(exprs, f.Expr)
	}

	assert.Contains(t, exprs, "(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)")
	assert.Contains(t, exprs, "material_id = ?")
	assert.Contains(t, exprs, "organization_id = ?")
	assert.Contains(t, exprs, "price >= ?")
	assert.Contains(t, exprs, "price <= ?")
	assert.Equal(t, []interface{}{models.ItemStatusSold}, compiled[0].Args)
	// The text term is lowercased and wrapped for LIKE.
	assert.Equal(t, []interface{}{"%vidro%", "%vidro%"}, compiled[1].Args)
}

func TestCompileItemFiltersInvertedPriceRange(t *testing.T) {
	// min above max is not rejected; both clauses apply and simply
	// match nothing.
	minPrice := 50.0
	maxPrice := 10.0

	compiled := compileItemFilters(ItemFilters{MinPrice: &minPrice, MaxPrice: &maxPrice}, nil)

	require.Len(t, compiled, 3)
	assert.Equal(t, []interface{}{50.0}, compiled[1].Args)
	assert.Equal(t, []interface{}{10.0}, compiled[2].Args)
}

func TestDistanceOrderExpr(t *testing.T) {
	g := &GeoQuery{Latitude: -23.5505, Longitude: -46.6333}
	expr := distanceOrderExpr(g)

	assert.Equal(t, "ST_DistanceSphere(ST_MakePoint(longitude, latitude), ST_MakePoint(-46.6333000, -23.5505000)) ASC", expr)
}

func itemFixture() models.Item {
	lat := -23.5505
	lng := -46.6333
	price := 12.5
	now := time.Now()

	category := models.MaterialCategory{Name: "Plástico"}
	category.ID = uuid.New()

	material := models.Material{Name: "Garrafa PET", Category: &category}
	material.ID = uuid.New()

	org := models.Organization{Name: "EcoRecicla", Verified: true}
	org.ID = uuid.New()

	creator := models.User{Name: "Maria", Email: "maria@example.com"}
	creator.ID = uuid.New()

	primary := models.Image{URL: "https://cdn.example.com/b.jpg", IsPrimary: true}
	primary.ID = uuid.New()
	primary.CreatedAt = now.Add(time.Hour)

	older := models.Image{URL: "https://cdn.example.com/a.jpg"}
	older.ID = uuid.New()
	older.CreatedAt = now

	item := models.Item{
		CreatorID:       creator.ID,
		Title:           "Garrafas PET limpas",
		Description:     "Garrafas prensadas, prontas para coleta",
		Status:          models.ItemStatusActive,
		TransactionKind: models.TransactionKindSale,
		Price:           &price,
		Quantity:        30,
		Latitude:        &lat,
		Longitude:       &lng,
		Creator:         creator,
		Material:        &material,
		Organization:    &org,
		Images:          []models.Image{older, primary},
	}
	item.ID = uuid.New()
	item.CreatedAt = now

	return item
}

func TestShapeItemFullDetail(t *testing.T) {
	item := itemFixture()
	center := geo.Point{Latitude: -23.5505, Longitude: -46.6333}

	resp := shapeItem(&item, &center, ImageDetailFull)

	assert.Equal(t, item.ID, resp.ID)
	assert.Equal(t, item.Title, resp.Title)
	require.NotNil(t, resp.Price)
	assert.Equal(t, 12.5, *resp.Price)

	require.NotNil(t, resp.Location)
	assert.Equal(t, -23.5505, resp.Location.Latitude)

	// Center equals the item's own coordinates: distance is zero and
	// still present in the payload.
	require.NotNil(t, resp.Distance)
	assert.Equal(t, 0.0, *resp.Distance)

	require.NotNil(t, resp.Material)
	assert.Equal(t, "Garrafa PET", resp.Material.Name)
	require.NotNil(t, resp.Material.Category)
	assert.Equal(t, "Plástico", *resp.Material.Category)

	require.NotNil(t, resp.Organization)
	assert.True(t, resp.Organization.Verified)

	// Primary image first, then the older secondary.
	require.Len(t, resp.Images, 2)
	assert.True(t, resp.Images[0].IsPrimary)
	assert.Equal(t, "https://cdn.example.com/b.jpg", resp.Images[0].URL)
	assert.Equal(t, "https://cdn.example.com/a.jpg", resp.Images[1].URL)
}

func TestShapeItemPrimaryDetail(t *testing.T) {
	item := itemFixture()

	resp := shapeItem(&item, nil, ImageDetailPrimary)

	require.Len(t, resp.Images, 1)
	assert.True(t, resp.Images[0].IsPrimary)

	// No center supplied: no distance.
	assert.Nil(t, resp.Distance)
}

func TestShapeItemDistanceFromOwnCoordinates(t *testing.T) {
	item := itemFixture()
	center := geo.Point{Latitude: -22.9068, Longitude: -43.1729}

	resp := shapeItem(&item, &center, ImageDetailPrimary)

	require.NotNil(t, resp.Distance)
	expected := geo.Distance(center, geo.Point{Latitude: *item.Latitude, Longitude: *item.Longitude})
	assert.InDelta(t, expected, *resp.Distance, 1e-9)
}

func TestShapeItemWithoutOptionalRelations(t *testing.T) {
	item := itemFixture()
	item.Material = nil
	item.Organization = nil
	item.Latitude = nil
	item.Longitude = nil
	item.Price = nil
	item.Images = nil

	center := geo.Point{Latitude: 0, Longitude: 0}
	resp := shapeItem(&item, &center, ImageDetailFull)

	assert.Nil(t, resp.Material)
	assert.Nil(t, resp.Organization)
	assert.Nil(t, resp.Location)
	assert.Nil(t, resp.Distance)
	assert.Nil(t, resp.Price)
	assert.Empty(t, resp.Images)
}

func TestShapeImagesNoPrimaryKeepsOldest(t *testing.T) {
	now := time.Now()
	first := models.Image{URL: "first.jpg"}
	first.CreatedAt = now
	second := models.Image{URL: "second.jpg"}
	second.CreatedAt = now.Add(time.Minute)

	shaped := shapeImages([]models.Image{second, first}, ImageDetailPrimary)

	require.Len(t, shaped, 1)
	assert.Equal(t, "first.jpg", shaped[0].URL)
}
