// internal/services/item_search.go
package services

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/config"
	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/geo"
	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/models"
	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/utils"
)

// GeoQuery is the validated spatial part of a proximity query.
type GeoQuery struct {
	Latitude  float64 `json:"latitude" validate:"latitude_range"`
	Longitude float64 `json:"longitude" validate:"longitude_range"`
	RadiusKm  float64 `json:"radius" validate:"radius_km"`
}

func (g *GeoQuery) Center() geo.Point {
	return geo.Point{Latitude: g.Latitude, Longitude: g.Longitude}
}

// ItemFilters are the optional attribute constraints shared by the map
// and paginated search paths. All supplied filters are ANDed; min/max
// price are not cross-validated against each other, an inverted range
// simply matches nothing.
type ItemFilters struct {
	Query          string            `json:"query"`
	MaterialID     *uuid.UUID        `json:"material_id"`
	OrganizationID *uuid.UUID        `json:"organization_id"`
	Status         models.ItemStatus `json:"status"`
	MinPrice       *float64          `json:"min_price" validate:"omitempty,gte=0"`
	MaxPrice       *float64          `json:"max_price" validate:"omitempty,gte=0"`
}

type MapQueryParams struct {
	GeoQuery
	ItemFilters
}

type ItemSearchParams struct {
	utils.PaginationParams
	ItemFilters
	Geo *GeoQuery
}

// ParseMapQuery is the validation gate for the map endpoint: raw query
// values in, typed range-checked parameters or field errors out. No
// query is executed when errors are returned. Missing latitude and
// longitude default to (0, 0) rather than failing.
func ParseMapQuery(values url.Values, geoCfg config.GeoConfig) (*MapQueryParams, []utils.ValidationError) {
	params := &MapQueryParams{
		GeoQuery: GeoQuery{RadiusKm: geoCfg.DefaultRadiusKm},
		ItemFilters: ItemFilters{
			Status: models.ItemStatusActive,
		},
	}

	var errs []utils.ValidationError
	errs = parseFloatParam(values, "latitude", &params.Latitude, errs)
	errs = parseFloatParam(values, "longitude", &params.Longitude, errs)
	errs = parseFloatParam(values, "radius", &params.RadiusKm, errs)
	errs = parseItemFilters(values, &params.ItemFilters, errs)

	errs = append(errs, utils.GetValidationErrors(utils.ValidateStruct(params))...)
	if len(errs) > 0 {
		return nil, errs
	}
	return params, nil
}

// ParseSearchQuery is the validation gate for the paginated listing
// endpoint. Geographic parameters are optional here: only when
// latitude or longitude is present does the result carry a spatial
// constraint and per-item distances.
func ParseSearchQuery(values url.Values, geoCfg config.GeoConfig, pagination utils.PaginationParams) (*ItemSearchParams, []utils.ValidationError) {
	params := &ItemSearchParams{
		PaginationParams: pagination,
		ItemFilters: ItemFilters{
			Query:  values.Get("query"),
			Status: models.ItemStatusActive,
		},
	}

	var errs []utils.ValidationError
	errs = parseItemFilters(values, &params.ItemFilters, errs)

	if values.Get("latitude") != "" || values.Get("longitude") != "" {
		g := &GeoQuery{RadiusKm: geoCfg.DefaultRadiusKm}
		errs = parseFloatParam(values, "latitude", &g.Latitude, errs)
		errs = parseFloatParam(values, "longitude", &g.Longitude, errs)
		errs = parseFloatParam(values, "radius", &g.RadiusKm, errs)
		errs = append(errs, utils.GetValidationErrors(utils.ValidateStruct(g))...)
		params.Geo = g
	}

	errs = append(errs, utils.GetValidationErrors(utils.ValidateStruct(&params.ItemFilters))...)
	if len(errs) > 0 {
		return nil, errs
	}
	return params, nil
}

func parseItemFilters(values url.Values, filters *ItemFilters, errs []utils.ValidationError) []utils.ValidationError {
	if raw := values.Get("status"); raw != "" {
		status := models.ItemStatus(raw)
		if !status.Valid() {
			errs = append(errs, utils.ValidationError{Field: "status", Message: "status must be one of ACTIVE, INACTIVE, SOLD, DONATED, COLLECTED"})
		} else {
			filters.Status = status
		}
	}

	errs = parseUUIDParam(values, "materialId", &filters.MaterialID, errs)
	errs = parseUUIDParam(values, "organizationId", &filters.OrganizationID, errs)
	errs = parseOptionalFloatParam(values, "minPrice", &filters.MinPrice, errs)
	errs = parseOptionalFloatParam(values, "maxPrice", &filters.MaxPrice, errs)
	return errs
}

func parseFloatParam(values url.Values, name string, dst *float64, errs []utils.ValidationError) []utils.ValidationError {
	raw := values.Get(name)
	if raw == "" {
		return errs
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return append(errs, utils.ValidationError{Field: name, Message: name + " must be a number"})
	}
	*dst = v
	return errs
}

func parseOptionalFloatParam(values url.Values, name string, dst **float64, errs []utils.ValidationError) []utils.ValidationError {
	raw := values.Get(name)
	if raw == "" {
		return errs
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return append(errs, utils.ValidationError{Field: name, Message: name + " must be a number"})
	}
	*dst = &v
	return errs
}

func parseUUIDParam(values url.Values, name string, dst **uuid.UUID, errs []utils.ValidationError) []utils.ValidationError {
	raw := values.Get(name)
	if raw == "" {
		return errs
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return append(errs, utils.ValidationError{Field: name, Message: name + " must be a valid id"})
	}
	*dst = &id
	return errs
}

// queryFilter is one conjunct of the compiled predicate.
type queryFilter struct {
	Expr string
	Args []interface{}
}

// Containment test evaluated by PostGIS; the radius argument is in
// meters. Matches the expression of the partial GIST index on items.
const spatialWithinExpr = "ST_DWithin(ST_SetSRID(ST_MakePoint(longitude, latitude), 4326)::geography, ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography, ?)"

// compileItemFilters turns validated parameters into a conjunctive
// predicate. Pure: no database access, no side effects. The spatial
// clauses are added only when a geographic center is supplied.
func compileItemFilters(filters ItemFilters, g *GeoQuery) []queryFilter {
	status := filters.Status
	if status == "" {
		status = models.ItemStatusActive
	}

	compiled := []queryFilter{
		{Expr: "status = ?", Args: []interface{}{status}},
	}

	if g != nil {
		compiled = append(compiled,
			queryFilter{Expr: "latitude IS NOT NULL AND longitude IS NOT NULL"},
			queryFilter{
				Expr: spatialWithinExpr,
				Args: []interface{}{g.Longitude, g.Latitude, g.RadiusKm * 1000},
			},
		)
	}

	if filters.Query != "" {
		term := "%" + strings.ToLower(filters.Query) + "%"
		compiled = append(compiled, queryFilter{
			Expr: "(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)",
			Args: []interface{}{term, term},
		})
	}

	if filters.MaterialID != nil {
		compiled = append(compiled, queryFilter{Expr: "material_id = ?", Args: []interface{}{*filters.MaterialID}})
	}

	if filters.OrganizationID != nil {
		compiled = append(compiled, queryFilter{Expr: "organization_id = ?", Args: []interface{}{*filters.OrganizationID}})
	}

	if filters.MinPrice != nil {
		compiled = append(compiled, queryFilter{Expr: "price >= ?", Args: []interface{}{*filters.MinPrice}})
	}

	if filters.MaxPrice != nil {
		compiled = append(compiled, queryFilter{Expr: "price <= ?", Args: []interface{}{*filters.MaxPrice}})
	}

	return compiled
}

// distanceOrderExpr orders nearest-first. Coordinates are validated
// floats, so inlining them is safe; gorm's Order does not take bound
// arguments. Ties keep storage order.
func distanceOrderExpr(g *GeoQuery) string {
	return fmt.Sprintf("ST_DistanceSphere(ST_MakePoint(longitude, latitude), ST_MakePoint(%.7f, %.7f)) ASC", g.Longitude, g.Latitude)
}

// FindNearby executes the proximity query for the map endpoint: every
// ACTIVE located item within the radius, nearest first, capped at the
// configured maximum. Runs under an explicit deadline so a slow
// spatial scan cannot outlive the request.
func (s *ItemService) FindNearby(ctx context.Context, params *MapQueryParams) ([]ItemResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout())
	defer cancel()

	query := s.db.WithContext(ctx).Model(&models.Item{}).
		Preload("Creator").Preload("Material").Preload("Material.Category").
		Preload("Organization").Preload("Images")

	for _, f := range compileItemFilters(params.ItemFilters, &params.GeoQuery) {
		query = query.Where(f.Expr, f.Args...)
	}

	var items []models.Item
	if err := query.Order(distanceOrderExpr(&params.GeoQuery)).
		Limit(s.geoCfg.MapMaxResults).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch nearby items: %w", err)
	}

	center := params.Center()
	results := make([]ItemResponse, 0, len(items))
	for i := range items {
		results = append(results, shapeItem(&items[i], &center, ImageDetailFull))
	}

	return results, nil
}

// SearchItems executes the paginated listing query. When a geographic
// center was supplied the spatial clauses apply and results order
// nearest-first; otherwise the caller's sort applies.
func (s *ItemService) SearchItems(ctx context.Context, params *ItemSearchParams) ([]ItemResponse, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout())
	defer cancel()

	query := s.db.WithContext(ctx).Model(&models.Item{}).
		Preload("Creator").Preload("Material").Preload("Material.Category").
		Preload("Organization").Preload("Images")

	for _, f := range compileItemFilters(params.ItemFilters, params.Geo) {
		query = query.Where(f.Expr, f.Args...)
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count items: %w", err)
	}

	if params.Geo != nil {
		query = query.Order(distanceOrderExpr(params.Geo))
	} else {
		allowedSortFields := []string{"created_at", "updated_at", "title", "price"}
		query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	}

	query = utils.ApplyPagination(query, params.PaginationParams)

	var items []models.Item
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch items: %w", err)
	}

	var center *geo.Point
	if params.Geo != nil {
		c := params.Geo.Center()
		center = &c
	}

	results := make([]ItemResponse, 0, len(items))
	for i := range items {
		results = append(results, shapeItem(&items[i], center, ImageDetailPrimary))
	}

	return results, total, nil
}

// ImageDetail selects how much of an item's image set the shaper
// includes: the map path carries the full ordered list, the paginated
// path only the primary image.
type ImageDetail int

const (
	ImageDetailFull ImageDetail = iota
	ImageDetailPrimary
)

type MaterialSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category *string   `json:"category"`
}

type OrganizationSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Verified bool      `json:"verified"`
}

type CreatorSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type ImageResponse struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url,omitempty"`
	Data      string    `json:"data,omitempty"`
	AltText   string    `json:"alt_text,omitempty"`
	IsPrimary bool      `json:"is_primary"`
}

type ItemResponse struct {
	ID              uuid.UUID              `json:"id"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	Status          models.ItemStatus      `json:"status"`
	TransactionKind models.TransactionKind `json:"transaction_kind"`
	Price           *float64               `json:"price"`
	Quantity        int                    `json:"quantity"`
	Location        *geo.Point             `json:"location"`
	Distance        *float64               `json:"distance,omitempty"`
	Material        *MaterialSummary       `json:"material"`
	Organization    *OrganizationSummary   `json:"organization"`
	Creator         CreatorSummary         `json:"creator"`
	Images          []ImageResponse        `json:"images"`
	Tags            []string               `json:"tags,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

// shapeItem converts a raw row into the response shape. Distance is
// computed from the row's own coordinates against the query center,
// so the distance-to-item mapping can never be corrupted by result
// reordering. Pure: no database access.
func shapeItem(item *models.Item, center *geo.Point, detail ImageDetail) ItemResponse {
	resp := ItemResponse{
		ID:              item.ID,
		Title:           item.Title,
		Description:     item.Description,
		Status:          item.Status,
		TransactionKind: item.TransactionKind,
		Price:           item.Price,
		Quantity:        item.Quantity,
		Creator: CreatorSummary{
			ID:    item.Creator.ID,
			Name:  item.Creator.Name,
			Email: item.Creator.Email,
		},
		Images:    shapeImages(item.Images, detail),
		Tags:      item.Tags,
		CreatedAt: item.CreatedAt,
	}

	if item.HasLocation() {
		resp.Location = &geo.Point{Latitude: *item.Latitude, Longitude: *item.Longitude}
		if center != nil {
			d := geo.Distance(*center, *resp.Location)
			resp.Distance = &d
		}
	}

	if item.Material != nil {
		summary := &MaterialSummary{
			ID:   item.Material.ID,
			Name: item.Material.Name,
		}
		if item.Material.Category != nil {
			summary.Category = &item.Material.Category.Name
		}
		resp.Material = summary
	}

	if item.Organization != nil {
		resp.Organization = &OrganizationSummary{
			ID:       item.Organization.ID,
			Name:     item.Organization.Name,
			Verified: item.Organization.Verified,
		}
	}

	return resp
}

// shapeImages orders primary-first then by creation time and trims to
// the requested detail level.
func shapeImages(images []models.Image, detail ImageDetail) []ImageResponse {
	ordered := make([]models.Image, len(images))
	copy(ordered, images)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].IsPrimary != ordered[j].IsPrimary {
			return ordered[i].IsPrimary
		}
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	if detail == ImageDetailPrimary && len(ordered) > 1 {
		ordered = ordered[:1]
	}

	results := make([]ImageResponse, 0, len(ordered))
	for _, img := range ordered {
		results = append(results, ImageResponse{
			ID:        img.ID,
			URL:       img.URL,
			Data:      img.Data,
			AltText:   img.AltText,
			IsPrimary: img.IsPrimary,
		})
	}
	return results
}
