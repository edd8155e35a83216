// internal/handlers/item_test.go
package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/config"
)

// The validation gate answers before any service or database work, so
// the rejection contract is testable with no backing store wired in.
type ItemQueryContractSuite struct {
	suite.Suite
	router *gin.Engine
}

func (suite *ItemQueryContractSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	geoCfg := config.GeoConfig{
		MapMaxResults:   100,
		DefaultRadiusKm: 10,
		QueryTimeoutSec: 5,
	}
	itemHandler := NewItemHandler(nil, nil, geoCfg)

	suite.router = gin.New()
	v1 := suite.router.Group("/v1")
	v1.GET("/items/map", itemHandler.GetMapItems)
	v1.GET("/items", itemHandler.GetItems)
}

type errorPayload struct {
	Error   string `json:"error"`
	Details []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"details"`
}

func (suite *ItemQueryContractSuite) get(path string) (*httptest.ResponseRecorder, errorPayload) {
	req, _ := http.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var payload errorPayload
	_ = json.Unmarshal(w.Body.Bytes(), &payload)
	return w, payload
}

func (suite *ItemQueryContractSuite) TestMapLatitudeOutOfRange() {
	w, payload := suite.get("/v1/items/map?latitude=999&longitude=-46.6")

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), "Parâmetros inválidos", payload.Error)
	require.Len(suite.T(), payload.Details, 1)
	assert.Equal(suite.T(), "latitude", payload.Details[0].Field)
	assert.Equal(suite.T(), "latitude must be between -90 and 90", payload.Details[0].Message)
}

func (suite *ItemQueryContractSuite) TestMapRadiusOutOfRange() {
	w, payload := suite.get("/v1/items/map?latitude=-23.5&longitude=-46.6&radius=200")

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), "Parâmetros inválidos", payload.Error)
	require.Len(suite.T(), payload.Details, 1)
	assert.Equal(suite.T(), "radius", payload.Details[0].Field)
}

func (suite *ItemQueryContractSuite) TestMapRadiusLowerBoundExclusive() {
	w, payload := suite.get("/v1/items/map?radius=0.1")

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	require.Len(suite.T(), payload.Details, 1)
	assert.Equal(suite.T(), "radius", payload.Details[0].Field)
}

func (suite *ItemQueryContractSuite) TestMapMalformedCoordinates() {
	w, payload := suite.get("/v1/items/map?latitude=abc")

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), "Parâmetros inválidos", payload.Error)
	require.Len(suite.T(), payload.Details, 1)
	assert.Equal(suite.T(), "latitude", payload.Details[0].Field)
}

func (suite *ItemQueryContractSuite) TestMapCollectsAllFieldErrors() {
	w, payload := suite.get("/v1/items/map?latitude=91&longitude=-181&radius=0")

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	fields := make([]string, 0, len(payload.Details))
	for _, d := range payload.Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(suite.T(), []string{"latitude", "longitude", "radius"}, fields)
}

func (suite *ItemQueryContractSuite) TestListGeoValidatedOnlyWhenPresent() {
	// Geographic bounds apply to the listing only once a coordinate
	// shows up in the query string.
	w, payload := suite.get("/v1/items?latitude=500")

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	require.Len(suite.T(), payload.Details, 1)
	assert.Equal(suite.T(), "latitude", payload.Details[0].Field)
}

func (suite *ItemQueryContractSuite) TestListInvalidStatus() {
	w, payload := suite.get("/v1/items?status=NOPE")

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	require.Len(suite.T(), payload.Details, 1)
	assert.Equal(suite.T(), "status", payload.Details[0].Field)
}

func (suite *ItemQueryContractSuite) TestListInvalidMaterialID() {
	w, payload := suite.get("/v1/items?materialId=not-a-uuid")

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	require.Len(suite.T(), payload.Details, 1)
	assert.Equal(suite.T(), "materialId", payload.Details[0].Field)
}

func TestItemQueryContractSuite(t *testing.T) {
	suite.Run(t, new(ItemQueryContractSuite))
}
