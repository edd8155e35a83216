// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type coordinatePayload struct {
	Latitude  float64 `json:"latitude" validate:"latitude_range"`
	Longitude float64 `json:"longitude" validate:"longitude_range"`
	RadiusKm  float64 `json:"radius" validate:"radius_km"`
}

func TestCoordinateRules(t *testing.T) {
	err := ValidateStruct(&coordinatePayload{Latitude: -23.5, Longitude: -46.6, RadiusKm: 10})
	assert.NoError(t, err)

	err = ValidateStruct(&coordinatePayload{Latitude: 91, Longitude: 0, RadiusKm: 10})
	assert.Error(t, err)

	err = ValidateStruct(&coordinatePayload{Latitude: 0, Longitude: 0, RadiusKm: 0.1})
	assert.Error(t, err)

	err = ValidateStruct(&coordinatePayload{Latitude: 0, Longitude: 0, RadiusKm: 100})
	assert.NoError(t, err)
}

func TestGetValidationErrorsUsesWireNames(t *testing.T) {
	err := ValidateStruct(&coordinatePayload{Latitude: 999, Longitude: -200, RadiusKm: 10})
	require.Error(t, err)

	details := GetValidationErrors(err)
	require.Len(t, details, 2)

	assert.Equal(t, "latitude", details[0].Field)
	assert.Equal(t, "latitude must be between -90 and 90", details[0].Message)
	assert.Equal(t, "longitude", details[1].Field)
	assert.Equal(t, "longitude must be between -180 and 180", details[1].Message)
}

func TestGetValidationErrorsNil(t *testing.T) {
	assert.Nil(t, GetValidationErrors(nil))
}

func TestStrongPassword(t *testing.T) {
	type payload struct {
		Password string `json:"password" validate:"strong_password"`
	}

	assert.NoError(t, ValidateStruct(&payload{Password: "Abcdef1!"}))
	assert.Error(t, ValidateStruct(&payload{Password: "abcdef1!"}))
	assert.Error(t, ValidateStruct(&payload{Password: "Abcdefg!"}))
	assert.Error(t, ValidateStruct(&payload{Password: "Ab1!"}))
}
