package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"geotab-reformatter/internal/models"
)

func TestNormalizeRows(t *testing.T) {
	header := []string{"DeviceName", "", "UserFirstName", "TripDetailDistance"}
	rows := [][]string{
		{"Truck1", "ignored", "Alice", "12.5", "beyond header"},
		{"Truck2", "", ""},
		{},
		{"", "", "", ""},
	}

	got := NormalizeRows(header, rows)

	assert.Equal(t, []models.NormalizedRecord{
		{"DeviceName": "Truck1", "UserFirstName": "Alice", "TripDetailDistance": "12.5"},
		{"DeviceName": "Truck2"},
	}, got)
}

func TestNormalizeRowsIsIdempotent(t *testing.T) {
	header := []string{".Device.DeviceName", ".Driver.UserFirstName", "ExceptionDuration"}
	rows := [][]string{
		{"Truck1", "Alice", "30"},
		{"Truck1", "", "45"},
		{"Van", "Bob"},
	}

	first := NormalizeRows(header, rows)
	second := NormalizeRows(header, rows)

	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
	_, hasDriver := first[1][".Driver.UserFirstName"]
	assert.False(t, hasDriver)
}

func TestHeaderColumns(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, HeaderColumns([]string{"a", "", "b"}))
}
