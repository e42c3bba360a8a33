package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from    AlertStatus
		to      AlertStatus
		allowed bool
	}{
		{AlertActive, AlertResolved, true},
		{AlertActive, AlertRejected, true},
		{AlertResolved, AlertActive, true},
		{AlertRejected, AlertActive, true},
		{AlertActive, AlertActive, false},
		{AlertResolved, AlertRejected, false},
		{AlertRejected, AlertResolved, false},
		{AlertResolved, AlertResolved, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to),
			"transition %s -> %s", tc.from, tc.to)
	}
}

func TestParseAlertStatus(t *testing.T) {
	status, ok := ParseAlertStatus("Active")
	assert.True(t, ok)
	assert.Equal(t, AlertActive, status)

	status, ok = ParseAlertStatus("  rejected ")
	assert.True(t, ok)
	assert.Equal(t, AlertRejected, status)

	_, ok = ParseAlertStatus("archived")
	assert.False(t, ok)
}

func TestCategoryForProduct(t *testing.T) {
	assert.Equal(t, CategoryEmpanada, CategoryForProduct("EMP-CARNE"))
	assert.Equal(t, CategoryPizza, CategoryForProduct("pizza-muza"))
	assert.Equal(t, CategoryDrinkLarge, CategoryForProduct(" BEB-1500 "))
	assert.Equal(t, CategoryOther, CategoryForProduct("COMBO-PROMO"))
}

func TestValidShift(t *testing.T) {
	assert.True(t, ValidShift(ShiftMorning))
	assert.True(t, ValidShift(ShiftAfternoon))
	assert.False(t, ValidShift("night"))
}
