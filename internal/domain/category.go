package domain

import "strings"

// Category is one of the product families tracked by stock counts and the
// reconciliation engine.
type Category string

const (
	CategoryEmpanada    Category = "empanada"
	CategoryDrinkSmall  Category = "drink_small"
	CategoryDrinkMedium Category = "drink_medium"
	CategoryDrinkLarge  Category = "drink_large"
	CategoryBakery      Category = "bakery"
	CategoryFrozenDough Category = "frozen_dough"
	CategoryPizza       Category = "pizza"
	CategoryOther       Category = "other"
)

// TrackedCategories lists the categories a stock count must cover.
// CategoryOther only exists as an aggregation bucket for unmapped POS codes.
var TrackedCategories = []Category{
	CategoryEmpanada,
	CategoryDrinkSmall,
	CategoryDrinkMedium,
	CategoryDrinkLarge,
	CategoryBakery,
	CategoryFrozenDough,
	CategoryPizza,
}

// productCategories maps POS product codes to categories. Codes missing here
// land in CategoryOther.
var productCategories = map[string]Category{
	"EMP-CARNE":  CategoryEmpanada,
	"EMP-POLLO":  CategoryEmpanada,
	"EMP-JYQ":    CategoryEmpanada,
	"BEB-350":    CategoryDrinkSmall,
	"BEB-500":    CategoryDrinkMedium,
	"BEB-1500":   CategoryDrinkLarge,
	"PAN-FACT":   CategoryBakery,
	"PAN-CHIPA":  CategoryBakery,
	"MASA-IMP":   CategoryFrozenDough,
	"PIZZA-MUZA": CategoryPizza,
	"PIZZA-ESP":  CategoryPizza,
	"PIZZA-NAP":  CategoryPizza,
}

// CategoryForProduct resolves a POS product code to its category.
func CategoryForProduct(code string) Category {
	if cat, ok := productCategories[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return cat
	}

	return CategoryOther
}

// ValidCategory reports whether c is a known tracked category.
func ValidCategory(c Category) bool {
	for _, tracked := range TrackedCategories {
		if c == tracked {
			return true
		}
	}
	return false
}

// Shift is a named work period used as a partition key alongside location and date.
type Shift string

const (
	ShiftMorning   Shift = "morning"
	ShiftAfternoon Shift = "afternoon"
)

// ValidShift reports whether s is a known shift.
func ValidShift(s Shift) bool {
	return s == ShiftMorning || s == ShiftAfternoon
}

// POS order status codes as they come in the transaction export. Only
// fulfilled orders count toward sales aggregates; voided and cancelled
// orders are excluded entirely.
const (
	POSOrderOpen      = 0
	POSOrderPreparing = 1
	POSOrderVoided    = 4
	POSOrderFulfilled = 5
	POSOrderCancelled = 6
)

var posOrderStatusLabels = map[int]string{
	POSOrderOpen:      "Open",
	POSOrderPreparing: "Preparing",
	POSOrderVoided:    "Voided",
	POSOrderFulfilled: "Fulfilled",
	POSOrderCancelled: "Cancelled",
}

// POSOrderStatusLabel returns a human-readable label for a POS order status code.
func POSOrderStatusLabel(status int) string {
	if label, ok := posOrderStatusLabels[status]; ok {
		return label
	}

	return "Unknown"
}
