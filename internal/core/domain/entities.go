package domain

import "strings"

// Role represents user role in the system
type Role string

const (
	RoleFarmer Role = "farmer"
	RoleBuyer  Role = "buyer"
	RoleAdmin  Role = "admin"
)

// DefaultRole is assigned when a new identity does not state one.
const DefaultRole = RoleBuyer

// ParseRole maps s onto the closed role set. ok is false for anything else.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleFarmer, RoleBuyer, RoleAdmin:
		return r, true
	}
	return "", false
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleFarmer, RoleBuyer, RoleAdmin:
		return true
	}
	return false
}

// SelfAssignable reports whether r may be chosen by the account holder.
// Admins are only created by the seeder or an existing admin.
func (r Role) SelfAssignable() bool {
	return r == RoleFarmer || r == RoleBuyer
}

// Category is a product category
type Category string

const (
	CategoryVegetables Category = "Vegetables"
	CategoryFruits     Category = "Fruits"
	CategoryDairy      Category = "Dairy"
	CategoryCereals    Category = "Cereals"
)

// Categories lists every accepted category.
var Categories = []Category{CategoryVegetables, CategoryFruits, CategoryDairy, CategoryCereals}

// ParseCategory matches s exactly against Categories.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Unit is a product quantity unit
type Unit string

const (
	UnitKg     Unit = "kg"
	UnitLbs    Unit = "lbs"
	UnitUnits  Unit = "units"
	UnitLiters Unit = "liters"
)

// Units lists every accepted unit.
var Units = []Unit{UnitKg, UnitLbs, UnitUnits, UnitLiters}

// ParseUnit matches s exactly against Units.
func ParseUnit(s string) (Unit, bool) {
	for _, u := range Units {
		if string(u) == s {
			return u, true
		}
	}
	return "", false
}

// NormalizeEmail lower-cases and trims an email address. Emails are
// compared case-insensitively everywhere.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
