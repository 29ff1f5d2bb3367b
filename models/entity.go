package models

import "fmt"

// EntityType names a synchronised collection. Every collection is stored in
// its own LocalStore table named after the entity type.
type EntityType string

const (
	EntityOrders    EntityType = "orders"
	EntityInventory EntityType = "inventory"
	EntityStaff     EntityType = "staff"
	EntityMenu      EntityType = "menu"
)

// EntityTypes lists every collection known to the sync engine in a stable
// order.
var EntityTypes = []EntityType{EntityOrders, EntityInventory, EntityStaff, EntityMenu}

// Valid reports whether e is one of the known collections.
func (e EntityType) Valid() bool {
	switch e {
	case EntityOrders, EntityInventory, EntityStaff, EntityMenu:
		return true
	}
	return false
}

// ParseEntityType converts s into an [EntityType] or returns an error if the
// collection is unknown.
func ParseEntityType(s string) (EntityType, error) {
	e := EntityType(s)
	if !e.Valid() {
		return "", fmt.Errorf("unknown entity type %q", s)
	}
	return e, nil
}

func (e EntityType) String() string {
	return string(e)
}
