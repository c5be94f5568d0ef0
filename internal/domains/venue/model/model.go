package model

import (
	"github.com/lib/pq"

	"smartmeet/shared/model"
)

const (
	TableName  = "venues"
	EntityName = "venue"

	FieldID         = "id"
	FieldName       = "name"
	FieldLocation   = "location"
	FieldCapacity   = "capacity"
	FieldFacilities = "facilities"
	FieldActive     = "active"
)

type Venue struct {
	ID         string         `db:"id"`
	Name       string         `db:"name"`
	Location   string         `db:"location"`
	Capacity   int            `db:"capacity"`
	Facilities pq.StringArray `db:"facilities"`
	Active     bool           `db:"active"`
	model.Metadata
}
