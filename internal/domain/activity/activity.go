package activity

import (
	"time"

	"github.com/google/uuid"
)

// Action names a recorded operation
type Action string

const (
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionLogin    Action = "login"
	ActionRegister Action = "register"
)

// Entity names the record type acted upon
type Entity string

const (
	EntityUser    Entity = "user"
	EntityProduct Entity = "product"
	EntityOrder   Entity = "order"
	EntityAuth    Entity = "auth"
)

type Entry struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Action    Action
	Entity    Entity
	EntityID  *uuid.UUID
	Details   string
	CreatedAt time.Time
}

type ListFilter struct {
	UserID uuid.UUID
}
