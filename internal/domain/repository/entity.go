package repository

import "time"

// Entity is satisfied by pointers to the structs in the entity package.
type Entity interface {
	TableName() string
	GetID() string
	GetStatus() string
	SetStatus(string)
	DeletedStatus() string
	GetVersion() int64
	SetVersion(int64)
	Touch(time.Time)
}
