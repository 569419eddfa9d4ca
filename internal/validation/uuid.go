package validation

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"
)

// NotNilUUID rejects the zero UUID. validation.Required does not, since uuid.UUID is an array.
var NotNilUUID = validation.By(func(value interface{}) error {
	id, ok := value.(uuid.UUID)
	if !ok {
		return validation.NewError("validation_uuid_type", "must be a UUID")
	}
	if id == uuid.Nil {
		return validation.NewError("validation_uuid_nil", "must not be the nil UUID")
	}
	return nil
})

// UniqueUUIDs rejects a slice that holds the same UUID twice.
func UniqueUUIDs(ids []uuid.UUID) validation.Rule {
	return validation.By(func(interface{}) error {
		seen := make(map[uuid.UUID]struct{}, len(ids))
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				return validation.NewError("validation_uuid_duplicate", "must not contain duplicates")
			}
			seen[id] = struct{}{}
		}
		return nil
	})
}
