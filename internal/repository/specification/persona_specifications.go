package specification

import "gorm.io/gorm"

type ByPersonaKey struct {
	Key string
}

func (s ByPersonaKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("key = ?", s.Key)
}
