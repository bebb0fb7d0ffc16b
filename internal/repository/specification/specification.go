package specification

import "gorm.io/gorm"

// Specification is a composable query filter. Archive repositories accept
// any number of them and chain Apply onto the base query, so callers build
// session/role/ordering combinations without repository method explosion.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
