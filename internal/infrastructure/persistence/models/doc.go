// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Each model has a TableName, a ToDomain conversion and a FromDomain (or
// XxxModelFromDomain) constructor. Repositories only ever persist models.
//
// Files:
//   - base.go: BaseModel and the AutoMigrate list
//   - identity.go: users, email confirmation tokens, contacts
//   - catalog.go: shops, categories, products, parameters, listings
//   - trade.go: carts and orders
package models
