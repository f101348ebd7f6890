// Package catalog holds the product rules: normalization and validation of
// create and patch payloads, the duplicate-name guard, and the filter and
// search predicates applied over a product collection.
//
// Every function here is pure; callers own locking and persistence.
package catalog
