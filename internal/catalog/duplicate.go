package catalog

import (
	"strings"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/product-catalog/internal/model"
)

// IsDuplicate reports whether any product other than excludeID is named
// name, ignoring case. A nil excludeID checks against every product.
func IsDuplicate(products []model.Product, name string, excludeID *uuid.UUID) bool {
	for _, p := range products {
		if excludeID != nil && p.ID == *excludeID {
			continue
		}
		if strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}
