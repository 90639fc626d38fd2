package service

import "fmt"

// Cache keys are namespaced per store so one invalidation pattern clears
// resolved pages, navigation and composed views together.
func formatStoreCachePattern(storeID uint) string {
	return fmt.Sprintf("store:%d:*", storeID)
}
