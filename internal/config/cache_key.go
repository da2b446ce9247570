package config

import "fmt"

type CacheKeyStruct struct{}

// CacheKey is the shared cache key builder.
var CacheKey = &CacheKeyStruct{}

// CourseCatalogKey returns the cache key for the full course catalog.
func (r *CacheKeyStruct) CourseCatalogKey() string {
	return "courses:catalog"
}

// CourseKey returns the cache key for a single course payload.
func (r *CacheKeyStruct) CourseKey(courseID string) string {
	return fmt.Sprintf("course:%s:payload", courseID)
}
