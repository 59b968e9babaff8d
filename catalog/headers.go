package catalog

// Catalog responses may sit in shared caches far longer than the in-process
// snapshot TTL; a forced read must not be cached anywhere.
const (
	CacheControlShared  = "public, s-maxage=300, stale-while-revalidate=600"
	CacheControlNoStore = "no-store"
)

// CacheControl is the Cache-Control value of a catalog response.
func CacheControl(forced bool) string {
	if forced {
		return CacheControlNoStore
	}
	return CacheControlShared
}
