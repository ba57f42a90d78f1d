package repository

// Record is anything stored in a collection under a numeric identity.
type Record interface {
	RecordID() int64
}

// NextID returns 1 for an empty collection, otherwise one more than the
// largest identity present. It is recomputed on every call.
func NextID[T Record](items []T) int64 {
	var maxID int64
	for _, item := range items {
		if id := item.RecordID(); id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}

// IsDuplicate reports whether any record other than excludeID has field equal
// to value. Matching is exact and case-sensitive. An excludeID of 0 excludes
// nothing, since identities start at 1.
func IsDuplicate[T Record](items []T, field func(T) string, value string, excludeID int64) bool {
	for _, item := range items {
		if item.RecordID() == excludeID {
			continue
		}
		if field(item) == value {
			return true
		}
	}
	return false
}
