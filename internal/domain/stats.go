package domain

// StatRow is one aggregate bucket of the identity store.
type StatRow struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}
