package models

// StoreStats holds row counts used by health and diagnostic output.
type StoreStats struct {
	Users   int64 `json:"users"`
	Logs    int64 `json:"logs"`
	Notices int64 `json:"notices"`
	Points  int64 `json:"points"`
}
