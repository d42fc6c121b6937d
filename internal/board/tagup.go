package board

// TagUp is one daily status submission. Entries are appended to an
// ever-growing log and never read back for display.
type TagUp struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	WorkDate  string `json:"workDate"`
	ProjectDO string `json:"projectDO"`
	Building  string `json:"building"`
	Yesterday string `json:"yesterday"`
	Today     string `json:"today"`
	Blockers  string `json:"blockers"`
}
