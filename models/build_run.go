package models

// BuildRun records one successful manifest build in the ledger database.
// It corresponds to the 'build_runs' table.
type BuildRun struct {
	ID                uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	StartedAt         int64  `gorm:"not null;index" json:"started_at"` // Unix timestamp
	FinishedAt        int64  `gorm:"not null" json:"finished_at"`      // Unix timestamp
	DurationMillis    int64  `gorm:"not null" json:"duration_ms"`
	Photos            int    `gorm:"not null" json:"photos"`
	SidecarAdded      int    `gorm:"not null" json:"sidecar_added"`
	SidecarRemoved    int    `gorm:"not null" json:"sidecar_removed"`
	PreviewsGenerated int    `gorm:"not null" json:"previews_generated"`
	ManifestPath      string `gorm:"not null" json:"manifest_path"`
	SortOrder         string `gorm:"not null" json:"sort_order"`
}

// TableName explicitly sets the table name for GORM.
func (BuildRun) TableName() string {
	return "build_runs"
}
