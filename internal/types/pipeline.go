package types

// SourceAsset is a downloaded media file on local storage.
type SourceAsset struct {
	Path   string
	Size   int64
	Method string // download strategy that produced the file
}

// AudioAsset is the audio track derived from a SourceAsset.
type AudioAsset struct {
	Path   string
	Format string // "mp3" (primary) or "wav" (fallback)
}

// Highlight is one candidate moment returned by the discovery step.
// Start/End use the analyzer's "M:SS" or "H:MM:SS" clock form.
type Highlight struct {
	Start       string  `json:"start_time"`
	End         string  `json:"end_time"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Score       float64 `json:"score,omitempty"`
}

// ClipAsset is one materialized clip file.
type ClipAsset struct {
	Filename    string
	Path        string
	StartTime   string
	EndTime     string
	Duration    int
	Title       string
	Description string
	Score       float64
	Profile     string // encoding profile that succeeded
	URL         string
	DownloadURL string
}

// PipelineResult aggregates one pipeline run.
type PipelineResult struct {
	Clips          []ClipAsset
	Requested      int
	Created        int
	TargetDuration int
	Platform       string
	Demo           bool
}

// Encoding profile names reported on ClipAsset.Profile.
const (
	ClipProfileQuality = "quality"
	ClipProfileSpeed   = "speed"
)

// Pipeline run status values persisted in storage.
const (
	RunStatusQueued     = "queued"
	RunStatusProcessing = "processing"
	RunStatusDone       = "done"
	RunStatusFailed     = "failed"
)
