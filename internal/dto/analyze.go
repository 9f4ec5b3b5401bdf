package dto

// AnalyzeReq drives one pipeline run.
type AnalyzeReq struct {
	Url          string `json:"url"`
	NumClips     int    `json:"num_clips"`
	ClipDuration int    `json:"clip_duration"` // seconds
	DemoMode     bool   `json:"demo_mode"`
}

// ClipItem is one produced clip in API responses.
type ClipItem struct {
	Id          int     `json:"id"`
	Filename    string  `json:"filename"`
	Url         string  `json:"url"`
	DownloadUrl string  `json:"download_url"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	Duration    int     `json:"duration"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ViralScore  float64 `json:"viral_score"`
	Platform    string  `json:"platform"`
	Demo        bool    `json:"demo,omitempty"`
}

// AnalysisMeta summarizes the run.
type AnalysisMeta struct {
	TotalClipsRequested int    `json:"total_clips_requested"`
	TotalClipsCreated   int    `json:"total_clips_created"`
	TargetDuration      int    `json:"target_duration"`
	Platform            string `json:"platform"`
	DemoMode            bool   `json:"demo_mode,omitempty"`
}

// AnalyzeResData is the payload of a successful run.
type AnalyzeResData struct {
	Message  string       `json:"message"`
	Clips    []ClipItem   `json:"clips"`
	Analysis AnalysisMeta `json:"analysis"`
}

// ValidateReq asks for source metadata without downloading.
type ValidateReq struct {
	Url string `json:"url"`
}

type ValidateResData struct {
	Valid    bool   `json:"valid"`
	Title    string `json:"title,omitempty"`
	Duration int    `json:"duration,omitempty"` // seconds
	Author   string `json:"author,omitempty"`
}

// CreateTaskReq queues an asynchronous pipeline run.
type CreateTaskReq = AnalyzeReq

type CreateTaskResData struct {
	TaskId string `json:"task_id"`
}

// TaskStatusResData reports an asynchronous run's state.
type TaskStatusResData struct {
	TaskId     string     `json:"task_id"`
	Status     string     `json:"status"`
	FailReason string     `json:"fail_reason,omitempty"`
	Clips      []ClipItem `json:"clips,omitempty"`
}

// ClipsListResData lists previously produced clips.
type ClipsListResData struct {
	Clips []ClipItem `json:"clips"`
	Total int        `json:"total"`
}
