package storage

import (
	"errors"

	"trilion/internal/types"

	"gorm.io/gorm"
)

func SaveRun(run *types.PipelineRun) error {
	if DB == nil {
		return errors.New("database not initialized")
	}
	// Upsert keyed by RunId; the autoincrement Id stays stable across updates.
	var existing types.PipelineRun
	result := DB.Where("run_id = ?", run.RunId).First(&existing)

	if result.Error == nil {
		run.Id = existing.Id
		return DB.Save(run).Error
	} else if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return DB.Create(run).Error
	}
	return result.Error
}

func GetRun(runId string) (*types.PipelineRun, error) {
	if DB == nil {
		return nil, errors.New("database not initialized")
	}
	var run types.PipelineRun
	if err := DB.Preload("Clips").Where("run_id = ?", runId).First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func SaveClips(clips []types.ClipRecord) error {
	if DB == nil {
		return errors.New("database not initialized")
	}
	if len(clips) == 0 {
		return nil
	}
	return DB.Create(&clips).Error
}

func ListClips(limit int) ([]types.ClipRecord, error) {
	if DB == nil {
		return nil, errors.New("database not initialized")
	}
	var clips []types.ClipRecord
	if err := DB.Order("create_time desc").Limit(limit).Find(&clips).Error; err != nil {
		return nil, err
	}
	return clips, nil
}

// MarkStaleRuns flips runs left in a non-terminal state by a previous
// process (crash, kill) to failed so clients are not stuck polling.
func MarkStaleRuns() (int64, error) {
	if DB == nil {
		return 0, errors.New("database not initialized")
	}
	result := DB.Model(&types.PipelineRun{}).
		Where("status IN ?", []string{types.RunStatusQueued, types.RunStatusProcessing}).
		Updates(map[string]any{
			"status":      types.RunStatusFailed,
			"fail_reason": "interrupted by restart",
		})
	return result.RowsAffected, result.Error
}
