package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/utils"
)

// TaskDTO represents a task in API responses with dates rendered in the requested timezone
type TaskDTO struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Importance  string         `json:"importance"`
	IsArchived  bool           `json:"isArchived"`
	DueDate     *string        `json:"dueDate,omitempty"`
	CreatedAt   string         `json:"createdAt"`
	UpdatedAt   string         `json:"updatedAt"`
	Attributes  map[string]any `json:"-"`
}

// MarshalJSON flattens pass-through attributes next to the known fields
func (t TaskDTO) MarshalJSON() ([]byte, error) {
	type plain TaskDTO
	return flatten(plain(t), t.Attributes)
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task, loc *time.Location) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Importance:  task.Importance,
		IsArchived:  task.IsArchived,
		DueDate:     utils.ConvertToTimezone(task.DueDate, loc),
		CreatedAt:   utils.FormatInTimezone(task.CreatedAt, loc),
		UpdatedAt:   utils.FormatInTimezone(task.UpdatedAt, loc),
		Attributes:  task.Attributes,
	}
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task, loc *time.Location) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task, loc)
	}
	return items
}

// fields managed by storage; callers cannot set them and they never become attributes
var storageManagedTaskFields = map[string]struct{}{
	"_id":       {},
	"__v":       {},
	"createdAt": {},
	"updatedAt": {},
}

// DecodeTaskPatch parses a task body. Only keys present in the body end up in the patch;
// unknown keys are kept as pass-through attributes.
func DecodeTaskPatch(body []byte) (models.TaskPatch, error) {
	var patch models.TaskPatch

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return patch, fmt.Errorf("task body must be a JSON object: %w", err)
	}

	for key, value := range raw {
		var err error
		switch key {
		case "id":
			var id int64
			id, err = decodeTaskID(value)
			patch.ID = &id
		case "title":
			err = json.Unmarshal(value, &patch.Title)
		case "description":
			err = json.Unmarshal(value, &patch.Description)
		case "importance":
			err = json.Unmarshal(value, &patch.Importance)
		case "isArchived":
			err = json.Unmarshal(value, &patch.IsArchived)
		case "dueDate":
			if string(value) == "null" {
				patch.ClearDue = true
				continue
			}
			err = json.Unmarshal(value, &patch.DueDate)
		default:
			if _, managed := storageManagedTaskFields[key]; managed {
				continue
			}
			var attr any
			if err = json.Unmarshal(value, &attr); err == nil {
				if patch.Attributes == nil {
					patch.Attributes = map[string]any{}
				}
				patch.Attributes[key] = attr
			}
		}
		if err != nil {
			return models.TaskPatch{}, fmt.Errorf("invalid %s: %w", key, err)
		}
	}

	return patch, nil
}

// decodeTaskID accepts a JSON number or a numeric string
func decodeTaskID(value json.RawMessage) (int64, error) {
	var id int64
	if err := json.Unmarshal(value, &id); err == nil {
		if id <= 0 {
			return 0, fmt.Errorf("task id must be a positive integer, got %d", id)
		}
		return id, nil
	}

	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return 0, err
	}
	return ParseTaskID(s)
}

// ParseTaskID parses an external task ID from a path or query value
func ParseTaskID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("task id must be a positive integer, got %q", s)
	}
	return id, nil
}

// flatten marshals v and adds extra keys that do not collide with v's own fields
func flatten(v any, extra map[string]any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for key, value := range extra {
		if _, exists := merged[key]; exists {
			continue
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		merged[key] = encoded
	}
	return json.Marshal(merged)
}
