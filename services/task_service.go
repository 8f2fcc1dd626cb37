package services

import (
	"errors"
	"fmt"
	"time"

	"law_office_app_go/models"

	"gorm.io/gorm"
)

// TaskFilters narrows GetTasks; empty fields are ignored
type TaskFilters struct {
	CaseID string
	UserID string
}

// GetTask returns the task with the given id
func GetTask(db *gorm.DB, id string) (*models.Task, error) {
	var task models.Task
	if err := db.Where("id = ?", id).First(&task).Error; err != nil {
		return nil, translateError(err, "task")
	}
	return &task, nil
}

// GetTasks lists tasks newest first, optionally filtered by case or assignee
func GetTasks(db *gorm.DB, filters TaskFilters) ([]models.Task, error) {
	query := db.Model(&models.Task{})
	if filters.CaseID != "" {
		query = query.Where("case_id = ?", filters.CaseID)
	}
	if filters.UserID != "" {
		query = query.Where("assigned_to_id = ?", filters.UserID)
	}

	var tasks []models.Task
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTasksByCase lists the tasks of one case
func GetTasksByCase(db *gorm.DB, caseID string) ([]models.Task, error) {
	return GetTasks(db, TaskFilters{CaseID: caseID})
}

// GetTasksByUser lists the tasks assigned to one user
func GetTasksByUser(db *gorm.DB, userID string) ([]models.Task, error) {
	return GetTasks(db, TaskFilters{UserID: userID})
}

// GetTasksDueBetween returns open tasks due in [from, to) whose assignee has not been reminded
func GetTasksDueBetween(db *gorm.DB, from, to time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := db.Preload("AssignedTo").
		Where("due_date >= ? AND due_date < ?", from.UTC(), to.UTC()).
		Where("status IN ?", []string{models.TaskStatusPending, models.TaskStatusInProgress}).
		Where("reminder_sent_at IS NULL").
		Order("due_date ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list due tasks: %w", err)
	}
	return tasks, nil
}

// MarkTaskReminderSent records that the assignee was notified
func MarkTaskReminderSent(db *gorm.DB, id string, at time.Time) error {
	// UpdateColumn leaves updated_at alone: a reminder is not an edit
	if err := db.Model(&models.Task{}).Where("id = ?", id).UpdateColumn("reminder_sent_at", at.UTC()).Error; err != nil {
		return fmt.Errorf("failed to mark reminder: %w", err)
	}
	return nil
}

// CreateTask inserts a task after checking its assignee and optional case exist
func CreateTask(db *gorm.DB, task *models.Task) (*models.Task, error) {
	caseID := ""
	if task.CaseID != nil {
		caseID = *task.CaseID
	}
	if err := checkTaskReferences(db, task.AssignedToID, caseID); err != nil {
		return nil, err
	}

	if err := db.Create(task).Error; err != nil {
		return nil, translateError(err, "task")
	}
	return task, nil
}

// UpdateTask applies a partial update and returns the stored row
func UpdateTask(db *gorm.DB, id string, updates map[string]interface{}) (*models.Task, error) {
	assigneeID, _ := updates["assigned_to_id"].(string)
	caseID, _ := updates["case_id"].(string)
	if assigneeID != "" || caseID != "" {
		if _, err := GetTask(db, id); err != nil {
			return nil, err
		}
		if err := checkTaskReferences(db, assigneeID, caseID); err != nil {
			return nil, err
		}
	}
	// Moving the due date re-arms the reminder
	if _, ok := updates["due_date"]; ok {
		updates["reminder_sent_at"] = nil
	}
	return updateRecord[models.Task](db, id, updates, "task")
}

// DeleteTask removes a task
func DeleteTask(db *gorm.DB, id string) error {
	return deleteRecord[models.Task](db, id, "task")
}

func checkTaskReferences(db *gorm.DB, assigneeID, caseID string) error {
	if assigneeID != "" {
		if _, err := GetUser(db, assigneeID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("assignee %s: %w", assigneeID, ErrInvalidReference)
			}
			return err
		}
	}
	if caseID != "" {
		if _, err := GetCase(db, caseID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("case %s: %w", caseID, ErrInvalidReference)
			}
			return err
		}
	}
	return nil
}
