package jobs

import (
	"time"

	"law_office_app_go/config"
	"law_office_app_go/services"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReminderWindow is how far ahead of the due date the assignee is reminded
const ReminderWindow = 24 * time.Hour

// SendTaskReminders emails the assignee of every open task due within the next
// ReminderWindow and marks the task so it is reminded once. Returns the number sent.
func SendTaskReminders(database *gorm.DB, cfg *config.Config, now time.Time) int {
	tasks, err := services.GetTasksDueBetween(database, now, now.Add(ReminderWindow))
	if err != nil {
		zap.L().Error("[CRON] failed to load due tasks", zap.Error(err))
		return 0
	}

	sent := 0
	for _, task := range tasks {
		if task.AssignedTo == nil || task.AssignedTo.Email == "" || !task.AssignedTo.IsActive {
			continue
		}

		email, err := services.BuildTaskReminderEmail(task.AssignedTo.Email, services.TaskEmailData{
			AssigneeName: task.AssignedTo.FullName,
			TaskTitle:    task.Title,
			Priority:     task.Priority,
			DueDate:      services.FormatDueDate(task.DueDate),
			TaskURL:      services.AppLink(cfg, "/tasks/"+task.ID),
		})
		if err != nil {
			zap.L().Error("[CRON] failed to build reminder", zap.String("task_id", task.ID), zap.Error(err))
			continue
		}

		if err := services.SendEmail(cfg, email); err != nil {
			zap.L().Warn("[CRON] failed to send reminder", zap.String("task_id", task.ID), zap.Error(err))
			continue
		}

		if err := services.MarkTaskReminderSent(database, task.ID, now); err != nil {
			zap.L().Error("[CRON] failed to mark reminder", zap.String("task_id", task.ID), zap.Error(err))
			continue
		}
		sent++
	}

	zap.L().Info("[CRON] task reminder job completed", zap.Int("due", len(tasks)), zap.Int("sent", sent))
	return sent
}
