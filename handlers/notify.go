package handlers

import (
	"law_office_app_go/models"
	"law_office_app_go/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// notifyCaseAssignment emails the lawyer a case was assigned to.
// Failures are logged; the request has already succeeded.
func notifyCaseAssignment(c echo.Context, kase *models.Case) {
	cfg := getConfig(c)
	if cfg == nil {
		return
	}
	lawyer, err := services.GetUser(requestDB(c), kase.AssignedLawyerID)
	if err != nil {
		zap.L().Warn("case assignment email skipped", zap.String("case_id", kase.ID), zap.Error(err))
		return
	}

	data := services.CaseAssignmentEmailData{
		LawyerName: lawyer.FullName,
		CaseNumber: kase.CaseNumber,
		CaseTitle:  kase.Title,
		CaseURL:    services.AppLink(cfg, "/cases/"+kase.ID),
	}
	if client, err := services.GetClient(requestDB(c), kase.ClientID); err == nil {
		data.ClientName = client.Name
	}

	email, err := services.BuildCaseAssignmentEmail(lawyer.Email, data)
	if err != nil {
		zap.L().Error("failed to build case assignment email", zap.Error(err))
		return
	}
	services.SendEmailAsync(cfg, email)
}

// notifyTaskAssignment emails the assignee of an open task, unless they assigned it themselves
func notifyTaskAssignment(c echo.Context, task *models.Task) {
	cfg := getConfig(c)
	if cfg == nil || !task.IsOpen() || task.AssignedToID == currentUserID(c) {
		return
	}
	assignee, err := services.GetUser(requestDB(c), task.AssignedToID)
	if err != nil {
		zap.L().Warn("task assignment email skipped", zap.String("task_id", task.ID), zap.Error(err))
		return
	}

	email, err := services.BuildTaskAssignmentEmail(assignee.Email, services.TaskEmailData{
		AssigneeName: assignee.FullName,
		TaskTitle:    task.Title,
		Priority:     task.Priority,
		DueDate:      services.FormatDueDate(task.DueDate),
		TaskURL:      services.AppLink(cfg, "/tasks/"+task.ID),
	})
	if err != nil {
		zap.L().Error("failed to build task assignment email", zap.Error(err))
		return
	}
	services.SendEmailAsync(cfg, email)
}
