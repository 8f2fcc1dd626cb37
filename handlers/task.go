package handlers

import (
	"net/http"

	"law_office_app_go/models"
	"law_office_app_go/services"

	"github.com/labstack/echo/v4"
)

// TaskRequest is the body of POST /api/tasks
type TaskRequest struct {
	Title        string  `json:"title" validate:"required,notblank,max=300"`
	Description  *string `json:"description" validate:"omitempty,max=10000"`
	Status       string  `json:"status" validate:"omitempty,task_status"`
	Priority     string  `json:"priority" validate:"omitempty,priority"`
	DueDate      string  `json:"dueDate"`
	CaseID       *string `json:"caseId"`
	AssignedToID string  `json:"assignedToId" validate:"required"`
}

func (r *TaskRequest) sanitize() {
	r.Title = services.SanitizeText(r.Title)
	r.Description = services.SanitizeOptional(r.Description)
}

// TaskUpdateRequest is the body of PUT /api/tasks/:id; absent fields are left alone.
// An empty dueDate or caseId clears it.
type TaskUpdateRequest struct {
	Title        *string `json:"title" validate:"omitnil,notblank,max=300"`
	Description  *string `json:"description" validate:"omitempty,max=10000"`
	Status       *string `json:"status" validate:"omitnil,task_status"`
	Priority     *string `json:"priority" validate:"omitnil,priority"`
	DueDate      *string `json:"dueDate"`
	CaseID       *string `json:"caseId"`
	AssignedToID *string `json:"assignedToId" validate:"omitnil,notblank"`
}

func (r *TaskUpdateRequest) sanitize() {
	r.Title = services.SanitizeOptional(r.Title)
	r.Description = services.SanitizeOptional(r.Description)
}

func (r *TaskUpdateRequest) updates() (updateMap, error) {
	u := updateMap{}
	u.setString("title", r.Title)
	u.setNullable("description", r.Description)
	u.setString("status", r.Status)
	u.setString("priority", r.Priority)
	u.setNullable("case_id", r.CaseID)
	u.setString("assigned_to_id", r.AssignedToID)
	if r.DueDate != nil {
		due, err := parseDate("dueDate", *r.DueDate)
		if err != nil {
			return nil, err
		}
		if due == nil {
			u["due_date"] = nil
		} else {
			u["due_date"] = *due
		}
	}
	return u, nil
}

// GetTasksHandler lists tasks, filtered by ?caseId= and ?userId=
func GetTasksHandler(c echo.Context) error {
	tasks, err := services.GetTasks(requestDB(c), services.TaskFilters{
		CaseID: c.QueryParam("caseId"),
		UserID: c.QueryParam("userId"),
	})
	if err != nil {
		return serviceError(err, "Task")
	}
	return c.JSON(http.StatusOK, tasks)
}

// GetTaskHandler returns one task
func GetTaskHandler(c echo.Context) error {
	task, err := services.GetTask(requestDB(c), c.Param("id"))
	if err != nil {
		return serviceError(err, "Task")
	}
	return c.JSON(http.StatusOK, task)
}

// CreateTaskHandler creates a task and notifies the assignee
func CreateTaskHandler(c echo.Context) error {
	var req TaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	due, err := parseDate("dueDate", req.DueDate)
	if err != nil {
		return err
	}

	task := &models.Task{
		Title:        req.Title,
		Description:  emptyToNil(req.Description),
		Status:       req.Status,
		Priority:     req.Priority,
		DueDate:      due,
		CaseID:       emptyToNil(req.CaseID),
		AssignedToID: req.AssignedToID,
		CreatedBy:    currentUserID(c),
	}
	if task.Status == "" {
		task.Status = models.TaskStatusPending
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}

	created, err := services.CreateTask(requestDB(c), task)
	if err != nil {
		return serviceError(err, "Task")
	}

	audit(c, models.AuditActionTaskCreated, "tasks", created.ID, nil, created)
	notifyTaskAssignment(c, created)
	return c.JSON(http.StatusCreated, created)
}

// UpdateTaskHandler patches a task; reassignment notifies the new assignee
func UpdateTaskHandler(c echo.Context) error {
	id := c.Param("id")
	before, err := services.GetTask(requestDB(c), id)
	if err != nil {
		return serviceError(err, "Task")
	}

	var req TaskUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	updates, err := req.updates()
	if err != nil {
		return err
	}

	task, err := services.UpdateTask(requestDB(c), id, updates)
	if err != nil {
		return serviceError(err, "Task")
	}

	audit(c, models.AuditActionTaskUpdated, "tasks", task.ID, before, task)
	if task.AssignedToID != before.AssignedToID {
		notifyTaskAssignment(c, task)
	}
	return c.JSON(http.StatusOK, task)
}

// DeleteTaskHandler deletes a task
func DeleteTaskHandler(c echo.Context) error {
	id := c.Param("id")
	before, err := services.GetTask(requestDB(c), id)
	if err != nil {
		return serviceError(err, "Task")
	}

	if err := services.DeleteTask(requestDB(c), id); err != nil {
		return serviceError(err, "Task")
	}

	audit(c, models.AuditActionTaskDeleted, "tasks", id, before, nil)
	return c.NoContent(http.StatusNoContent)
}
