package services

import (
	"testing"
	"time"

	"law_office_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskCRUD(t *testing.T) {
	db := setupTestDB(t)
	lawyer := createTestUser(t, db, "lex", models.RoleLawyer)
	clerk := createTestUser(t, db, "clerk", models.RoleSecretary)
	client := createTestClient(t, db, "Acme", lawyer.ID)
	c := createTestCase(t, db, "Matter", client.ID, lawyer.ID)

	due := time.Now().Add(48 * time.Hour)
	task, err := CreateTask(db, &models.Task{
		Title: "Draft reply", Status: models.TaskStatusPending, Priority: models.PriorityHigh,
		DueDate: &due, CaseID: &c.ID, AssignedToID: lawyer.ID, CreatedBy: lawyer.ID,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)

	loose, err := CreateTask(db, &models.Task{Title: "Order paper", Status: models.TaskStatusPending, Priority: models.PriorityLow, AssignedToID: clerk.ID, CreatedBy: lawyer.ID})
	require.NoError(t, err)
	assert.Nil(t, loose.CaseID)

	byCase, err := GetTasksByCase(db, c.ID)
	require.NoError(t, err)
	require.Len(t, byCase, 1)
	assert.Equal(t, task.ID, byCase[0].ID)

	byUser, err := GetTasksByUser(db, clerk.ID)
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, loose.ID, byUser[0].ID)

	all, err := GetTasks(db, TaskFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	updated, err := UpdateTask(db, task.ID, map[string]interface{}{"status": models.TaskStatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, updated.Status)

	updated, err = UpdateTask(db, task.ID, map[string]interface{}{"status": models.TaskStatusPending})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusPending, updated.Status)

	require.NoError(t, DeleteTask(db, task.ID))
	_, err = GetTask(db, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, DeleteTask(db, task.ID), ErrNotFound)
}

func TestTaskReferences(t *testing.T) {
	db := setupTestDB(t)
	lawyer := createTestUser(t, db, "lex", models.RoleLawyer)

	_, err := CreateTask(db, &models.Task{Title: "x", AssignedToID: "missing", CreatedBy: lawyer.ID})
	assert.ErrorIs(t, err, ErrInvalidReference)

	_, err = CreateTask(db, &models.Task{Title: "x", CaseID: stringPtr("missing"), AssignedToID: lawyer.ID, CreatedBy: lawyer.ID})
	assert.ErrorIs(t, err, ErrInvalidReference)

	task, err := CreateTask(db, &models.Task{Title: "x", AssignedToID: lawyer.ID, CreatedBy: lawyer.ID})
	require.NoError(t, err)
	_, err = UpdateTask(db, task.ID, map[string]interface{}{"assigned_to_id": "missing"})
	assert.ErrorIs(t, err, ErrInvalidReference)
	_, err = UpdateTask(db, "missing", map[string]interface{}{"title": "y"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateTaskDueDateRearmsReminder(t *testing.T) {
	db := setupTestDB(t)
	lawyer := createTestUser(t, db, "lex", models.RoleLawyer)

	due := time.Now().Add(time.Hour)
	task, err := CreateTask(db, &models.Task{Title: "x", Status: models.TaskStatusPending, DueDate: &due, AssignedToID: lawyer.ID, CreatedBy: lawyer.ID})
	require.NoError(t, err)
	require.NoError(t, MarkTaskReminderSent(db, task.ID, time.Now()))

	reminded, err := GetTasksDueBetween(db, time.Now(), time.Now().Add(2*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, reminded)

	_, err = UpdateTask(db, task.ID, map[string]interface{}{"due_date": time.Now().Add(90 * time.Minute)})
	require.NoError(t, err)

	dueTasks, err := GetTasksDueBetween(db, time.Now(), time.Now().Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, dueTasks, 1)
	require.NotNil(t, dueTasks[0].AssignedTo)
	assert.Equal(t, lawyer.Email, dueTasks[0].AssignedTo.Email)
}
