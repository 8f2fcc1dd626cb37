package handlers

import (
	"net/http"

	"law_office_app_go/models"
	"law_office_app_go/services"

	"github.com/labstack/echo/v4"
)

// ClientRequest is the body of POST /api/clients
type ClientRequest struct {
	Name       string  `json:"name" validate:"required,notblank,max=200"`
	Email      *string `json:"email" validate:"omitempty,email,max=254"`
	Phone      *string `json:"phone" validate:"omitempty,max=50"`
	Address    *string `json:"address" validate:"omitempty,max=500"`
	NationalID *string `json:"nationalId" validate:"omitempty,max=50"`
	Notes      *string `json:"notes" validate:"omitempty,max=5000"`
}

func (r *ClientRequest) sanitize() {
	r.Name = services.SanitizeText(r.Name)
	r.Email = services.SanitizeOptional(r.Email)
	r.Phone = services.SanitizeOptional(r.Phone)
	r.Address = services.SanitizeOptional(r.Address)
	r.NationalID = services.SanitizeOptional(r.NationalID)
	r.Notes = services.SanitizeOptional(r.Notes)
}

// ClientUpdateRequest is the body of PUT /api/clients/:id; absent fields are left alone
type ClientUpdateRequest struct {
	Name       *string `json:"name" validate:"omitnil,notblank,max=200"`
	Email      *string `json:"email" validate:"omitempty,email,max=254"`
	Phone      *string `json:"phone" validate:"omitempty,max=50"`
	Address    *string `json:"address" validate:"omitempty,max=500"`
	NationalID *string `json:"nationalId" validate:"omitempty,max=50"`
	Notes      *string `json:"notes" validate:"omitempty,max=5000"`
}

func (r *ClientUpdateRequest) sanitize() {
	r.Name = services.SanitizeOptional(r.Name)
	r.Email = services.SanitizeOptional(r.Email)
	r.Phone = services.SanitizeOptional(r.Phone)
	r.Address = services.SanitizeOptional(r.Address)
	r.NationalID = services.SanitizeOptional(r.NationalID)
	r.Notes = services.SanitizeOptional(r.Notes)
}

func (r *ClientUpdateRequest) updates() updateMap {
	u := updateMap{}
	u.setString("name", r.Name)
	u.setNullable("email", r.Email)
	u.setNullable("phone", r.Phone)
	u.setNullable("address", r.Address)
	u.setNullable("national_id", r.NationalID)
	u.setNullable("notes", r.Notes)
	return u
}

// GetClientsHandler lists clients, or searches them with ?search=
func GetClientsHandler(c echo.Context) error {
	var (
		clients []models.Client
		err     error
	)
	if search := c.QueryParam("search"); search != "" {
		clients, err = services.SearchClients(requestDB(c), search)
	} else {
		clients, err = services.GetClients(requestDB(c))
	}
	if err != nil {
		return serviceError(err, "Client")
	}
	return c.JSON(http.StatusOK, clients)
}

// GetClientHandler returns one client
func GetClientHandler(c echo.Context) error {
	client, err := services.GetClient(requestDB(c), c.Param("id"))
	if err != nil {
		return serviceError(err, "Client")
	}
	return c.JSON(http.StatusOK, client)
}

// CreateClientHandler creates a client owned by the current user
func CreateClientHandler(c echo.Context) error {
	var req ClientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	client, err := services.CreateClient(requestDB(c), &models.Client{
		Name:       req.Name,
		Email:      emptyToNil(req.Email),
		Phone:      emptyToNil(req.Phone),
		Address:    emptyToNil(req.Address),
		NationalID: emptyToNil(req.NationalID),
		Notes:      emptyToNil(req.Notes),
		CreatedBy:  currentUserID(c),
	})
	if err != nil {
		return serviceError(err, "Client")
	}

	audit(c, models.AuditActionClientCreated, "clients", client.ID, nil, client)
	return c.JSON(http.StatusCreated, client)
}

// UpdateClientHandler patches a client
func UpdateClientHandler(c echo.Context) error {
	id := c.Param("id")
	before, err := services.GetClient(requestDB(c), id)
	if err != nil {
		return serviceError(err, "Client")
	}

	var req ClientUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	client, err := services.UpdateClient(requestDB(c), id, req.updates())
	if err != nil {
		return serviceError(err, "Client")
	}

	audit(c, models.AuditActionClientUpdated, "clients", client.ID, before, client)
	return c.JSON(http.StatusOK, client)
}

// DeleteClientHandler deletes a client that has no cases
func DeleteClientHandler(c echo.Context) error {
	id := c.Param("id")
	before, err := services.GetClient(requestDB(c), id)
	if err != nil {
		return serviceError(err, "Client")
	}

	if err := services.DeleteClient(requestDB(c), id); err != nil {
		return serviceError(err, "Client")
	}

	audit(c, models.AuditActionClientDeleted, "clients", id, before, nil)
	return c.NoContent(http.StatusNoContent)
}

// emptyToNil drops optional text that sanitized down to nothing
func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
