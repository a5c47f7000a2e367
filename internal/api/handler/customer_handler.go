package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/api/metrics"
	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/domain"
	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/ports"
	"github.com/BlusDevsoftware/clientes-api-bluepay/pkg/logger"
)

const (
	msgInvalidPayload = "Dados inválidos"
	msgMalformedBody  = "Corpo da requisição inválido"
	msgNotFound       = "Cliente não encontrado"
	msgDeleted        = "Cliente excluído com sucesso"
)

type operation struct {
	name     string
	errorMsg string
}

var (
	opList   = operation{"list", "Erro ao listar clientes"}
	opGet    = operation{"get", "Erro ao buscar cliente"}
	opCreate = operation{"create", "Erro ao criar cliente"}
	opUpdate = operation{"update", "Erro ao atualizar cliente"}
	opDelete = operation{"delete", "Erro ao excluir cliente"}
)

// CustomerHandler handles HTTP requests for customer operations.
type CustomerHandler struct {
	service ports.CustomerService
	log     zerolog.Logger
	// exposeErrors adds the cause text to 500 bodies.
	exposeErrors bool
}

func NewCustomerHandler(service ports.CustomerService, log zerolog.Logger, exposeErrors bool) *CustomerHandler {
	return &CustomerHandler{service: service, log: log, exposeErrors: exposeErrors}
}

// List handles GET /api/clientes.
//
// @Summary      List customers
// @Description  Ordered by codigo (crm profile) or nome (email profile).
// @Tags         clientes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Customer
// @Failure      401  {object}  messageResponse
// @Failure      500  {object}  storeErrorResponse
// @Router       /api/clientes [get]
func (h *CustomerHandler) List(c echo.Context) error {
	customers, err := h.service.List(c.Request().Context())
	if err != nil {
		return h.fail(c, opList, err)
	}
	h.count(opList, "ok")
	return c.JSON(http.StatusOK, customers)
}

// Get handles GET /api/clientes/:id.
//
// @Summary      Get a customer by id
// @Tags         clientes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Customer id"
// @Success      200  {object}  domain.Customer
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Failure      500  {object}  storeErrorResponse
// @Router       /api/clientes/{id} [get]
func (h *CustomerHandler) Get(c echo.Context) error {
	customer, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, opGet, err)
	}
	h.count(opGet, "ok")
	return c.JSON(http.StatusOK, customer)
}

// Create handles POST /api/clientes.
//
// @Summary      Create a customer
// @Description  status defaults to ativo. The business key must be unique.
// @Tags         clientes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      customerRequest  true  "Customer"
// @Success      201   {object}  domain.Customer
// @Failure      400   {object}  validationResponse
// @Failure      401   {object}  messageResponse
// @Failure      500   {object}  storeErrorResponse
// @Router       /api/clientes [post]
func (h *CustomerHandler) Create(c echo.Context) error {
	var req customerRequest
	if err := c.Bind(&req); err != nil {
		h.count(opCreate, "invalid")
		return c.JSON(http.StatusBadRequest, validationResponse{Message: msgInvalidPayload, Errors: []string{msgMalformedBody}})
	}

	customer, err := h.service.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return h.fail(c, opCreate, err)
	}
	h.count(opCreate, "ok")
	return c.JSON(http.StatusCreated, customer)
}

// Update handles PUT /api/clientes/:id.
//
// @Summary      Update a customer
// @Tags         clientes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Customer id"
// @Param        body  body      customerRequest  true  "Customer"
// @Success      200   {object}  domain.Customer
// @Failure      400   {object}  validationResponse
// @Failure      401   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      500   {object}  storeErrorResponse
// @Router       /api/clientes/{id} [put]
func (h *CustomerHandler) Update(c echo.Context) error {
	var req customerRequest
	if err := c.Bind(&req); err != nil {
		h.count(opUpdate, "invalid")
		return c.JSON(http.StatusBadRequest, validationResponse{Message: msgInvalidPayload, Errors: []string{msgMalformedBody}})
	}

	customer, err := h.service.Update(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return h.fail(c, opUpdate, err)
	}
	h.count(opUpdate, "ok")
	return c.JSON(http.StatusOK, customer)
}

// Delete handles DELETE /api/clientes/:id.
//
// @Summary      Delete a customer
// @Tags         clientes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Customer id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Failure      500  {object}  storeErrorResponse
// @Router       /api/clientes/{id} [delete]
func (h *CustomerHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, opDelete, err)
	}
	h.count(opDelete, "ok")
	return c.JSON(http.StatusOK, messageResponse{Message: msgDeleted})
}

// fail converts a service error into its response. Unmapped errors are
// logged before answering 500.
func (h *CustomerHandler) fail(c echo.Context, op operation, err error) error {
	var (
		ve *domain.ValidationError
		de *domain.DuplicateError
	)
	switch {
	case errors.As(err, &ve):
		h.count(op, "invalid")
		return c.JSON(http.StatusBadRequest, validationResponse{Message: msgInvalidPayload, Errors: ve.Errors})
	case errors.As(err, &de):
		h.count(op, "duplicate")
		return c.JSON(http.StatusBadRequest, duplicateResponse{Message: de.Message, Details: de.Details})
	case errors.Is(err, domain.ErrCustomerNotFound):
		h.count(op, "not_found")
		return c.JSON(http.StatusNotFound, messageResponse{Message: msgNotFound})
	}

	h.count(op, "error")
	logger.FromContext(c.Request().Context(), h.log).Error().
		Err(err).
		Str("operation", op.name).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("user_id", currentUserID(c)).
		Msg(op.errorMsg)

	resp := storeErrorResponse{Message: op.errorMsg}
	if h.exposeErrors {
		resp.Error = err.Error()
	}
	return c.JSON(http.StatusInternalServerError, resp)
}

func (h *CustomerHandler) count(op operation, outcome string) {
	metrics.CustomerOperationsTotal.WithLabelValues(op.name, outcome).Inc()
}
