package handler

import "github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/ports"

// messageResponse is the envelope of every non-entity response.
type messageResponse struct {
	Message string `json:"message"`
}

type validationResponse struct {
	Message string   `json:"message" example:"Dados inválidos"`
	Errors  []string `json:"errors"`
}

type duplicateResponse struct {
	Message string `json:"message" example:"Cliente já existe"`
	Details string `json:"details" example:"Já existe um cliente com este código CRM"`
}

type storeErrorResponse struct {
	Message string `json:"message" example:"Erro ao listar clientes"`
	Error   string `json:"error,omitempty"`
}

// customerRequest is the body of create and update. Unknown fields are
// ignored; id, codigo and timestamps are never accepted from callers.
type customerRequest struct {
	CodigoCRM string `json:"codigo_crm" example:"CRM-001"`
	Nome      string `json:"nome"       example:"Ana Souza"`
	Email     string `json:"email"      example:"ana@example.com"`
	Telefone  string `json:"telefone"   example:"47 99999-0000"`
	Status    string `json:"status"     example:"ativo" enums:"ativo,inativo"`
}

func (r customerRequest) toInput() ports.CustomerInput {
	return ports.CustomerInput{
		CodigoCRM: r.CodigoCRM,
		Nome:      r.Nome,
		Email:     r.Email,
		Telefone:  r.Telefone,
		Status:    r.Status,
	}
}
