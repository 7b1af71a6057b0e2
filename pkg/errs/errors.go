package errs

import (
	"errors"
	"net/http"
)

const (
	ErrStatusInternalServer = http.StatusInternalServerError
	ErrStatusClient         = http.StatusBadRequest
	ErrStatusNotFound       = http.StatusNotFound
	ErrStatusConflict       = http.StatusConflict
	ErrStatusTooLarge       = http.StatusRequestEntityTooLarge
)

var (
	ErrInternalServer = errors.New("Erro interno do servidor")
	ErrClient         = errors.New("Requisição inválida")
	ErrNotFound       = errors.New("Produto não encontrado")
	ErrInvalidID      = errors.New("ID do produto inválido")
	ErrValidation     = errors.New("Dados do produto inválidos")
	ErrImageRequired  = errors.New("Imagem do produto é obrigatória")
	ErrNotAnImage     = errors.New("Arquivo enviado não é uma imagem suportada")
	ErrImageTooLarge  = errors.New("Imagem excede o tamanho máximo permitido")
	ErrImageIO        = errors.New("Falha ao gravar a imagem do produto")
	ErrConflict       = errors.New("Registro conflitante encontrado")
)

var errorMap = map[error]int{
	ErrInternalServer: ErrStatusInternalServer,
	ErrClient:         ErrStatusClient,
	ErrNotFound:       ErrStatusNotFound,
	ErrInvalidID:      ErrStatusClient,
	ErrValidation:     ErrStatusClient,
	ErrImageRequired:  ErrStatusClient,
	ErrNotAnImage:     ErrStatusClient,
	ErrImageTooLarge:  ErrStatusTooLarge,
	ErrImageIO:        ErrStatusInternalServer,
	ErrConflict:       ErrStatusConflict,
}

// GetErrorStatusCode maps err, or any sentinel it wraps, to an HTTP status.
// Unknown errors map to 500.
func GetErrorStatusCode(err error) int {
	if errStatusCode, ok := errorMap[err]; ok {
		return errStatusCode
	}

	for sentinel, errStatusCode := range errorMap {
		if errors.Is(err, sentinel) {
			return errStatusCode
		}
	}

	return errorMap[ErrInternalServer]
}

// PublicError returns the sentinel that is safe to show to a client.
// Errors that do not wrap a known sentinel collapse into ErrInternalServer.
func PublicError(err error) error {
	if _, ok := errorMap[err]; ok {
		return err
	}

	for sentinel := range errorMap {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}

	return ErrInternalServer
}
