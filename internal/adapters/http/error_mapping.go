package httpadapter

import (
	"net/http"

	"github.com/tcarvalho/doc-analyst/internal/core/domain"
)

// User-facing messages stay generic and in Portuguese; the technical cause
// is logged, never returned.
const (
	msgUnsupportedFormat = "Formato de arquivo não suportado. Use .docx, .pdf, .txt ou Imagens."
	msgEmptyDocument     = "O documento Word parece estar vazio ou não contém texto extraível."
	msgUnreadableFile    = "Erro ao ler o arquivo."
	msgInvalidRequest    = "Requisição inválida."
	msgUnauthorized      = "Chave de acesso inválida."
	msgBusy              = "Outro documento está sendo processado. Aguarde a conclusão."
	msgNotFound          = "Documento não encontrado."
	msgInternal          = "Erro interno. Tente novamente."
)

func mapError(err error) (int, string) {
	switch {
	case domain.IsKind(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, msgUnauthorized
	case domain.IsKind(err, domain.ErrBusy):
		return http.StatusConflict, msgBusy
	case domain.IsKind(err, domain.ErrUnsupportedFormat):
		return http.StatusBadRequest, msgUnsupportedFormat
	case domain.IsKind(err, domain.ErrEmptyDocument):
		return http.StatusUnprocessableEntity, msgEmptyDocument
	case domain.IsKind(err, domain.ErrExtraction):
		return http.StatusUnprocessableEntity, msgUnreadableFile
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, msgInvalidRequest
	case domain.IsKind(err, domain.ErrRecordNotFound):
		return http.StatusNotFound, msgNotFound
	default:
		return http.StatusInternalServerError, msgInternal
	}
}
