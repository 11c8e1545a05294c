package server

import (
	"errors"
	"net/http"

	"github.com/festhunt/treasurehunt/internal/importer"
)

// ImportResponse reports a successful bulk import.
type ImportResponse struct {
	Imported int    `json:"imported"`
	Mode     string `json:"mode"`
}

// ImportErrorResponse carries enough detail to fix the document.
type ImportErrorResponse struct {
	Error    string `json:"error"`
	Position int    `json:"position,omitempty"`
	Imported int    `json:"imported,omitempty"`
}

func handleAdminImport(imp *importer.Importer, board *leaderboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode := r.URL.Query().Get("mode")
		if mode == "" {
			mode = "append"
		}
		if mode != "append" && mode != "replace" {
			writeError(w, http.StatusBadRequest, "mode must be append or replace")
			return
		}

		count, err := imp.Import(r.Context(), r.Body, mode == "replace")
		r.Body.Close()
		if err != nil {
			writeImportError(w, err, count)
			return
		}

		board.Invalidate(r.Context())
		writeJSON(w, http.StatusOK, ImportResponse{Imported: count, Mode: mode})
	}
}

func writeImportError(w http.ResponseWriter, err error, imported int) {
	var (
		missingField *importer.MissingRequiredFieldError
		fewOptions   *importer.InsufficientOptionsError
		correctCount *importer.CorrectOptionCountError
		persistence  *importer.PersistenceError
	)

	switch {
	case errors.Is(err, importer.ErrMalformedDocument),
		errors.Is(err, importer.ErrNoQuestions):
		writeJSON(w, http.StatusBadRequest, ImportErrorResponse{Error: err.Error()})
	case errors.As(err, &missingField):
		writeJSON(w, http.StatusUnprocessableEntity, ImportErrorResponse{
			Error: err.Error(), Position: missingField.Position,
		})
	case errors.As(err, &fewOptions):
		writeJSON(w, http.StatusUnprocessableEntity, ImportErrorResponse{
			Error: err.Error(), Position: fewOptions.Position,
		})
	case errors.As(err, &correctCount):
		writeJSON(w, http.StatusUnprocessableEntity, ImportErrorResponse{
			Error: err.Error(), Position: correctCount.Position,
		})
	case errors.As(err, &persistence):
		writeJSON(w, http.StatusInternalServerError, ImportErrorResponse{
			Error: "import failed partway, already committed questions were kept", Imported: imported,
		})
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func handleAdminTemplate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="treasure-hunt-template.xml"`)
		w.WriteHeader(http.StatusOK)
		w.Write(importer.Template())
	}
}
