package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"storybook-server/internal/storybook"
)

const apiVersion = "1.0.0"

// application holds the application-wide dependencies for the server.
type application struct {
	logger         *slog.Logger
	store          *storybook.Store
	maxUploadBytes int64
	corsOrigins    []string
}

// routes sets up the HTTP router.
func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	r.Get("/", app.rootHandler)
	r.Get("/health", app.healthHandler)

	r.Post("/api/upload-storybook", app.uploadStorybookHandler)
	r.Get("/api/storybooks", app.listStorybooksHandler)
	r.Get("/api/storybook/{filename}", app.getStorybookHandler)

	return r
}

// --- HTTP Handlers (methods on *application) ---

func (app *application) rootHandler(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, http.StatusOK, map[string]string{
		"message": "Storybook API Server",
		"version": apiVersion,
	})
}

func (app *application) healthHandler(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// uploadStorybookHandler persists an uploaded storybook document. An
// optional ?filename= query parameter targets a specific name (overwrite);
// without it the store generates one from the title.
func (app *application) uploadStorybookHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, app.maxUploadBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			app.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		app.logger.Error("Failed to read request body", "error", err)
		app.writeError(w, http.StatusInternalServerError, "failed to read request body")
		return
	}

	choice := storybook.GenerateName()
	if requested := r.URL.Query().Get("filename"); requested != "" {
		choice = storybook.UseName(requested)
	}

	result, err := app.store.Upload(body, choice)
	if err != nil {
		if errors.Is(err, storybook.ErrInvalidDocument) {
			app.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		app.logger.Error("Error saving storybook", "error", err)
		app.writeError(w, http.StatusInternalServerError, "an error occurred while saving the file")
		return
	}

	app.writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"message":     "storybook saved successfully",
		"filename":    result.Filename,
		"file_size":   result.FileSize,
		"saved_pages": result.SavedPages,
		"total_pages": result.TotalPages,
	})
}

func (app *application) listStorybooksHandler(w http.ResponseWriter, r *http.Request) {
	summaries, err := app.store.ListAll()
	if err != nil {
		app.logger.Error("Error getting storybook list", "error", err)
		app.writeError(w, http.StatusInternalServerError, "an error occurred while listing files")
		return
	}
	app.writeJSON(w, http.StatusOK, summaries)
}

func (app *application) getStorybookHandler(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	doc, err := app.store.GetByName(filename)
	if err != nil {
		switch {
		case errors.Is(err, storybook.ErrInvalidDocument):
			app.writeError(w, http.StatusBadRequest, "invalid file name")
		case errors.Is(err, storybook.ErrNotFound):
			app.writeError(w, http.StatusNotFound, "the requested file was not found")
		case errors.Is(err, storybook.ErrCorrupt):
			app.logger.Error("Stored storybook is corrupt", "filename", filename, "error", err)
			app.writeError(w, http.StatusInternalServerError, "the stored file contains invalid data")
		default:
			app.logger.Error("Error getting storybook", "filename", filename, "error", err)
			app.writeError(w, http.StatusInternalServerError, "an error occurred while reading the file")
		}
		return
	}
	app.writeJSON(w, http.StatusOK, doc)
}

// --- Response helpers ---

func (app *application) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		app.logger.Error("Failed to write JSON response", "error", err)
	}
}

func (app *application) writeError(w http.ResponseWriter, status int, detail string) {
	app.writeJSON(w, status, map[string]string{"detail": detail})
}
