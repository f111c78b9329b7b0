package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vadim/neo-outreach/internal/domain/board/entity"
	"github.com/vadim/neo-outreach/internal/domain/board/policy"
	"github.com/vadim/neo-outreach/internal/domain/board/service"
	"github.com/vadim/neo-outreach/internal/httpx/response"
)

// BoardSessions defines the interface for board session operations
// Interface is defined by consumer (handler), not provider (policy)
type BoardSessions interface {
	Open(ctx context.Context, platform entity.Platform) (string, *policy.Policy, error)
	Get(id string) (*policy.Policy, error)
	Close(id string) error
}

// BoardHandler handles HTTP requests for account reassignment boards
type BoardHandler struct {
	sessions BoardSessions
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(sessions BoardSessions) *BoardHandler {
	return &BoardHandler{sessions: sessions}
}

// RegisterRoutes registers board routes
func (h *BoardHandler) RegisterRoutes(r chi.Router) {
	r.Route("/boards", func(r chi.Router) {
		r.Post("/", h.Open())
		r.Get("/{id}", h.Get())
		r.Delete("/{id}", h.Close())
		r.Post("/{id}/refresh", h.Refresh())
		r.Put("/{id}/platform", h.SetPlatform())
		r.Post("/{id}/selection/{accountID}", h.ToggleSelection())
		r.Post("/{id}/columns/{columnID}/select-all", h.SelectAll())
		r.Post("/{id}/moves", h.Move())
		r.Post("/{id}/columns/{columnID}/accounts/{accountID}/toggle", h.ToggleAccount())
		r.Post("/{id}/columns/{columnID}/{action}", h.ToggleAll())
	})
}

// BoardResponse is a board session rendered for its active platform tab
type BoardResponse struct {
	ID string `json:"id"`
	service.BoardView
}

// OpenRequest represents the request body for opening a board
type OpenRequest struct {
	Platform string `json:"platform"` // instagram, x; defaults to the configured platform
}

// PlatformRequest represents the request body for switching platform tabs
type PlatformRequest struct {
	Platform string `json:"platform"`
}

// MoveRequest represents a completed drag gesture
type MoveRequest struct {
	DraggedID   string `json:"dragged_id"`
	Source      string `json:"source"`
	SourceIndex int    `json:"source_index"`
	Dest        string `json:"dest"` // empty when dropped outside any column
	DestIndex   int    `json:"dest_index"`
}

// Open handles POST /boards
func (h *BoardHandler) Open() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req OpenRequest
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				response.BadRequest(w, "invalid JSON")
				return
			}
		}

		var platform entity.Platform
		if req.Platform != "" {
			p, err := entity.ParsePlatform(req.Platform)
			if err != nil {
				response.BadRequest(w, err.Error())
				return
			}
			platform = p
		}

		id, board, err := h.sessions.Open(r.Context(), platform)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		view, err := board.View()
		if err != nil {
			handleDomainError(w, err)
			return
		}
		response.Created(w, BoardResponse{ID: id, BoardView: view})
	}
}

// Get handles GET /boards/{id}
func (h *BoardHandler) Get() http.HandlerFunc {
	return h.withBoard(func(w http.ResponseWriter, r *http.Request, board *policy.Policy) error {
		return nil
	})
}

// Close handles DELETE /boards/{id}
func (h *BoardHandler) Close() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.sessions.Close(chi.URLParam(r, "id")); err != nil {
			handleDomainError(w, err)
			return
		}
		response.NoContent(w)
	}
}

// Refresh handles POST /boards/{id}/refresh
func (h *BoardHandler) Refresh() http.HandlerFunc {
	return h.withBoard(func(w http.ResponseWriter, r *http.Request, board *policy.Policy) error {
		return board.Refresh(r.Context())
	})
}

// SetPlatform handles PUT /boards/{id}/platform
func (h *BoardHandler) SetPlatform() http.HandlerFunc {
	return h.withBoard(func(w http.ResponseWriter, r *http.Request, board *policy.Policy) error {
		var req PlatformRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return errInvalidJSON
		}
		platform, err := entity.ParsePlatform(req.Platform)
		if err != nil {
			return err
		}
		return board.SetPlatform(platform)
	})
}

// ToggleSelection handles POST /boards/{id}/selection/{accountID}
func (h *BoardHandler) ToggleSelection() http.HandlerFunc {
	return h.withBoard(func(w http.ResponseWriter, r *http.Request, board *policy.Policy) error {
		_, err := board.ToggleSelection(chi.URLParam(r, "accountID"))
		return err
	})
}

// SelectAll handles POST /boards/{id}/columns/{columnID}/select-all
func (h *BoardHandler) SelectAll() http.HandlerFunc {
	return h.withBoard(func(w http.ResponseWriter, r *http.Request, board *policy.Policy) error {
		ref, err := entity.ParseColumnRef(chi.URLParam(r, "columnID"))
		if err != nil {
			return err
		}
		_, err = board.SelectAllInColumn(ref)
		return err
	})
}

// Move handles POST /boards/{id}/moves
func (h *BoardHandler) Move() http.HandlerFunc {
	return h.withBoard(func(w http.ResponseWriter, r *http.Request, board *policy.Policy) error {
		var req MoveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return errInvalidJSON
		}
		if req.DraggedID == "" {
			return errMissingDraggedID
		}

		source, err := entity.ParseColumnRef(req.Source)
		if err != nil {
			return err
		}
		var dest entity.ColumnRef
		if req.Dest != "" {
			if dest, err = entity.ParseColumnRef(req.Dest); err != nil {
				return err
			}
		}

		return board.Move(r.Context(), service.DragEvent{
			DraggedID:   req.DraggedID,
			Source:      source,
			SourceIndex: req.SourceIndex,
			Dest:        dest,
			DestIndex:   req.DestIndex,
		})
	})
}

// ToggleAccount handles POST /boards/{id}/columns/{columnID}/accounts/{accountID}/toggle
func (h *BoardHandler) ToggleAccount() http.HandlerFunc {
	return h.withBoard(func(w http.ResponseWriter, r *http.Request, board *policy.Policy) error {
		ref, err := entity.ParseColumnRef(chi.URLParam(r, "columnID"))
		if err != nil {
			return err
		}
		return board.ToggleAccount(r.Context(), ref, chi.URLParam(r, "accountID"))
	})
}

// ToggleAll handles POST /boards/{id}/columns/{columnID}/{action}
func (h *BoardHandler) ToggleAll() http.HandlerFunc {
	return h.withBoard(func(w http.ResponseWriter, r *http.Request, board *policy.Policy) error {
		action, err := service.ParseToggleAction(chi.URLParam(r, "action"))
		if err != nil {
			return err
		}
		ref, err := entity.ParseColumnRef(chi.URLParam(r, "columnID"))
		if err != nil {
			return err
		}
		return board.ToggleAll(r.Context(), ref, action)
	})
}

// withBoard resolves the session, runs fn and answers with the board view
func (h *BoardHandler) withBoard(fn func(w http.ResponseWriter, r *http.Request, board *policy.Policy) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		board, err := h.sessions.Get(id)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		if err := fn(w, r, board); err != nil {
			handleDomainError(w, err)
			return
		}

		view, err := board.View()
		if err != nil {
			handleDomainError(w, err)
			return
		}
		response.OK(w, BoardResponse{ID: id, BoardView: view})
	}
}

var (
	errInvalidJSON      = errors.New("invalid JSON")
	errMissingDraggedID = errors.New("dragged_id is required")
)

func handleDomainError(w http.ResponseWriter, err error) {
	var mutErr *policy.MutationError
	switch {
	case errors.As(err, &mutErr):
		response.BadGateway(w, mutErr.Message)
	case errors.Is(err, entity.ErrSessionNotFound),
		errors.Is(err, entity.ErrAccountNotFound),
		errors.Is(err, entity.ErrColumnNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, entity.ErrBusy),
		errors.Is(err, entity.ErrAccountActive),
		errors.Is(err, entity.ErrPlatformMismatch),
		errors.Is(err, entity.ErrUnassignedToggle):
		response.Conflict(w, err.Error())
	case errors.Is(err, entity.ErrInvalidPlatform),
		errors.Is(err, entity.ErrInvalidColumnRef),
		errors.Is(err, entity.ErrInvalidAction),
		errors.Is(err, entity.ErrNotVisible),
		errors.Is(err, errInvalidJSON),
		errors.Is(err, errMissingDraggedID):
		response.BadRequest(w, err.Error())
	case errors.Is(err, entity.ErrNotHydrated):
		response.ServiceUnavailable(w, err.Error())
	default:
		response.BadGateway(w, "campaign service unavailable")
	}
}
