package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/verses-xyz/interdependence"
	"github.com/verses-xyz/interdependence/internal/domain"
	"github.com/verses-xyz/interdependence/internal/present/rest/presenter"
	"github.com/verses-xyz/interdependence/internal/service"
	"github.com/verses-xyz/interdependence/internal/usecase"
)

// Verifier checks identity proofs on demand.
type Verifier interface {
	Verify(ctx context.Context, address, handle string) error
}

// Limiter bounds mutation requests per caller.
type Limiter interface {
	Allow(ctx context.Context, key string) error
}

// Realtime streams accepted co-signature events for one declaration.
type Realtime interface {
	Subscribe(ctx context.Context, declarationTxID string) (<-chan service.SignatureEvent, func())
}

type Handler struct {
	declarations *usecase.DeclarationUsecase
	submissions  *usecase.SubmissionUsecase
	verification Verifier
	signal       Realtime
	limiter      Limiter
}

func NewHandler(
	declarations *usecase.DeclarationUsecase,
	submissions *usecase.SubmissionUsecase,
	verification Verifier,
	signal Realtime,
	limiter Limiter,
) *Handler {
	return &Handler{
		declarations: declarations,
		submissions:  submissions,
		verification: verification,
		signal:       signal,
		limiter:      limiter,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/declaration/:txId", h.handleDeclaration)
	e.POST("/fork/:txId", h.handleFork)
	e.POST("/sign/:txId", h.handleSign)
	e.POST("/verify/:handle", h.handleVerify)
	e.GET("/realtime", h.handleRealtime)
}

func (h *Handler) handleDeclaration(c echo.Context) error {
	ctx := c.Request().Context()

	txID := c.Param("txId")
	if !interdependence.IsTxID(txID) {
		return presenter.BadRequestMessage(c, "invalid transaction id")
	}

	view, err := h.declarations.Resolve(ctx, txID)
	if err != nil {
		return presenter.InternalError(c, err)
	}

	// Not-found and pending are normal result states; the view's own status
	// is the response status.
	return c.JSON(view.Status, view)
}

func (h *Handler) handleFork(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.limiter.Allow(ctx, "fork:"+c.RealIP()); err != nil {
		return presenter.TooManyRequests(c, "too many fork requests")
	}

	oldTxID := c.Param("txId")
	if !interdependence.IsTxID(oldTxID) {
		return presenter.BadRequestMessage(c, "invalid transaction id")
	}

	newText := c.FormValue("newText")
	if newText == "" {
		return presenter.BadRequestMessage(c, "newText is required")
	}

	var authors []string
	if err := json.Unmarshal([]byte(c.FormValue("authors")), &authors); err != nil {
		return presenter.BadRequestMessage(c, "authors must be a JSON array of strings")
	}

	fork, err := h.submissions.Fork(ctx, oldTxID, newText, authors)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.NotFound(c, "origin declaration not found")
		}
		return presenter.InternalError(c, err)
	}

	return presenter.OK(c, echo.Map{
		"status": "ok",
		"id":     fork.NewTxID,
		"origin": fork.OldTxID,
	})
}

func (h *Handler) handleSign(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.limiter.Allow(ctx, "sign:"+c.RealIP()); err != nil {
		return presenter.TooManyRequests(c, "too many sign requests")
	}

	txID := c.Param("txId")
	if !interdependence.IsTxID(txID) {
		return presenter.BadRequestMessage(c, "invalid transaction id")
	}

	sub := usecase.SignatureSubmission{
		DeclarationTxID: txID,
		Name:            c.FormValue("name"),
		Address:         c.FormValue("address"),
		Signature:       c.FormValue("signature"),
		Handle:          c.FormValue("handle"),
	}
	if sub.Name == "" || sub.Address == "" || sub.Signature == "" {
		return presenter.BadRequestMessage(c, "name, address and signature are required")
	}

	record, err := h.submissions.Sign(ctx, sub)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return presenter.NotFound(c, "declaration not found")
		case errors.Is(err, domain.ErrSignatureMismatch):
			return presenter.BadRequest(c, err)
		default:
			return presenter.InternalError(c, err)
		}
	}

	return presenter.OK(c, echo.Map{
		"status":    "ok",
		"signature": record,
	})
}

func (h *Handler) handleVerify(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.limiter.Allow(ctx, "verify:"+c.RealIP()); err != nil {
		return presenter.TooManyRequests(c, "too many verify requests")
	}

	handle := c.Param("handle")
	address := c.FormValue("address")
	if handle == "" || address == "" {
		return presenter.BadRequestMessage(c, "handle and address are required")
	}

	if err := h.verification.Verify(ctx, address, handle); err != nil {
		if errors.Is(err, domain.ErrSignatureMismatch) {
			return presenter.BadRequest(c, err)
		}
		return presenter.InternalError(c, err)
	}

	return presenter.OK(c, echo.Map{
		"status":  "ok",
		"handle":  handle,
		"address": address,
	})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleRealtime streams accepted co-signatures for one declaration over a
// websocket until the client goes away.
func (h *Handler) handleRealtime(c echo.Context) error {
	txID := c.QueryParam("tx")
	if !interdependence.IsTxID(txID) {
		return presenter.BadRequestMessage(c, "invalid transaction id")
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error("failed to upgrade websocket", slog.String("error", err.Error()))
		return err
	}
	defer ws.Close()

	ctx := c.Request().Context()
	events, cancel := h.signal.Subscribe(ctx, txID)
	defer cancel()

	quit := make(chan struct{})
	go func() {
		defer close(quit)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := ws.WriteJSON(event); err != nil {
				return nil
			}
		case <-quit:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}
