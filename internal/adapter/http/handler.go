package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/adaptor"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"victorygoals/internal/app/ports"
	"victorygoals/internal/app/tracker"
	"victorygoals/internal/domain/civ"
	"victorygoals/internal/domain/victory"
)

type goalTracker interface {
	BeginTurn(ctx context.Context, req tracker.BeginTurnRequest) (tracker.TransitionsResponse, error)
	Fire(ctx context.Context, payload victory.Payload) (tracker.TransitionsResponse, error)
	EndGame(ctx context.Context) (tracker.TransitionsResponse, error)
	Status(ctx context.Context, req tracker.StatusRequest) (tracker.StatusResponse, error)
	Goal(ctx context.Context, id string) (tracker.GoalStatus, error)
	ListTransitions(ctx context.Context, req tracker.ListTransitionsRequest) ([]ports.TransitionRecord, error)
}

// turnAdvancer is implemented by worlds the server may move forward itself.
type turnAdvancer interface {
	SetTurn(turn int)
}

type Handler struct {
	Tracker goalTracker
	World   civ.World
	KPI     kpiSnapshotProvider
	Metrics http.Handler
	// CORSOrigin is the allowed browser origin; empty allows any.
	CORSOrigin string
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware(h.CORSOrigin))

	api := s.Group("/api")
	api.GET("/goals", h.goals)
	api.GET("/goals/transitions", h.transitions)
	api.GET("/goals/:id", h.goal)
	api.POST("/turns", h.beginTurn)
	api.POST("/events", h.fire)
	api.POST("/game/end", h.endGame)
	if _, ok := h.World.(ports.WorldEditor); ok {
		api.PATCH("/world/players/:id", h.editPlayer)
		api.PUT("/world/cities", h.editCity)
	}

	s.GET("/ops/kpi", h.kpi)
	if h.Metrics != nil {
		s.GET("/metrics", adaptor.HertzHandler(h.Metrics))
	}
}

type turnRequest struct {
	Turn   int `json:"turn"`
	Player int `json:"player"`
}

type transitionView struct {
	GoalID string    `json:"goal_id"`
	Goal   string    `json:"goal"`
	Player int       `json:"player"`
	From   string    `json:"from"`
	To     string    `json:"to"`
	Turn   int       `json:"turn"`
	At     time.Time `json:"at"`
}

type transitionsResponse struct {
	Transitions []transitionView `json:"transitions"`
}

func toTransitionsResponse(records []ports.TransitionRecord) transitionsResponse {
	out := transitionsResponse{Transitions: make([]transitionView, 0, len(records))}
	for _, rec := range records {
		out.Transitions = append(out.Transitions, transitionView{
			GoalID: rec.GoalID,
			Goal:   rec.Goal,
			Player: int(rec.Player),
			From:   rec.From.String(),
			To:     rec.To.String(),
			Turn:   rec.Turn,
			At:     rec.At,
		})
	}
	return out
}

func (h Handler) goals(c context.Context, ctx *app.RequestContext) {
	req := tracker.StatusRequest{AllPlayers: true}
	if raw := strings.TrimSpace(string(ctx.Query("player"))); raw != "" {
		player, err := strconv.Atoi(raw)
		if err != nil {
			writeErrorBody(ctx, consts.StatusBadRequest, "invalid_player", "player must be an integer")
			return
		}
		req = tracker.StatusRequest{Player: civ.PlayerID(player)}
	}
	resp, err := h.Tracker.Status(c, req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) goal(c context.Context, ctx *app.RequestContext) {
	resp, err := h.Tracker.Goal(c, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) transitions(c context.Context, ctx *app.RequestContext) {
	player, err := strconv.Atoi(strings.TrimSpace(string(ctx.Query("player"))))
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_player", "player must be an integer")
		return
	}
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	records, err := h.Tracker.ListTransitions(c, tracker.ListTransitionsRequest{Player: civ.PlayerID(player), Limit: limit})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, toTransitionsResponse(records))
}

func (h Handler) beginTurn(c context.Context, ctx *app.RequestContext) {
	var body turnRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if w, ok := h.World.(turnAdvancer); ok && body.Turn > h.World.Turn() {
		w.SetTurn(body.Turn)
	}
	resp, err := h.Tracker.BeginTurn(c, tracker.BeginTurnRequest{Turn: body.Turn, Player: civ.PlayerID(body.Player)})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, toTransitionsResponse(resp.Transitions))
}

func (h Handler) fire(c context.Context, ctx *app.RequestContext) {
	var body tracker.EventRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	payload, err := body.Payload(h.World)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.Tracker.Fire(c, payload)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, toTransitionsResponse(resp.Transitions))
}

func (h Handler) endGame(c context.Context, ctx *app.RequestContext) {
	resp, err := h.Tracker.EndGame(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, toTransitionsResponse(resp.Transitions))
}

type playerEditRequest struct {
	GoldDelta      int         `json:"gold_delta"`
	GoldenAgeTurns *int        `json:"golden_age_turns"`
	AnarchyTurns   *int        `json:"anarchy_turns"`
	TradeGold      *int        `json:"trade_gold"`
	Bonuses        map[int]int `json:"bonuses"`
}

type cityEditRequest struct {
	X          int          `json:"x"`
	Y          int          `json:"y"`
	Owner      *int         `json:"owner"`
	Culture    *int         `json:"culture"`
	Population *int         `json:"population"`
	Buildings  map[int]bool `json:"buildings"`
}

type cityView struct {
	X          int `json:"x"`
	Y          int `json:"y"`
	Owner      int `json:"owner"`
	Culture    int `json:"culture"`
	Population int `json:"population"`
}

// editPlayer changes host-owned player state. Goals see the change on their
// next check.
func (h Handler) editPlayer(_ context.Context, ctx *app.RequestContext) {
	editor, ok := h.World.(ports.WorldEditor)
	if !ok {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "world is read only")
		return
	}
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_player", "player must be an integer")
		return
	}
	var body playerEditRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	edit := ports.PlayerEdit{
		GoldDelta:      body.GoldDelta,
		GoldenAgeTurns: body.GoldenAgeTurns,
		AnarchyTurns:   body.AnarchyTurns,
		TradeGold:      body.TradeGold,
	}
	if len(body.Bonuses) > 0 {
		edit.Bonuses = make(map[civ.BonusType]int, len(body.Bonuses))
		for bonus, n := range body.Bonuses {
			edit.Bonuses[civ.BonusType(bonus)] = n
		}
	}
	if err := editor.EditPlayer(civ.PlayerID(id), edit); err != nil {
		writeError(ctx, err)
		return
	}
	p, _ := h.World.Player(civ.PlayerID(id))
	ctx.JSON(consts.StatusOK, map[string]any{"player": id, "gold": p.Gold()})
}

func (h Handler) editCity(_ context.Context, ctx *app.RequestContext) {
	editor, ok := h.World.(ports.WorldEditor)
	if !ok {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "world is read only")
		return
	}
	var body cityEditRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	edit := ports.CityEdit{At: civ.At(body.X, body.Y), Culture: body.Culture, Population: body.Population}
	if body.Owner != nil {
		owner := civ.PlayerID(*body.Owner)
		edit.Owner = &owner
	}
	if len(body.Buildings) > 0 {
		edit.Buildings = make(map[civ.BuildingType]bool, len(body.Buildings))
		for b, has := range body.Buildings {
			edit.Buildings[civ.BuildingType(b)] = has
		}
	}
	city, err := editor.EditCity(edit)
	if err != nil {
		writeError(ctx, err)
		return
	}
	at := city.Location()
	ctx.JSON(consts.StatusOK, cityView{
		X:          at.X,
		Y:          at.Y,
		Owner:      int(city.Owner()),
		Culture:    city.Culture(),
		Population: city.Population(),
	})
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, victory.ErrUnknownEvent):
		writeErrorBody(ctx, consts.StatusBadRequest, "unknown_event", err.Error())
	case errors.Is(err, victory.ErrUnknownPlayer):
		writeErrorBody(ctx, consts.StatusNotFound, "unknown_player", err.Error())
	case errors.Is(err, tracker.ErrInvalidRequest),
		errors.Is(err, victory.ErrValidation):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
