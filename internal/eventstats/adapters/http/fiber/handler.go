package fiber

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"clickstream-insights/internal/eventstats/core/domain"
	"clickstream-insights/internal/eventstats/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type GetStatsUseCase interface {
	Execute(ctx context.Context, in usecase.GetStatsInput) (*domain.EventStats, error)
}

type StatsHandler struct {
	uc GetStatsUseCase
}

func NewStatsHandler(uc GetStatsUseCase) *StatsHandler {
	return &StatsHandler{uc: uc}
}

// GetStats godoc
// @Summary Aggregate stored events
// @Description Counts events, distinct sessions and users of one event type, optionally grouped
// @Tags Events
// @Produce json
// @Param event_type query string true "Event type"
// @Param from query int true "From timestamp"
// @Param to query int true "To timestamp"
// @Param price_tier query string false "Only events of this price tier"
// @Param group_by query string false "Group by: price_tier | main_category | time"
// @Param interval query string false "Interval: hour | day"
// @Success 200 {object} StatsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /events/stats [get]
func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	eventType := c.Query("event_type", "")
	if eventType == "" {
		return badQuery(c, "event_type is required")
	}

	fromStr := c.Query("from", "")
	toStr := c.Query("to", "")
	if fromStr == "" || toStr == "" {
		return badQuery(c, "from and to are required")
	}

	from, err := strconv.ParseInt(fromStr, 10, 64)
	if err != nil {
		return badQuery(c, "invalid 'from' parameter")
	}
	to, err := strconv.ParseInt(toStr, 10, 64)
	if err != nil {
		return badQuery(c, "invalid 'to' parameter")
	}

	var tierPtr *string
	if tier := c.Query("price_tier", ""); tier != "" {
		tierPtr = &tier
	}

	in := usecase.GetStatsInput{
		EventType: eventType,
		From:      from,
		To:        to,
		PriceTier: tierPtr,
		GroupBy:   c.Query("group_by", ""),
		Interval:  c.Query("interval", ""),
	}

	res, err := h.uc.Execute(c.UserContext(), in)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidStatsQuery),
			errors.Is(err, usecase.ErrInvalidTimeRange),
			errors.Is(err, usecase.ErrInvalidGroupBy),
			errors.Is(err, usecase.ErrInvalidInterval):
			return badQuery(c, err.Error())
		default:
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
				Error: "internal_server_error",
			})
		}
	}

	resp := StatsResponse{
		EventType:      res.EventType,
		From:           res.From,
		To:             res.To,
		TotalCount:     res.TotalCount,
		UniqueSessions: res.UniqueSessions,
		UniqueUsers:    res.UniqueUsers,
		GroupBy:        res.GroupBy,
		Groups:         make([]StatsGroupResponse, 0, len(res.Groups)),
	}
	for _, g := range res.Groups {
		resp.Groups = append(resp.Groups, StatsGroupResponse{
			Key:            g.Key,
			TotalCount:     g.TotalCount,
			UniqueSessions: g.UniqueSessions,
			UniqueUsers:    g.UniqueUsers,
		})
	}

	return c.Status(http.StatusOK).JSON(resp)
}

func badQuery(c *fiber.Ctx, msg string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Error:   "invalid_query",
		Message: msg,
	})
}
