package fiber

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"clickstream-insights/internal/insights/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type AnalyzeUseCase interface {
	Execute(ctx context.Context, in usecase.AnalyzeInput) (*usecase.AnalyzeResult, error)
}

type OverviewUseCase interface {
	Execute(ctx context.Context, in usecase.OverviewInput) (*usecase.OverviewResult, error)
}

type InsightsHandler struct {
	analyzeUC  AnalyzeUseCase
	overviewUC OverviewUseCase
}

func NewInsightsHandler(analyzeUC AnalyzeUseCase, overviewUC OverviewUseCase) *InsightsHandler {
	return &InsightsHandler{analyzeUC: analyzeUC, overviewUC: overviewUC}
}

// Register mounts the insights routes under r.
func (h *InsightsHandler) Register(r fiber.Router) {
	r.Get("/patterns", h.GetPatterns)
	r.Get("/funnel", h.GetFunnel)
	r.Get("/summary", h.GetSummary)
	r.Get("/overview", h.GetOverview)
}

// GetPatterns godoc
// @Summary Mine behavioural patterns
// @Description Builds sessions in the window, mines every subgroup and returns pattern rows
// @Tags Insights
// @Produce json
// @Param from query int false "From timestamp (with to)"
// @Param to query int false "To timestamp (with from)"
// @Param dimension query string false "price_tier | category | time_of_day"
// @Param subgroup query string false "Only rows of this subgroup"
// @Param pattern_type query string false "full_session | subsequence_general | subsequence_interaction_min2 | subsequence_interaction_min3"
// @Success 200 {object} PatternsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /insights/patterns [get]
func (h *InsightsHandler) GetPatterns(c *fiber.Ctx) error {
	typ, err := usecase.ParsePatternType(c.Query("pattern_type", ""))
	if err != nil {
		return writeError(c, err)
	}

	in, err := analyzeInput(c)
	if err != nil {
		return badQuery(c, err.Error())
	}

	res, err := h.analyzeUC.Execute(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}

	subgroup := c.Query("subgroup", "")
	resp := PatternsResponse{
		RunID:    res.Report.RunID.String(),
		Sessions: res.Report.Sessions,
		Patterns: make([]PatternRowResponse, 0, len(res.Report.Patterns)),
	}
	for _, r := range res.Report.Patterns {
		if typ != "" && r.Type != typ {
			continue
		}
		if subgroup != "" && r.Subgroup != subgroup {
			continue
		}
		resp.Patterns = append(resp.Patterns, toPatternRow(r))
	}

	return c.Status(http.StatusOK).JSON(resp)
}

// GetFunnel godoc
// @Summary Cart funnel per subgroup
// @Description Abandonment, removal and purchase rates of cart sessions
// @Tags Insights
// @Produce json
// @Param from query int false "From timestamp (with to)"
// @Param to query int false "To timestamp (with from)"
// @Param dimension query string false "price_tier | category | time_of_day"
// @Success 200 {object} FunnelResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /insights/funnel [get]
func (h *InsightsHandler) GetFunnel(c *fiber.Ctx) error {
	in, err := analyzeInput(c)
	if err != nil {
		return badQuery(c, err.Error())
	}

	res, err := h.analyzeUC.Execute(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}

	resp := FunnelResponse{
		RunID:    res.Report.RunID.String(),
		Sessions: res.Report.Sessions,
		Funnels:  make([]FunnelRowResponse, 0, len(res.Report.Funnels)),
	}
	for _, f := range res.Report.Funnels {
		resp.Funnels = append(resp.Funnels, toFunnelRow(f))
	}

	return c.Status(http.StatusOK).JSON(resp)
}

// GetSummary godoc
// @Summary Ranked pattern summary
// @Description Top full-session and length-3 interaction patterns per subgroup
// @Tags Insights
// @Produce json
// @Param from query int false "From timestamp (with to)"
// @Param to query int false "To timestamp (with from)"
// @Param dimension query string false "price_tier | category | time_of_day"
// @Param top_n query int false "Rows per subgroup and type (default 5)"
// @Success 200 {object} SummaryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /insights/summary [get]
func (h *InsightsHandler) GetSummary(c *fiber.Ctx) error {
	in, err := analyzeInput(c)
	if err != nil {
		return badQuery(c, err.Error())
	}
	if in.SummaryTopN, err = optionalInt(c, "top_n"); err != nil || in.SummaryTopN < 0 {
		return badQuery(c, "invalid 'top_n' parameter")
	}

	res, err := h.analyzeUC.Execute(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}

	resp := SummaryResponse{
		RunID:    res.Report.RunID.String(),
		Sessions: res.Report.Sessions,
		Summary:  make([]SummaryRowResponse, 0, len(res.Summary)),
	}
	for _, s := range res.Summary {
		resp.Summary = append(resp.Summary, toSummaryRow(s))
	}

	return c.Status(http.StatusOK).JSON(resp)
}

// GetOverview godoc
// @Summary Dataset and session overview
// @Description Event counts, event type shares and browsing vs interaction session statistics
// @Tags Insights
// @Produce json
// @Param from query int false "From timestamp (with to)"
// @Param to query int false "To timestamp (with from)"
// @Param top_n query int false "Top whole-session patterns (default 10)"
// @Success 200 {object} usecase.OverviewResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /insights/overview [get]
func (h *InsightsHandler) GetOverview(c *fiber.Ctx) error {
	w, err := window(c)
	if err != nil {
		return badQuery(c, err.Error())
	}
	topN, err := optionalInt(c, "top_n")
	if err != nil || topN < 0 {
		return badQuery(c, "invalid 'top_n' parameter")
	}

	res, err := h.overviewUC.Execute(c.UserContext(), usecase.OverviewInput{Window: w, TopN: topN})
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(res)
}

func analyzeInput(c *fiber.Ctx) (usecase.AnalyzeInput, error) {
	w, err := window(c)
	if err != nil {
		return usecase.AnalyzeInput{}, err
	}
	in := usecase.AnalyzeInput{Window: w}
	if d := c.Query("dimension", ""); d != "" {
		in.Dimensions = []string{d}
	}
	return in, nil
}

func window(c *fiber.Ctx) (usecase.Window, error) {
	from, err := optionalInt64(c, "from")
	if err != nil {
		return usecase.Window{}, errors.New("invalid 'from' parameter")
	}
	to, err := optionalInt64(c, "to")
	if err != nil {
		return usecase.Window{}, errors.New("invalid 'to' parameter")
	}
	return usecase.Window{From: from, To: to}, nil
}

func optionalInt64(c *fiber.Ctx, key string) (int64, error) {
	s := c.Query(key, "")
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

func optionalInt(c *fiber.Ctx, key string) (int, error) {
	s := c.Query(key, "")
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func badQuery(c *fiber.Ctx, msg string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Error:   "invalid_query",
		Message: msg,
	})
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidTimeRange),
		errors.Is(err, usecase.ErrInvalidDimension),
		errors.Is(err, usecase.ErrInvalidPatternType):
		return badQuery(c, err.Error())
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}
