package sessions

import (
	"errors"
	"math"
	"testing"
	"time"

	evdomain "clickstream-insights/internal/events/core/domain"
	"clickstream-insights/internal/insights/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2019, 10, 1, 9, 0, 0, 0, time.UTC)

func ev(session, typ string, offset time.Duration, price float64) evdomain.Event {
	return evdomain.Event{
		SessionKey: session,
		UserID:     "u-" + session,
		EventType:  typ,
		EventTime:  base.Add(offset),
		ProductID:  "p-" + typ,
		Brand:      "acme",
		Price:      price,
		PriceTier:  "Low",
		Category:   "electronics",
	}
}

func TestMode(t *testing.T) {
	m, ok := Mode([]string{"b", "a", "a", "b", "c"})
	require.True(t, ok)
	assert.Equal(t, "b", m, "tie goes to the value seen first")

	m, ok = Mode([]string{"x", "y", "y"})
	require.True(t, ok)
	assert.Equal(t, "y", m)

	_, ok = Mode(nil)
	assert.False(t, ok)
	_, ok = Mode([]string{"", ""})
	assert.False(t, ok)
	assert.Equal(t, domain.Unknown, ModeOr(nil, domain.Unknown))
}

func TestTimeOfDay(t *testing.T) {
	cases := []struct {
		hour int
		want string
	}{
		{0, domain.Night}, {4, domain.Night}, {5, domain.Morning}, {11, domain.Morning},
		{12, domain.Afternoon}, {16, domain.Afternoon}, {17, domain.Evening},
		{21, domain.Evening}, {22, domain.Night}, {23, domain.Night},
	}
	for _, c := range cases {
		ts := time.Date(2019, 10, 1, c.hour, 30, 0, 0, time.UTC)
		assert.Equal(t, c.want, TimeOfDay(ts, nil), "hour %d", c.hour)
	}

	loc := time.FixedZone("UTC+3", 3*60*60)
	assert.Equal(t, domain.Afternoon, TimeOfDay(time.Date(2019, 10, 1, 10, 0, 0, 0, time.UTC), loc))
}

func TestBuild_OrderAndLength(t *testing.T) {
	events := []evdomain.Event{
		ev("s2", evdomain.EventTypeView, 0, 10),
		ev("s1", evdomain.EventTypePurchase, 3*time.Minute, 30),
		ev("s1", evdomain.EventTypeView, 0, 10),
		ev("s1", evdomain.EventTypeCart, time.Minute, 20),
		ev("s2", evdomain.EventTypeCart, time.Minute, 10),
	}

	out, stats, err := NewBuilder(Options{}).Build(events)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, BuildStats{Events: 5, Dropped: 0, Sessions: 2}, stats)

	assert.Equal(t, "s1", out[0].Key)
	assert.Equal(t, []string{"view", "cart", "purchase"}, out[0].Sequence)
	assert.Equal(t, "s2", out[1].Key)
	assert.Equal(t, []string{"view", "cart"}, out[1].Sequence)

	total := 0
	for _, s := range out {
		total += len(s.Sequence)
	}
	assert.Equal(t, len(events), total)

	a := out[0].Attributes
	assert.InDelta(t, 20.0, a.MeanPrice, 1e-9)
	assert.InDelta(t, 180.0, a.DurationSec, 1e-9)
	assert.Equal(t, domain.Morning, a.TimeOfDay)
	assert.Equal(t, "Low", a.PriceTier)
	assert.Equal(t, "electronics", a.Category)
	assert.Equal(t, 3, a.UniqueProducts)
	assert.Equal(t, 1, a.UniqueBrands)
	assert.Equal(t, base, a.Start)
	assert.Equal(t, base.Add(3*time.Minute), a.End)
}

func TestBuild_StableOnEqualTimestamps(t *testing.T) {
	events := []evdomain.Event{
		ev("s", evdomain.EventTypeCart, 0, 1),
		ev("s", evdomain.EventTypeView, 0, 1),
		ev("s", evdomain.EventTypeRemoveFromCart, 0, 1),
	}
	out, _, err := NewBuilder(Options{}).Build(events)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, []string{"cart", "view", "remove_from_cart"}, out[0].Sequence)
	assert.Zero(t, out[0].DurationSec)
}

func TestBuild_DropsInvalid(t *testing.T) {
	bad := ev("s1", evdomain.EventTypeView, 0, math.NaN())
	noTier := ev("s3", evdomain.EventTypeView, 0, 1)
	noTier.PriceTier = ""

	out, stats, err := NewBuilder(Options{}).Build([]evdomain.Event{
		bad,
		ev("s2", evdomain.EventTypeView, 0, 1),
		noTier,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Dropped)
	require.Len(t, out, 1)
	assert.Equal(t, "s2", out[0].Key)
}

func TestBuild_Empty(t *testing.T) {
	out, stats, err := NewBuilder(Options{}).Build(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Zero(t, stats.Sessions)
}

func TestBuildSession_EmptyIsContractBreach(t *testing.T) {
	_, err := NewBuilder(Options{}).BuildSession("s", nil)
	assert.True(t, errors.Is(err, ErrEmptySession))
}

func TestBuild_ModalAttributesFollowEventOrder(t *testing.T) {
	late := ev("s", evdomain.EventTypeView, 10*time.Hour, 1) // 19:00 Evening
	late.Category = "appliances"
	early := ev("s", evdomain.EventTypeView, 0, 1) // 09:00 Morning

	out, _, err := NewBuilder(Options{}).Build([]evdomain.Event{late, early})
	require.NoError(t, err)
	require.Len(t, out, 1)
	// one event each: the earlier event wins the tie
	assert.Equal(t, domain.Morning, out[0].TimeOfDay)
	assert.Equal(t, "electronics", out[0].Category)
}

func TestFilterInteraction(t *testing.T) {
	in := []domain.Session{
		{Key: "a", Sequence: []string{"view", "view"}},
		{Key: "b", Sequence: []string{"view", "cart"}},
		{Key: "c", Sequence: []string{"purchase"}},
	}
	out := FilterInteraction(in)
	require.Len(t, out, 2)
	assert.Equal(t, "b", out[0].Key)
	assert.Equal(t, "c", out[1].Key)
}
