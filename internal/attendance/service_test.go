package attendance_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mateuseller4-oss/celestial-register/internal/attendance"
	"github.com/mateuseller4-oss/celestial-register/internal/geocode"
	"github.com/mateuseller4-oss/celestial-register/internal/queue"
	"github.com/mateuseller4-oss/celestial-register/internal/roster"
)

type fakeDispatcher struct {
	calls  []attendance.Record
	result attendance.DispatchResult
}

func (f *fakeDispatcher) Name() string { return "fake" }

func (f *fakeDispatcher) Dispatch(_ context.Context, rec attendance.Record) attendance.DispatchResult {
	f.calls = append(f.calls, rec)
	return f.result
}

type stubGeocoder struct {
	place geocode.Place
	err   error
}

func (s stubGeocoder) Reverse(context.Context, float64, float64) (geocode.Place, error) {
	return s.place, s.err
}

func testDraft() attendance.Draft {
	return attendance.Draft{
		Email:     "a@b.com",
		FullName:  "Ana Silva",
		Age:       "20",
		DayOfWeek: "3",
		Subject:   "hermeneutica",
	}
}

func newService(t *testing.T, gate *attendance.Gate, disp *fakeDispatcher) (*attendance.Service, *roster.Memory) {
	t.Helper()
	mem := roster.NewMemory(time.Hour)
	svc := attendance.NewService(mem, gate, disp, nil, zaptest.NewLogger(t))
	return svc, mem
}

func TestSubmitAcceptsAndDispatchesOnce(t *testing.T) {
	disp := &fakeDispatcher{result: attendance.DispatchResult{Status: attendance.DeliveryDelivered, ID: "em-1"}}
	svc, mem := newService(t, nil, disp)
	ctx := context.Background()

	rec, delivery, err := svc.Submit(ctx, "sess-1", testDraft())
	require.NoError(t, err)

	assert.Equal(t, "Ana Silva", rec.Name)
	assert.Equal(t, "a@b.com", rec.Email)
	assert.Equal(t, 20, rec.Age)
	assert.Equal(t, 3, rec.DayOfWeek)
	assert.Equal(t, "hermeneutica", rec.Subject)
	assert.Equal(t, attendance.StatusPresent, rec.Status)
	assert.NotEmpty(t, rec.ID)
	assert.WithinDuration(t, time.Now().UTC(), rec.SubmittedAt, 5*time.Second)

	assert.Equal(t, attendance.DeliveryDelivered, delivery.Status)
	assert.Equal(t, "em-1", delivery.ID)

	require.Len(t, disp.calls, 1)
	assert.Equal(t, rec, disp.calls[0])

	records, err := mem.List(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestSubmitRejectsDuplicateEmail(t *testing.T) {
	disp := &fakeDispatcher{result: attendance.DispatchResult{Status: attendance.DeliveryDelivered}}
	svc, mem := newService(t, nil, disp)
	ctx := context.Background()

	_, _, err := svc.Submit(ctx, "sess-1", testDraft())
	require.NoError(t, err)

	// Same email with every other field different is still a duplicate.
	second := testDraft()
	second.FullName = "Outro Nome"
	second.Age = "33"
	second.DayOfWeek = "5"
	second.Subject = "homiletica"
	_, _, err = svc.Submit(ctx, "sess-1", second)
	assert.ErrorIs(t, err, attendance.ErrDuplicate)

	records, err := mem.List(ctx, "sess-1")
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Len(t, disp.calls, 1)
}

func TestSubmitDuplicateIsSessionScoped(t *testing.T) {
	disp := &fakeDispatcher{result: attendance.DispatchResult{Status: attendance.DeliveryDelivered}}
	svc, _ := newService(t, nil, disp)
	ctx := context.Background()

	_, _, err := svc.Submit(ctx, "sess-1", testDraft())
	require.NoError(t, err)
	_, _, err = svc.Submit(ctx, "sess-2", testDraft())
	assert.NoError(t, err)
}

func TestSubmitValidationFailureSkipsEverything(t *testing.T) {
	disp := &fakeDispatcher{}
	svc, mem := newService(t, nil, disp)
	ctx := context.Background()

	draft := testDraft()
	draft.Email = ""
	_, _, err := svc.Submit(ctx, "sess-1", draft)

	var verr *attendance.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, disp.calls)

	records, err := mem.List(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSubmitGateRequiresCoordinates(t *testing.T) {
	disp := &fakeDispatcher{}
	gate := attendance.NewGate(stubGeocoder{}, "01310-100", 0, zaptest.NewLogger(t))
	svc, _ := newService(t, gate, disp)

	_, _, err := svc.Submit(context.Background(), "sess-1", testDraft())
	assert.ErrorIs(t, err, attendance.ErrLocationUnavailable)
	assert.Empty(t, disp.calls)
}

func TestSubmitGateRejectsForeignPostalCode(t *testing.T) {
	disp := &fakeDispatcher{}
	gate := attendance.NewGate(stubGeocoder{place: geocode.Place{PostalCode: "22222-222"}},
		"01310-100", 0, zaptest.NewLogger(t))
	svc, mem := newService(t, gate, disp)
	ctx := context.Background()

	lat, lon := -23.5, -46.6
	draft := testDraft()
	draft.Latitude = &lat
	draft.Longitude = &lon

	_, _, err := svc.Submit(ctx, "sess-1", draft)
	assert.ErrorIs(t, err, attendance.ErrLocationNotAuthorized)
	assert.Empty(t, disp.calls)

	records, err := mem.List(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSubmitGatePreservesLocation(t *testing.T) {
	disp := &fakeDispatcher{result: attendance.DispatchResult{Status: attendance.DeliveryDelivered}}
	gate := attendance.NewGate(stubGeocoder{place: geocode.Place{
		PostalCode:  "01310-100",
		DisplayName: "Av. Paulista, 900",
	}}, "01310100", 0, zaptest.NewLogger(t))
	svc, mem := newService(t, gate, disp)
	ctx := context.Background()

	lat, lon := -23.5613, -46.6565
	draft := testDraft()
	draft.Latitude = &lat
	draft.Longitude = &lon

	rec, _, err := svc.Submit(ctx, "sess-1", draft)
	require.NoError(t, err)
	require.NotNil(t, rec.Latitude)
	require.NotNil(t, rec.Longitude)
	assert.Equal(t, lat, *rec.Latitude)
	assert.Equal(t, lon, *rec.Longitude)
	assert.Equal(t, "01310-100", rec.PostalCode)
	assert.Equal(t, "Av. Paulista, 900", rec.Address)

	records, err := mem.List(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, rec, records[0])
}

func TestSubmitDispatchFailureStillAccepted(t *testing.T) {
	disp := &fakeDispatcher{result: attendance.DispatchResult{
		Status: attendance.DeliveryFailed,
		Reason: "email service unreachable",
	}}
	svc, mem := newService(t, nil, disp)
	ctx := context.Background()

	rec, delivery, err := svc.Submit(ctx, "sess-1", testDraft())
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, attendance.DeliveryFailed, delivery.Status)

	records, err := mem.List(ctx, "sess-1")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSubmitQueueModeReportsPending(t *testing.T) {
	q := queue.NewInMemory(4)
	mem := roster.NewMemory(time.Hour)
	svc := attendance.NewService(mem, nil, nil, q, zaptest.NewLogger(t))
	ctx := context.Background()

	rec, delivery, err := svc.Submit(ctx, "sess-1", testDraft())
	require.NoError(t, err)
	assert.Equal(t, attendance.DeliveryPending, delivery.Status)

	jobs, err := q.Consume(ctx)
	require.NoError(t, err)
	select {
	case job := <-jobs:
		assert.Equal(t, "sess-1", job.SessionID)
		assert.Equal(t, rec, job.Record)
	case <-time.After(time.Second):
		t.Fatal("no job enqueued")
	}
}
