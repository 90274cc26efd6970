package events

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/KirkDiggler/lottery/internal/common/logging"
	"github.com/KirkDiggler/lottery/internal/models"
	"github.com/stretchr/testify/suite"
)

type BusTestSuite struct {
	suite.Suite
	bus *Bus
	ctx context.Context
}

func (s *BusTestSuite) SetupTest() {
	s.bus = New(&Config{Logger: logging.Discard()})
	s.ctx = context.Background()
}

func (s *BusTestSuite) TearDownTest() {
	s.bus.Close()
}

func TestBusSuite(t *testing.T) {
	suite.Run(t, new(BusTestSuite))
}

func (s *BusTestSuite) TestDeliversInPublishOrder() {
	var mu sync.Mutex
	var got []string

	s.Require().NoError(s.bus.Subscribe(models.EventTypeEntered, func(event *models.Event) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, event.Participant)
	}))

	want := make([]string, 50)
	for i := range want {
		want[i] = fmt.Sprintf("player-%d", i)
		s.Require().NoError(s.bus.Publish(s.ctx, &models.Event{
			Type:        models.EventTypeEntered,
			Participant: want[i],
		}))
	}

	s.bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	s.Equal(want, got)
}

func (s *BusTestSuite) TestDeliversAcrossTypesInPublishOrder() {
	var mu sync.Mutex
	var got []models.EventType

	record := func(event *models.Event) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, event.Type)
	}
	for _, eventType := range []models.EventType{
		models.EventTypeWinnerPicked,
		models.EventTypeEntered,
		models.EventTypeWinnerRequested,
	} {
		s.Require().NoError(s.bus.Subscribe(eventType, record))
	}

	var want []models.EventType
	for round := 0; round < 20; round++ {
		for _, eventType := range []models.EventType{
			models.EventTypeEntered,
			models.EventTypeEntered,
			models.EventTypeWinnerRequested,
			models.EventTypeWinnerPicked,
		} {
			want = append(want, eventType)
			s.Require().NoError(s.bus.Publish(s.ctx, &models.Event{Type: eventType}))
		}
	}

	s.bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	s.Equal(want, got)
}

func (s *BusTestSuite) TestRoutesByType() {
	var entered, picked int
	var mu sync.Mutex

	s.Require().NoError(s.bus.Subscribe(models.EventTypeEntered, func(*models.Event) {
		mu.Lock()
		entered++
		mu.Unlock()
	}))
	s.Require().NoError(s.bus.Subscribe(models.EventTypeWinnerPicked, func(*models.Event) {
		mu.Lock()
		picked++
		mu.Unlock()
	}))

	s.Require().NoError(s.bus.Publish(s.ctx, &models.Event{Type: models.EventTypeEntered}))
	s.Require().NoError(s.bus.Publish(s.ctx, &models.Event{Type: models.EventTypeEntered}))
	s.Require().NoError(s.bus.Publish(s.ctx, &models.Event{Type: models.EventTypeWinnerPicked}))
	s.Require().NoError(s.bus.Publish(s.ctx, &models.Event{Type: models.EventTypeWinnerRequested}))

	s.bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	s.Equal(2, entered)
	s.Equal(1, picked)
}

func (s *BusTestSuite) TestPublishDoesNotWaitForHandler() {
	release := make(chan struct{})
	s.Require().NoError(s.bus.Subscribe(models.EventTypeEntered, func(*models.Event) {
		<-release
	}))

	published := make(chan struct{})
	go func() {
		for i := 0; i < 3; i++ {
			s.NoError(s.bus.Publish(s.ctx, &models.Event{Type: models.EventTypeEntered}))
		}
		close(published)
	}()

	select {
	case <-published:
	case <-time.After(time.Second):
		s.Fail("publish blocked on a slow handler")
	}

	close(release)
	s.bus.Wait()
}

func (s *BusTestSuite) TestHandlerPanicIsContained() {
	var calls int
	var mu sync.Mutex

	s.Require().NoError(s.bus.Subscribe(models.EventTypeEntered, func(*models.Event) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			panic("boom")
		}
	}))

	s.Require().NoError(s.bus.Publish(s.ctx, &models.Event{Type: models.EventTypeEntered}))
	s.Require().NoError(s.bus.Publish(s.ctx, &models.Event{Type: models.EventTypeEntered}))
	s.bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	s.Equal(2, calls)
}

func (s *BusTestSuite) TestValidation() {
	s.ErrorIs(s.bus.Publish(s.ctx, nil), ErrNilEvent)
	s.ErrorIs(s.bus.Publish(s.ctx, &models.Event{}), ErrEmptyEventType)
	s.ErrorIs(s.bus.Subscribe(models.EventTypeEntered, nil), ErrNilHandler)
	s.ErrorIs(s.bus.Subscribe("", func(*models.Event) {}), ErrEmptyEventType)
}

func (s *BusTestSuite) TestClosedBusRejects() {
	s.bus.Close()

	s.ErrorIs(s.bus.Publish(s.ctx, &models.Event{Type: models.EventTypeEntered}), ErrBusClosed)
	s.ErrorIs(s.bus.Subscribe(models.EventTypeEntered, func(*models.Event) {}), ErrBusClosed)
}
