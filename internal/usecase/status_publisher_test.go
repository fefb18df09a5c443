package usecase_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/signal-map/internal/domain"
	"github.com/signal-map/internal/usecase"
)

func TestStatusPublisher_OnStatus(t *testing.T) {
	event := domain.StatusEvent{
		SessionID: uuid.New(),
		Sequence:  3,
		Phase:     domain.PhaseSucceeded,
		Outcome:   domain.OutcomeData,
	}

	t.Run("publishes to configured stream", func(t *testing.T) {
		repo := &MockStreamRepository{}
		repo.On("PublishToStream", mock.Anything, "stream:test", event).Return(nil)

		usecase.NewStatusPublisher(repo, "stream:test", zap.NewNop()).OnStatus(context.Background(), event)

		repo.AssertExpectations(t)
	})

	t.Run("default stream and swallowed error", func(t *testing.T) {
		repo := &MockStreamRepository{}
		repo.On("PublishToStream", mock.Anything, domain.StreamViewStatus, event).
			Return(stderrors.New("redis down"))

		usecase.NewStatusPublisher(repo, "", zap.NewNop()).OnStatus(context.Background(), event)

		repo.AssertExpectations(t)
	})
}
