package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"newstyping/internal/ports"
	"newstyping/internal/testresult/model"
)

var ErrNoOwner = errors.New("test result has no owner")

type TestResultService struct {
	Store ports.TestResultStore
}

func NewTestResultService(store ports.TestResultStore) *TestResultService {
	return &TestResultService{Store: store}
}

// Save validates req and stores it under userID, which must come from the
// verified caller.
func (s *TestResultService) Save(ctx context.Context, userID string, req model.SaveTestRequest) (model.TestResult, error) {
	if userID == "" {
		return model.TestResult{}, ErrNoOwner
	}
	if err := req.Bind(nil); err != nil {
		return model.TestResult{}, err
	}
	t, err := s.Store.Insert(ctx, userID, req)
	if err != nil {
		return model.TestResult{}, fmt.Errorf("save test: %w", err)
	}
	return t, nil
}

func (s *TestResultService) History(ctx context.Context, userID string) (model.History, error) {
	tests, err := s.Store.ListByUser(ctx, userID)
	if err != nil {
		return model.History{}, fmt.Errorf("test history: %w", err)
	}
	if tests == nil {
		tests = []model.TestResult{}
	}
	return model.History{Tests: tests}, nil
}

func (s *TestResultService) Stats(ctx context.Context, userID string) (model.Stats, error) {
	metrics, err := s.Store.MetricsByUser(ctx, userID)
	if err != nil {
		return model.Stats{}, fmt.Errorf("test stats: %w", err)
	}
	return Aggregate(metrics), nil
}

// Aggregate averages wpm and accuracy with half-to-even rounding and sums time.
func Aggregate(metrics []model.Metrics) model.Stats {
	if len(metrics) == 0 {
		return model.Stats{}
	}
	var wpm, accuracy, total int
	for _, m := range metrics {
		wpm += m.WPM
		accuracy += m.Accuracy
		total += m.Time
	}
	n := float64(len(metrics))
	return model.Stats{
		TotalTests:      len(metrics),
		AverageWPM:      int(math.RoundToEven(float64(wpm) / n)),
		AverageAccuracy: int(math.RoundToEven(float64(accuracy) / n)),
		TotalTime:       total,
	}
}
