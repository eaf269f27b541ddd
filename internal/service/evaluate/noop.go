package evaluate

import (
	"context"

	"github.com/andybrandt/lisesca/internal/domain/entity"
)

// noopEvaluator 未启用AI筛选时的占位实现,全部放行
type noopEvaluator struct{}

func InitNoopEvaluator() Evaluator {
	return noopEvaluator{}
}

func (noopEvaluator) Reset()               {}
func (noopEvaluator) ConversationLen() int { return 0 }

func (noopEvaluator) Triage(ctx context.Context, card *entity.Card) Outcome {
	return Outcome{Decision: DecisionKeep}
}

func (noopEvaluator) FullReview(ctx context.Context, rec *entity.Record) Outcome {
	return Outcome{Decision: DecisionAccept}
}

func (noopEvaluator) Binary(ctx context.Context, card *entity.Card) Outcome {
	return Outcome{Decision: DecisionAccept}
}
