package service

import (
	"context"
	"log"

	"hybrid_bot/internal/models"
)

// Source — один независимый производитель мнений (индикаторы, ML-модель,
// прогнозист). Получает историю только до текущего бара включительно и не
// имеет права заглядывать дальше. history read-only.
type Source interface {
	Name() string
	Opinion(ctx context.Context, history []models.Candle) (models.Opinion, error)
}

// CollectOpinions опрашивает все источники по одной и той же истории.
// Упавший источник деградирует до нейтрального hold — прогон продолжается.
func CollectOpinions(ctx context.Context, sources []Source, history []models.Candle) []models.Opinion {
	opinions := make([]models.Opinion, 0, len(sources))
	for _, s := range sources {
		op, err := s.Opinion(ctx, history)
		if err != nil {
			log.Printf("[STRAT] source %s degraded: %v", s.Name(), err)
			op = models.NeutralOpinion(s.Name() + ": unavailable")
		}
		opinions = append(opinions, op)
	}
	return opinions
}
