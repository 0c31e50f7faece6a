package services

import (
	"log"
	"time"

	"hunter-system/models"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// StartCachePruner sweeps quest caches older than the freshness window once
// an hour. Freshness is always re-checked on read, so this is storage hygiene
// rather than correctness: it keeps dead AI payloads out of the user rows.
func StartCachePruner(db *gorm.DB) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			cutoff := time.Now().Add(-QuestCacheTTL)
			res := db.Model(&models.User{}).
				Where("quest_cache_updated_at IS NOT NULL AND quest_cache_updated_at < ?", cutoff).
				Updates(map[string]interface{}{
					"quest_cache":            nil,
					"quest_cache_updated_at": nil,
				})
			if res.Error != nil {
				log.Printf("[Pruner] DB error: %v", res.Error)
				return
			}
			if res.RowsAffected > 0 {
				log.Printf("🧹 Pruned %d expired quest caches", res.RowsAffected)
			}
		}),
	)
}
