package services

import "time"

// SetClock replaces the service clock.
func (s *PromotionService) SetClock(now func() time.Time) { s.now = now }
