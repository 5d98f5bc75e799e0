package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Poll.validate(); err != nil {
		return fmt.Errorf("poll: %w", err)
	}
	if err := c.Sweeper.validate(); err != nil {
		return fmt.Errorf("sweeper: %w", err)
	}
	return nil
}

func (p *PollConfig) validate() error {
	if p.Duration <= 0 {
		return fmt.Errorf("duration must be > 0 (got %v)", p.Duration)
	}
	if p.DailyLimit <= 0 {
		return fmt.Errorf("daily_limit must be > 0 (got %d)", p.DailyLimit)
	}
	if p.QuestionMinLen < 1 {
		return fmt.Errorf("question_min_len must be >= 1 (got %d)", p.QuestionMinLen)
	}
	if p.QuestionMaxLen < p.QuestionMinLen {
		return fmt.Errorf("question_max_len must be >= question_min_len (got %d < %d)", p.QuestionMaxLen, p.QuestionMinLen)
	}
	if p.CommentMaxLen < 1 {
		return fmt.Errorf("comment_max_len must be >= 1 (got %d)", p.CommentMaxLen)
	}
	if p.EndingSoonWindow <= 0 {
		return fmt.Errorf("ending_soon_window must be > 0 (got %v)", p.EndingSoonWindow)
	}
	return nil
}

func (s *SweeperConfig) validate() error {
	if s.Interval <= 0 {
		return fmt.Errorf("interval must be > 0 (got %v)", s.Interval)
	}
	if s.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0 (got %d)", s.BatchSize)
	}
	return nil
}
