package models

import "time"

type AnalyticsLog struct {
	LogID      int       `json:"log_id" db:"log_id"`
	AdminID    *int      `json:"admin_id" db:"admin_id"`
	ActionType *string   `json:"action_type" db:"action_type"`
	Details    *string   `json:"details" db:"details"`
	Timestamp  time.Time `json:"timestamp" db:"timestamp"`
}

func (AnalyticsLog) TableName() string {
	return "analytics_logs"
}

func (AnalyticsLog) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS analytics_logs (
		log_id SERIAL PRIMARY KEY,
		admin_id INT REFERENCES admins(admin_id) ON DELETE CASCADE,
		action_type VARCHAR(50),
		details TEXT,
		timestamp TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}
