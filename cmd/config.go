package cmd

import (
	"fmt"
	"time"
)

// Config carries everything the composition root needs to wire the engine.
// Values come from the environment; see cmd/app/main.go for the variable
// names and defaults.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// Route solver.
	SolverBaseURL string
	SolverTimeout time.Duration

	// Warehouse origin and timing assumptions for route planning.
	WarehouseLatitude  float64
	WarehouseLongitude float64
	RouteStartOffset   time.Duration
	StopDwell          time.Duration

	// Packing orders idle longer than this are reverted to confirmed.
	PackingIdleWindow time.Duration

	// Accounting handoff (kafka).
	KafkaHost            string
	KafkaAccountingTopic string

	// Notifications (rabbitmq).
	RabbitURL               string
	RabbitNotificationQueue string
}

// DSN builds the postgres connection string for gorm.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
