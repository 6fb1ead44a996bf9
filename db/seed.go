package db

import (
	"smartdrishti-server/entities"
	"smartdrishti-server/logger"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// SeedDemoProjects inserts the starter demo project when the projects table
// is empty. Demo projects are visible to every user regardless of ownership.
func SeedDemoProjects(database Database) error {
	gdb := database.GetDB()

	var count int64
	if err := gdb.Model(&entities.Project{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	project := entities.Project{
		Title:         "Weather Station",
		Difficulty:    "Easy",
		EstimatedTime: "2 hours",
		Description:   "Build a connected weather station that reports temperature, humidity and pressure.",
		IsDemo:        true,
		Steps: []entities.Step{
			{
				Title:        "Wire the sensor",
				Description:  "Connect the BME280 breakout to the microcontroller.",
				Components:   datatypes.JSON(`["BME280","ESP32","Breadboard","Jumper wires"]`),
				Connections:  "SDA->GPIO21, SCL->GPIO22, VIN->3V3, GND->GND",
				Instructions: "Seat the breakout on the breadboard and wire the I2C lines as listed.",
				OrderNumber:  1,
				StepNumber:   1,
			},
			{
				Title:        "Read and publish",
				Description:  "Read the sensor and publish readings over MQTT.",
				Components:   datatypes.JSON(`["ESP32"]`),
				Instructions: "Flash the firmware, set the broker address, and watch readings arrive on sensors/<device>/data.",
				Code:         "client.publish(\"sensors/weather-01/data\", payload)",
				Conclusion:   "The dashboard now shows live readings for your station.",
				OrderNumber:  2,
				StepNumber:   2,
			},
		},
	}

	if err := gdb.Create(&project).Error; err != nil {
		return err
	}
	logger.Info("seeded demo project", zap.String("project_id", project.ID))
	return nil
}
