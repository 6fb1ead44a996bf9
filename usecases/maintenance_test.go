package usecases

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"smartdrishti-server/entities"
	"smartdrishti-server/repositories"

	"github.com/onsi/gomega"
)

func TestAssessRiskHighVariance(t *testing.T) {
	g := gomega.NewWithT(t)

	// Oscillating between 20 and 31.2 gives a variance of 31.36.
	temps := make([]float64, 100)
	for i := range temps {
		if i%2 == 0 {
			temps[i] = 20.0
		} else {
			temps[i] = 31.2
		}
	}

	report := assessRisk(temps)
	g.Expect(report.RiskLevel).To(gomega.Equal(RiskHigh))
	g.Expect(report.Variance).To(gomega.BeNumerically("~", 31.36, 0.01))
	g.Expect(report.SampleCount).To(gomega.Equal(100))
}

func TestAssessRiskStableIsLow(t *testing.T) {
	g := gomega.NewWithT(t)

	temps := make([]float64, 30)
	for i := range temps {
		temps[i] = 22.0
	}

	report := assessRisk(temps)
	g.Expect(report.RiskLevel).To(gomega.Equal(RiskLow))
	g.Expect(report.Variance).To(gomega.BeZero())
	g.Expect(report.TrendDelta).To(gomega.BeZero())
	g.Expect(report.MeanTemperature).To(gomega.Equal(22.0))
}

func TestAssessRiskMediumVariance(t *testing.T) {
	g := gomega.NewWithT(t)

	// Oscillating between 20 and 27 gives a variance of 12.25, above the
	// medium threshold but below the high one.
	temps := make([]float64, 100)
	for i := range temps {
		if i%2 == 0 {
			temps[i] = 20.0
		} else {
			temps[i] = 27.0
		}
	}

	report := assessRisk(temps)
	g.Expect(report.RiskLevel).To(gomega.Equal(RiskMedium))
	g.Expect(report.Variance).To(gomega.BeNumerically("~", 12.25, 0.01))
}

func TestAssessRiskUpwardTrendIsHigh(t *testing.T) {
	g := gomega.NewWithT(t)

	// Most recent first: 5 hot readings against a flat baseline. Variance
	// stays low, so only the trend check can fire.
	temps := make([]float64, 100)
	for i := range temps {
		temps[i] = 20.0
	}
	for i := 0; i < 5; i++ {
		temps[i] = 26.5
	}

	report := assessRisk(temps)
	g.Expect(report.RecentMean).To(gomega.Equal(26.5))
	g.Expect(report.BaselineMean).To(gomega.Equal(20.0))
	g.Expect(report.TrendDelta).To(gomega.BeNumerically("~", 6.5, 0.001))
	g.Expect(report.Variance).To(gomega.BeNumerically("<", 10))
	g.Expect(report.RiskLevel).To(gomega.Equal(RiskHigh))
}

func TestAssessRiskMildTrendIsMedium(t *testing.T) {
	g := gomega.NewWithT(t)

	temps := make([]float64, 100)
	for i := range temps {
		temps[i] = 20.0
	}
	for i := 0; i < 5; i++ {
		temps[i] = 23.0
	}

	report := assessRisk(temps)
	g.Expect(report.TrendDelta).To(gomega.BeNumerically("~", 3.0, 0.001))
	g.Expect(report.RiskLevel).To(gomega.Equal(RiskMedium))
}

func TestAssessRiskTooFewSamplesIsUnknown(t *testing.T) {
	g := gomega.NewWithT(t)

	temps := make([]float64, 10)
	for i := range temps {
		temps[i] = 50.0 // would be flagged if the sample were large enough
	}

	report := assessRisk(temps)
	g.Expect(report.RiskLevel).To(gomega.Equal(RiskUnknown))
	g.Expect(report.SampleCount).To(gomega.Equal(10))
	g.Expect(report.TrendDelta).To(gomega.BeZero())
}

func TestAnalyzeDeviceFromStoredReadings(t *testing.T) {
	g := gomega.NewWithT(t)
	database := newTestDB(t)

	deviceRepo := repositories.NewDevicePgRepository(database)
	sensorRepo := repositories.NewSensorDataPgRepository(database)

	g.Expect(deviceRepo.Create(&entities.IotDevice{DeviceID: "pico-7"})).To(gomega.Succeed())

	// 95 flat readings, then 5 hot ones with the newest timestamps.
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 95; i++ {
		g.Expect(sensorRepo.Create(&entities.SensorData{
			DeviceID:    "pico-7",
			Temperature: 20.0,
			Timestamp:   base.Add(time.Duration(i) * time.Second).Format(time.RFC3339),
		})).To(gomega.Succeed())
	}
	for i := 0; i < 5; i++ {
		g.Expect(sensorRepo.Create(&entities.SensorData{
			DeviceID:    "pico-7",
			Temperature: 30.0,
			Timestamp:   base.Add(time.Duration(95+i) * time.Second).Format(time.RFC3339),
		})).To(gomega.Succeed())
	}

	uc := NewMaintenanceUseCase(sensorRepo)
	report, err := uc.AnalyzeDevice("pico-7")
	g.Expect(err).NotTo(gomega.HaveOccurred())

	g.Expect(report.DeviceID).To(gomega.Equal("pico-7"))
	g.Expect(report.SampleCount).To(gomega.Equal(100))
	g.Expect(report.RecentMean).To(gomega.Equal(30.0))
	g.Expect(report.BaselineMean).To(gomega.Equal(20.0))
	g.Expect(report.RiskLevel).To(gomega.Equal(RiskHigh))
}

func TestAnalyzeDeviceWithoutReadings(t *testing.T) {
	g := gomega.NewWithT(t)
	database := newTestDB(t)

	uc := NewMaintenanceUseCase(repositories.NewSensorDataPgRepository(database))
	_, err := uc.AnalyzeDevice("ghost")
	g.Expect(errors.Is(err, ErrNotFound)).To(gomega.BeTrue(), fmt.Sprintf("got %v", err))
}
