package repositories

import "smartdrishti-server/entities"

type UserRepository interface {
	Create(user *entities.User) error
	GetByID(id string) (*entities.User, error)
	GetByEmail(email string) (*entities.User, error)
	GetByUsername(username string) (*entities.User, error)
	Update(user *entities.User) error
}

// ProjectRepository loads projects with their steps and media nested, so
// callers never assemble the hierarchy by hand.
type ProjectRepository interface {
	Create(project *entities.Project) error
	GetByID(id string) (*entities.Project, error)
	ListVisible(userID string) ([]entities.Project, error)
	Update(project *entities.Project) error
	Delete(id string) error
}

type StepRepository interface {
	Create(step *entities.Step) error
	GetByID(id string) (*entities.Step, error)
	GetByProjectID(projectID string) ([]entities.Step, error)
	Update(step *entities.Step) error
	Delete(id string) error
}

type StepMediaRepository interface {
	Create(media *entities.StepMedia) error
	GetByID(id string) (*entities.StepMedia, error)
	Delete(id string) error
}

type DeviceRepository interface {
	Create(device *entities.IotDevice) error
	GetByDeviceID(deviceID string) (*entities.IotDevice, error)
	GetAll() ([]entities.IotDevice, error)
	Update(device *entities.IotDevice) error
	Delete(deviceID string) error
}

type SensorDataRepository interface {
	Create(data *entities.SensorData) error
	GetRecentByDeviceID(deviceID string, limit int) ([]entities.SensorData, error)
	GetLatestByDeviceID(deviceID string) (*entities.SensorData, error)
	GetBetween(deviceID, fromTS, toTS string) ([]entities.SensorData, error)
}

type SensorHourlyRepository interface {
	Upsert(row *entities.SensorDataHourly) error
	GetByDeviceID(deviceID string, limit int) ([]entities.SensorDataHourly, error)
}
