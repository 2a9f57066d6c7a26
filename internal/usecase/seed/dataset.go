package seed

import (
	"errors"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"jobdesk/internal/errs"
)

type Dataset struct {
	Positions []string        `yaml:"positions"`
	Users     []UserEntry     `yaml:"users"`
	Employees []EmployeeEntry `yaml:"employees"`
	Trucks    []TruckEntry    `yaml:"trucks"`
	JobOrders []JobOrderEntry `yaml:"job_orders"`
}

type UserEntry struct {
	Name   string   `yaml:"name"`
	Email  string   `yaml:"email"`
	Roles  []string `yaml:"roles"`
	Active *bool    `yaml:"active"`
}

type EmployeeEntry struct {
	FirstName     string `yaml:"first_name"`
	MiddleName    string `yaml:"middle_name"`
	LastName      string `yaml:"last_name"`
	Email         string `yaml:"email"`
	ContactNumber string `yaml:"contact_number"`
	Position      string `yaml:"position"`
	UserEmail     string `yaml:"user_email"`
	Archived      bool   `yaml:"archived"`
}

type TruckEntry struct {
	PlateNumber  string `yaml:"plate_number"`
	Model        string `yaml:"model"`
	CapacityTons string `yaml:"capacity_tons"`
}

type JobOrderEntry struct {
	ServiceType string         `yaml:"service_type"`
	Status      string         `yaml:"status"`
	Description string         `yaml:"description"`
	Location    string         `yaml:"location"`
	CreatedBy   string         `yaml:"created_by"`
	Hauling     []HaulingEntry `yaml:"hauling"`
}

type HaulingEntry struct {
	Date       string `yaml:"date"`
	Status     string `yaml:"status"`
	Truck      string `yaml:"truck"`
	WeightTons string `yaml:"weight_tons"`
}

func LoadDataset(path string) (Dataset, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Dataset{}, errors.New("seed file is required")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, errs.Wrapf(err, "read seed file %s", path)
	}
	return ParseDataset(raw)
}

func ParseDataset(raw []byte) (Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return Dataset{}, errs.Wrap(err, "decode seed dataset")
	}
	return ds, nil
}
