package model

// All lists every model in dependency order for AutoMigrate.
func All() []any {
	return []any{
		&Position{},
		&Role{},
		&User{},
		&Employee{},
		&Truck{},
		&JobOrder{},
		&JobOrderCorrection{},
		&Form4{},
		&Form3{},
		&HaulingRecord{},
		&Incident{},
		&KV{},
	}
}
