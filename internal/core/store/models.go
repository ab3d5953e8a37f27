package store

import (
	employeeDatamodel "github.com/frahmantamala/hr-assistant/internal/core/datamodel/employee"
	identityDatamodel "github.com/frahmantamala/hr-assistant/internal/core/datamodel/identity"
	leaveDatamodel "github.com/frahmantamala/hr-assistant/internal/core/datamodel/leave"
	salaryDatamodel "github.com/frahmantamala/hr-assistant/internal/core/datamodel/salary"
	"gorm.io/gorm"
)

// Models lists every table in dependency order.
var Models = []any{
	&employeeDatamodel.Department{},
	&employeeDatamodel.Employee{},
	&leaveDatamodel.Balance{},
	&leaveDatamodel.Request{},
	&salaryDatamodel.Record{},
	&identityDatamodel.ChatLink{},
}

// AutoMigrate creates the schema from the datamodels. Postgres deployments
// use the SQL migrations instead; this serves SQLite.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models...)
}
