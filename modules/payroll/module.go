package payroll

import (
	"github.com/iota-uz/payroll-sync/modules/payroll/domain/schema"
	"github.com/iota-uz/payroll-sync/modules/payroll/infrastructure/identity"
	"github.com/iota-uz/payroll-sync/modules/payroll/infrastructure/persistence"
	"github.com/iota-uz/payroll-sync/modules/payroll/services"
	"github.com/iota-uz/payroll-sync/pkg/application"
	"github.com/iota-uz/payroll-sync/pkg/configuration"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()
	dict := schema.DefaultDictionary()
	provisioner := identity.NewHTTPProvisioner(identity.Config{
		BaseURL: conf.Directory.BaseURL,
		APIKey:  conf.Directory.APIKey,
		Timeout: conf.Directory.Timeout,
	})
	app.RegisterServices(
		services.NewImportService(
			persistence.NewEmployeeRepository(dict),
			provisioner,
			app.EventPublisher(),
			app.Logger(),
		),
	)
	return nil
}

func (m *Module) Name() string {
	return "payroll"
}
