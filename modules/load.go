package modules

import (
	"github.com/iota-uz/payroll-sync/modules/payroll"
	"github.com/iota-uz/payroll-sync/pkg/application"
)

var BuiltInModules = []application.Module{
	payroll.NewModule(),
}

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
