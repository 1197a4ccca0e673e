package roleservice

import (
	"log/slog"

	httpadapter "agora/contexts/identity-access/role-service/adapters/http"
	"agora/contexts/identity-access/role-service/adapters/memory"
	"agora/contexts/identity-access/role-service/application/commands"
	"agora/contexts/identity-access/role-service/application/queries"
	"agora/contexts/identity-access/role-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Roles  ports.RoleRepository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	roleUseCase := commands.RoleUseCase{
		Roles:  deps.Roles,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	accessUseCase := queries.CheckAccessUseCase{
		Roles:  deps.Roles,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	readUseCase := queries.RoleQueryUseCase{
		Roles: deps.Roles,
	}
	return Module{
		Handler: httpadapter.Handler{
			Roles:  roleUseCase,
			Access: accessUseCase,
			Reads:  readUseCase,
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Roles:  store,
		Clock:  store,
		IDGen:  store,
		Logger: logger,
	})
	module.Store = store
	return module
}
