package decisionservice

import (
	"log/slog"

	httpadapter "agora/contexts/governance/decision-service/adapters/http"
	"agora/contexts/governance/decision-service/adapters/memory"
	"agora/contexts/governance/decision-service/application/commands"
	"agora/contexts/governance/decision-service/application/queries"
	"agora/contexts/governance/decision-service/application/workers"
	"agora/contexts/governance/decision-service/domain/services"
	"agora/contexts/governance/decision-service/ports"
)

type Module struct {
	Handler  httpadapter.Handler
	Relay    workers.OutboxRelay
	Registry *services.SchemaRegistry
	Store    *memory.Store
}

type Dependencies struct {
	Processes ports.ProcessRepository
	Proposals ports.ProposalRepository
	Ballots   ports.BallotRepository
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Registry  *services.SchemaRegistry
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	registry := deps.Registry
	if registry == nil {
		registry = services.NewSchemaRegistry(deps.Logger)
	}
	processUseCase := commands.ProcessUseCase{
		Processes: deps.Processes,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	proposalUseCase := commands.ProposalUseCase{
		Processes: deps.Processes,
		Proposals: deps.Proposals,
		Registry:  registry,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	voteUseCase := commands.VoteUseCase{
		Processes: deps.Processes,
		Proposals: deps.Proposals,
		Ballots:   deps.Ballots,
		Registry:  registry,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	statusUseCase := queries.VotingStatusUseCase{
		Processes: deps.Processes,
		Proposals: deps.Proposals,
		Ballots:   deps.Ballots,
		Registry:  registry,
	}
	readUseCase := queries.ProcessUseCase{
		Processes: deps.Processes,
		Proposals: deps.Proposals,
		Ballots:   deps.Ballots,
		Logger:    deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Processes: processUseCase,
			Proposals: proposalUseCase,
			Votes:     voteUseCase,
			Status:    statusUseCase,
			Reads:     readUseCase,
			Logger:    deps.Logger,
		},
		Relay: workers.OutboxRelay{
			Outbox:    deps.Outbox,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		},
		Registry: registry,
	}
}

func NewInMemoryModule(publisher ports.EventPublisher, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Processes: store,
		Proposals: store,
		Ballots:   store,
		Outbox:    store,
		Publisher: publisher,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
