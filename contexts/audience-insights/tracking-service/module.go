package trackingservice

import (
	"context"
	"log/slog"

	httpadapter "tracker/contexts/audience-insights/tracking-service/adapters/http"
	"tracker/contexts/audience-insights/tracking-service/adapters/memory"
	"tracker/contexts/audience-insights/tracking-service/application/commands"
	"tracker/contexts/audience-insights/tracking-service/application/workers"
	"tracker/contexts/audience-insights/tracking-service/domain/entities"
	"tracker/contexts/audience-insights/tracking-service/ports"
)

// Module is the composition surface for the tracking context. Runtime wiring
// consumes Handler and Notifier; Store/Bus/Mailer are exposed for
// tests/inspection when the in-memory wiring is used.
type Module struct {
	Handler  httpadapter.Handler
	Notifier workers.Notifier

	Store  *memory.Store
	Bus    *memory.Bus
	Mailer *memory.Mailer
}

type Dependencies struct {
	Events        ports.EventRepository
	Publisher     ports.EventPublisher
	Subscriber    ports.EventSubscriber
	Mailer        ports.MailSender
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	ActionPolicy  entities.ActionPolicy
	NotifyAddress string
	Logger        *slog.Logger
}

// NewModule wires the ingestion use case and the notification worker against
// explicit ports.
func NewModule(deps Dependencies) Module {
	ingest := commands.IngestEventUseCase{
		Events:      deps.Events,
		Publisher:   deps.Publisher,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}

	policy := deps.ActionPolicy
	if policy == "" {
		policy = entities.ActionPolicyStrict
	}

	handler := httpadapter.Handler{
		Ingest:       ingest,
		ActionPolicy: policy,
		Logger:       deps.Logger,
	}

	notifier := workers.Notifier{
		Subscriber: deps.Subscriber,
		Mailer:     deps.Mailer,
		Recipient:  deps.NotifyAddress,
		Logger:     deps.Logger,
	}

	return Module{Handler: handler, Notifier: notifier}
}

// NewInMemoryModule wires the context against in-memory adapters with the
// notifier already subscribed, so a tracked event flows end to end without
// postgres or a mail account.
func NewInMemoryModule(policy entities.ActionPolicy, logger *slog.Logger) Module {
	store := memory.NewStore()
	bus := memory.NewBus()
	mailer := memory.NewMailer()

	module := NewModule(Dependencies{
		Events:        store,
		Publisher:     bus,
		Subscriber:    bus,
		Mailer:        mailer,
		Clock:         store,
		IDGenerator:   store,
		ActionPolicy:  policy,
		NotifyAddress: "none@example.com",
		Logger:        logger,
	})
	module.Store = store
	module.Bus = bus
	module.Mailer = mailer

	_ = module.Notifier.Start(context.Background())
	return module
}
