package cli

import (
	"log/slog"

	"github.com/Jouhafa/ClaimPilot-sub001/internal/application/service"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/domain/reconcile"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/domain/recurring"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/infrastructure/config"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/infrastructure/storage"
)

// BuildService wires storage and the two engines into a LedgerService.
// The caller owns the returned storage and must Close it.
func BuildService(cfg *config.Config, logger *slog.Logger) (*service.LedgerService, *storage.Storage, error) {
	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, nil, err
	}

	detector := recurring.NewDetectorWithAliases(
		cfg.Detection.ToDetectorConfig(),
		cfg.Merchants.AliasTable(),
	)
	engine := reconcile.NewEngine(cfg.Reconciliation.ToEngineConfig())

	svc := service.NewLedgerService(store, detector, engine, logger)
	return svc, store, nil
}
