package datatable

import (
	"context"
	"errors"
	"fmt"
)

// RegisterDefinitions registers defs and their factories. Factories without
// a matching definition are rejected.
func RegisterDefinitions(registry TableRegistry, defs []TableDefinition, factories map[string]TableFactory) error {
	if registry == nil {
		return errors.New("datatable: registry is required")
	}
	for _, def := range defs {
		if err := registry.RegisterDefinition(def); err != nil {
			return fmt.Errorf("register definition %s: %w", def.Code, err)
		}
	}
	for code, factory := range factories {
		if err := registry.RegisterFactory(code, factory); err != nil {
			return fmt.Errorf("register factory %s: %w", code, err)
		}
	}
	return nil
}

// MountAll mounts every registered table into the session. Tables without a
// factory are skipped; mount errors are joined.
func MountAll(ctx context.Context, service *Service, sessionID string) error {
	if service == nil {
		return errors.New("datatable: service is required to mount tables")
	}
	var mountErr error
	for _, def := range service.Definitions() {
		if _, ok := service.Registry().Factory(def.Code); !ok {
			continue
		}
		if err := service.Mount(ctx, TableRef{SessionID: sessionID, Table: def.Code}); err != nil {
			mountErr = errors.Join(mountErr, err)
		}
	}
	return mountErr
}
