package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate reports every required setting that is missing for the selected
// order store.
func (c Config) Validate() error {
	var missing []string

	required := map[string]string{
		"MONGO_URI":      c.MongoURI,
		"JWT_SECRET":     c.JWTSecret,
		"SESSION_SECRET": c.SessionSecret,
	}
	for _, key := range []string{"MONGO_URI", "JWT_SECRET", "SESSION_SECRET"} {
		if strings.TrimSpace(required[key]) == "" {
			missing = append(missing, key)
		}
	}

	switch c.OrderStore {
	case OrderStoreMongo:
	case OrderStorePostgres:
		if c.Postgres.Password == "" {
			missing = append(missing, "POSTGRES_PASSWORD")
		}
	default:
		return fmt.Errorf("ORDER_STORE must be %q or %q, got %q", OrderStoreMongo, OrderStorePostgres, c.OrderStore)
	}

	if len(missing) > 0 {
		return errors.New("ENV " + strings.Join(missing, ", ") + " is required")
	}
	return nil
}
