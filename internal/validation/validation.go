// Package validation checks at startup that the services an operator marked
// as required are reachable.
package validation

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/zfogg/curlmap/backend/internal/logger"
	"go.uber.org/zap"
)

// Check probes one service
type Check func(ctx context.Context) error

// ServiceValidator handles validation of optional services
type ServiceValidator struct {
	requiredServices []string
	checks           map[string]Check
	timeout          time.Duration
}

// NewServiceValidator creates a validator for the named services. Names are
// matched case-insensitively against the keys of checks.
func NewServiceValidator(required []string, checks map[string]Check) *ServiceValidator {
	return &ServiceValidator{
		requiredServices: normalizeNames(required),
		checks:           checks,
		timeout:          10 * time.Second,
	}
}

// ValidateServices runs the check of every required service and fails on the
// first one that errors. A required service without a check is an error.
func (sv *ServiceValidator) ValidateServices(ctx context.Context) error {
	if len(sv.requiredServices) == 0 {
		logger.Log.Info("No required services configured for validation")
		return nil
	}

	logger.Log.Info("Validating required services",
		zap.Strings("services", sv.requiredServices),
	)

	for _, serviceName := range sv.requiredServices {
		check, ok := sv.checks[serviceName]
		if !ok {
			return fmt.Errorf("unknown required service %q (known: %s)", serviceName, strings.Join(sv.known(), ", "))
		}

		timeoutCtx, cancel := context.WithTimeout(ctx, sv.timeout)
		err := check(timeoutCtx)
		cancel()
		if err != nil {
			logger.Log.Error("Required service validation failed",
				zap.String("service", serviceName),
				zap.Error(err),
			)
			return fmt.Errorf("required service %q validation failed: %w", serviceName, err)
		}

		logger.Log.Info("Service validated successfully",
			zap.String("service", serviceName),
		)
	}

	logger.Log.Info("All required services validated successfully")
	return nil
}

func (sv *ServiceValidator) known() []string {
	names := make([]string, 0, len(sv.checks))
	for name := range sv.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{})
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
