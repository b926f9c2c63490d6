package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure; search may still serve from
	// cache or a reduced tier set.
	Degraded Status = "degraded"
	// Unhealthy indicates the search store is down; no tier can serve.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	store     StorePinger
	tenantDB  TenantDBPinger
	embedding EmbeddingChecker
}

// New creates a Service. tenantDB and embedding can be nil.
func New(store StorePinger, tenantDB TenantDBPinger, embedding EmbeddingChecker) *Service {
	return &Service{store: store, tenantDB: tenantDB, embedding: embedding}
}

// Check runs health checks against all components. The search store is
// load-bearing: its failure makes the whole service unhealthy, while a
// failed tenant database or embedding provider only degrades it.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	storeDown := false
	if err := s.store.Ping(ctx); err != nil {
		checks["store"] = CheckError
		storeDown = true
	} else {
		checks["store"] = CheckOK
	}

	if s.tenantDB != nil {
		if err := s.tenantDB.Ping(ctx); err != nil {
			checks["tenant_db"] = CheckError
		} else {
			checks["tenant_db"] = CheckOK
		}
	}

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks["embedding"] = CheckError
		} else {
			checks["embedding"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	if storeDown {
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks}
}
