package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/movesimport/internal/config"
	"github.com/JonMunkholm/movesimport/internal/logging"
	"github.com/google/uuid"
)

// DefaultCheckTimeout is used when a Service is created without a timeout.
const DefaultCheckTimeout = 2 * time.Minute

// ErrUnknownImporter is returned when no importer is registered under a name.
var ErrUnknownImporter = errors.New("unknown importer")

// Service runs importer checks against a project database.
type Service struct {
	db      *sql.DB
	timeout time.Duration
	limiter *CheckLimiter
}

// CheckResult is the outcome of one importer check.
type CheckResult struct {
	CheckID  string        `json:"checkId"`
	Importer string        `json:"importer"`
	Status   SectionStatus `json:"status"`
	Messages []string      `json:"messages"`
	Duration time.Duration `json:"durationNs"`
}

// NewService creates a new Service instance.
// db may be nil, in which case checks only report whether importers are shown.
// Zero values in cfg fall back to the package defaults.
func NewService(db *sql.DB, cfg config.CheckConfig) *Service {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}
	return &Service{
		db:      db,
		timeout: timeout,
		limiter: NewCheckLimiter(cfg.MaxConcurrent, cfg.MaxWait),
	}
}

// LimiterStatus reports how many check slots are in use.
func (s *Service) LimiterStatus() CheckLimiterStatus {
	return s.limiter.Status()
}

// WaitForChecks blocks until running checks finish or ctx is done.
func (s *Service) WaitForChecks(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// ListImporters returns information about all registered importers.
func (s *Service) ListImporters() []ImporterInfo {
	defs := All()
	infos := make([]ImporterInfo, len(defs))
	for i, def := range defs {
		infos[i] = def.Info
	}
	return infos
}

// Describe returns the definition registered under name.
func (s *Service) Describe(name string) (ImporterDefinition, error) {
	def, ok := Get(name)
	if !ok {
		return ImporterDefinition{}, fmt.Errorf("%w: %s", ErrUnknownImporter, name)
	}
	return def, nil
}

// Ping verifies the project database is reachable.
func (s *Service) Ping(ctx context.Context) error {
	if s.db == nil {
		return errors.New("no project database configured")
	}
	return s.db.PingContext(ctx)
}

// CheckProject runs one importer's check.
//
// The check runs on a single dedicated connection so that its queries are
// serialized. Data problems are reported in the result; the returned error
// is reserved for infrastructure failures.
func (s *Service) CheckProject(ctx context.Context, name string, rs *RunSpec) (*CheckResult, error) {
	def, err := s.Describe(name)
	if err != nil {
		return nil, err
	}

	checkID := uuid.New().String()
	logger := logging.WithFields(ctx,
		"check_id", checkID,
		"importer", def.Info.NodeName,
	)

	if err := s.limiter.Acquire(ctx); err != nil {
		logger.Warn("no check slot", "error", err, "active", s.limiter.ActiveCount())
		return nil, fmt.Errorf("check %s: %w", def.Info.NodeName, err)
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	logger.Debug("check started")

	var status ProjectStatus
	if s.db == nil {
		status, err = def.Check(ctx, nil, rs)
	} else {
		conn, cerr := s.db.Conn(ctx)
		if cerr != nil {
			logger.Error("acquire connection failed", "error", cerr)
			return nil, fmt.Errorf("check %s: acquire connection: %w", def.Info.NodeName, cerr)
		}
		status, err = def.Check(ctx, conn, rs)
		if cerr := conn.Close(); cerr != nil {
			logger.Warn("release connection failed", "error", cerr)
		}
	}
	if err != nil {
		logger.Error("check failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("check %s: %w", def.Info.NodeName, err)
	}

	result := &CheckResult{
		CheckID:  checkID,
		Importer: def.Info.NodeName,
		Status:   status.Status,
		Messages: status.Messages,
		Duration: time.Since(start),
	}
	if result.Messages == nil {
		result.Messages = []string{}
	}

	logger.Info("check finished",
		"status", result.Status.String(),
		"messages", len(result.Messages),
		"duration_ms", result.Duration.Milliseconds(),
	)

	return result, nil
}

// CheckAll runs every registered importer's check, in registry order.
// Stops at the first infrastructure failure.
func (s *Service) CheckAll(ctx context.Context, rs *RunSpec) ([]CheckResult, error) {
	defs := All()
	results := make([]CheckResult, 0, len(defs))
	for _, def := range defs {
		result, err := s.CheckProject(ctx, def.Info.NodeName, rs)
		if err != nil {
			return results, err
		}
		results = append(results, *result)
	}
	return results, nil
}
