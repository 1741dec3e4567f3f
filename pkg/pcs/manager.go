package pcs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/lsmithpanw/pcs-where-is/internal/cache"
	"github.com/lsmithpanw/pcs-where-is/internal/config"
	"github.com/lsmithpanw/pcs-where-is/internal/errors"
	"github.com/lsmithpanw/pcs-where-is/internal/logger"
	"github.com/lsmithpanw/pcs-where-is/internal/models"
	"github.com/lsmithpanw/pcs-where-is/internal/utils"

	"go.uber.org/zap"
)

// API is the subset of the platform client the manager drives
type API interface {
	Login(ctx context.Context, stack models.StackConfig, caBundle string) (*models.Session, error)
	Version(ctx context.Context, s *models.Session) (json.RawMessage, error)
	Customers(ctx context.Context, s *models.Session) (json.RawMessage, error)
	Usage(ctx context.Context, s *models.Session, customerName, unit string) (json.RawMessage, error)
	Users(ctx context.Context, s *models.Session, customerName string) (json.RawMessage, error)
}

// Manager runs report queries across every configured stack
type Manager struct {
	api        API
	cache      cache.Cache
	config     config.RunConfig
	out        io.Writer
	sessions   map[string]*models.Session
	authFailed map[string]bool
	tenants    map[string]*models.StackTenants
	cacheUsage *CacheUsage
	progress   *models.SweepProgress
}

// CacheUsage tracks cache usage information
type CacheUsage struct {
	Hits   []string
	Misses []string
}

// NewManager creates a new manager instance
func NewManager(api API, c cache.Cache, rc config.RunConfig) *Manager {
	return &Manager{
		api:        api,
		cache:      c,
		config:     rc,
		out:        os.Stdout,
		sessions:   make(map[string]*models.Session),
		authFailed: make(map[string]bool),
		tenants:    make(map[string]*models.StackTenants),
		cacheUsage: &CacheUsage{},
	}
}

// SetOutput sets where progress lines are written
func (m *Manager) SetOutput(w io.Writer) {
	m.out = w
}

// GetCacheUsage returns cache usage information
func (m *Manager) GetCacheUsage() *CacheUsage {
	return m.cacheUsage
}

// LastSweep returns the progress of the most recent stack sweep
func (m *Manager) LastSweep() *models.SweepProgress {
	return m.progress
}

// StackVisitor is called once per selected, authenticated stack
type StackVisitor func(ctx context.Context, stack models.StackConfig, s *models.Session) error

// ForEachStack visits every selected, credentialed stack in configuration
// order, logging in first. A stack whose login fails is reported and skipped.
// When every attempted login fails the sweep ends with an auth error.
func (m *Manager) ForEachStack(ctx context.Context, visit StackVisitor) error {
	var stacks []models.StackConfig
	for _, stack := range m.config.Stacks {
		if !m.config.Selected(stack) {
			continue
		}
		if !stack.Credentialed() {
			logger.GetLogger().Debug("Skipping stack without credentials", zap.String("stack", stack.Name))
			continue
		}
		stacks = append(stacks, stack)
	}

	m.progress = models.NewSweepProgress(len(stacks))
	for _, stack := range stacks {
		if err := ctx.Err(); err != nil {
			return err
		}

		session, err := m.session(ctx, stack)
		if err != nil {
			if ctx.Err() != nil || !errors.IsType(err, errors.ErrorTypeAuth) {
				return err
			}
			m.progress.IncrementSkipped()
			fmt.Fprintf(m.out, "Skipping %s because of authentication failure.\n\n", stack.Name)
			continue
		}
		m.progress.IncrementVisited()

		if err := visit(ctx, stack, session); err != nil {
			return err
		}
	}
	logger.GetLogger().Debug(m.progress.GetCompletionSummary())

	if len(stacks) > 0 && m.progress.Visited == 0 {
		return errors.NewAuthError("unable to authenticate to any configured stack", nil).
			WithContext("stacks", len(stacks))
	}
	return nil
}

// session returns the run's session for stack, logging in at most once
func (m *Manager) session(ctx context.Context, stack models.StackConfig) (*models.Session, error) {
	if s, ok := m.sessions[stack.Name]; ok {
		return s, nil
	}
	if m.authFailed[stack.Name] {
		return nil, errors.NewAuthError("previous login attempt failed", nil).WithContext("stack", stack.Name)
	}

	s, err := m.api.Login(ctx, stack, m.config.CABundleFor(stack))
	if err != nil {
		if errors.IsType(err, errors.ErrorTypeAuth) {
			m.authFailed[stack.Name] = true
		}
		return nil, err
	}
	m.sessions[stack.Name] = s
	return s, nil
}

// TenantList returns the stack's tenant list, trying the cache before the
// network and writing successful fetches through to the cache. A nil result
// with a nil error means the list could not be fetched.
func (m *Manager) TenantList(ctx context.Context, stack models.StackConfig, s *models.Session) (*models.StackTenants, error) {
	if st, ok := m.tenants[stack.Name]; ok {
		m.recordSource(true)
		return st, nil
	}

	fromCache := true
	payload, err := m.cache.GetCustomers(stack.Name)
	if err != nil {
		if !cache.IsMiss(err) {
			logger.GetLogger().Warn("Tenant cache read failed", zap.String("stack", stack.Name), zap.Error(err))
		}
		m.cacheUsage.Misses = append(m.cacheUsage.Misses, stack.Name)
		fromCache = false

		payload, err = m.api.Customers(ctx, s)
		if err != nil {
			return nil, err
		}
		if payload == nil {
			return nil, nil
		}
	} else {
		m.cacheUsage.Hits = append(m.cacheUsage.Hits, stack.Name)
	}

	tenants, err := models.ParseTenants(payload)
	if err != nil {
		utils.WarningFprintf(m.out, "Unexpected tenant list from %s: %v", stack.Name, err)
		return nil, nil
	}

	// 空のリストはキャッシュしない
	if !fromCache && len(tenants) > 0 {
		if err := m.cache.SetCustomers(stack.Name, payload); err != nil {
			// ログ出力のみ、エラーは返さない
			logger.GetLogger().Warn("Failed to cache tenant list", zap.String("stack", stack.Name), zap.Error(err))
		}
	}

	m.recordSource(fromCache)
	st := &models.StackTenants{Stack: stack.Name, FromCache: fromCache, Tenants: tenants}
	m.tenants[stack.Name] = st
	return st, nil
}

func (m *Manager) recordSource(fromCache bool) {
	if m.progress != nil {
		m.progress.RecordSource(fromCache)
	}
}
