package employee

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/rinov1/WorkWave/internal/account"
	accounterrors "github.com/rinov1/WorkWave/internal/account/errors"
	employeeerrors "github.com/rinov1/WorkWave/internal/employee/errors"
	"github.com/rinov1/WorkWave/internal/roster"
	"github.com/rinov1/WorkWave/internal/shared/contextutil"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Roster is the write side of the live roster plus its current snapshot. Mutations are staged
// in the local transaction and pushed after it commits.
type Roster interface {
	Stage(ctx context.Context, tx *sql.Tx, mutation roster.Mutation) error
	Push(ctx context.Context, mutation roster.Mutation) error
	Snapshot() *roster.Snapshot
}

// Actor is the authenticated caller.
type Actor struct {
	AccountID int64
	IsHR      bool
}

func (a Actor) canAccess(accountID int64) bool {
	return a.IsHR || a.AccountID == accountID
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	AddToRoster(ctx context.Context, req AddToRosterRequest) (EmployeeResponse, error)
	Get(ctx context.Context, actor Actor, accountID int64) (EmployeeResponse, error)
	UpdateProfile(ctx context.Context, actor Actor, accountID int64, req UpdateProfileRequest) (EmployeeResponse, error)
	// Remove marks the employee inactive in the live roster. Profile and sessions stay.
	Remove(ctx context.Context, accountID int64) error
	// Purge deletes the profile and the account; sessions and membership flags cascade.
	Purge(ctx context.Context, accountID int64) error
	Directory(ctx context.Context) ([]EmployeeResponse, error)
	// Candidates lists non-HR accounts that are not on the active roster.
	Candidates(ctx context.Context) ([]CandidateResponse, error)
	// ResyncRoster re-pushes display fields of every profile without touching active flags.
	ResyncRoster(ctx context.Context) (int, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	accounts account.Repository
	roster   Roster
	cache    *DirectoryCache
	sf       *singleflight.Group
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	accounts account.Repository,
	rosterWriter Roster,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		accounts: accounts,
		roster:   rosterWriter,
		cache:    NewDirectoryCache(rdb, l),
		sf:       &singleflight.Group{},
		now:      time.Now,
		logger:   l,
	}
}

func (s *service) AddToRoster(ctx context.Context, req AddToRosterRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("add to roster requested",
		zap.String("request_id", rid),
		zap.Int64("account_id", req.AccountID),
	)

	hireDate, ok := parseHireDate(req.HireDate)
	if !ok {
		return EmployeeResponse{}, employeeerrors.ErrInvalidHireDate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("add to roster begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	acc, err := s.accounts.WithTx(tx).FindByID(ctx, req.AccountID)
	if err != nil {
		return EmployeeResponse{}, err
	}
	if acc == nil {
		return EmployeeResponse{}, accounterrors.ErrAccountNotFound
	}
	if acc.IsHR {
		return EmployeeResponse{}, employeeerrors.ErrHRAccount
	}

	qtx := s.repo.WithTx(tx)
	profile, err := qtx.FindByAccount(ctx, req.AccountID)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	now := s.now()
	if profile == nil {
		profile = &Profile{AccountID: req.AccountID, CreatedAt: now}
	}
	profile.Email = acc.Email
	profile.UpdatedAt = now
	if req.FirstName != "" {
		profile.FirstName = req.FirstName
	}
	if req.LastName != "" {
		profile.LastName = req.LastName
	}
	if req.Position != "" {
		profile.Position = req.Position
	}
	if req.Phone != "" {
		profile.Phone = req.Phone
	}
	if hireDate != nil {
		profile.HireDate = hireDate
	}

	if err := qtx.Upsert(ctx, profile); err != nil {
		s.logger.Error("add to roster persist failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	mutation := roster.AddMutation(req.AccountID, profile.DisplayFields(), now)
	if err := s.roster.Stage(ctx, tx, mutation); err != nil {
		return EmployeeResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("add to roster commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	s.cache.Invalidate(ctx)

	resp := mapToResponse(*profile, now)
	resp.Active = true
	resp.RosterSynced = s.bestEffort(ctx, "add to roster", req.AccountID, s.roster.Push(ctx, mutation))

	s.logger.Info("add to roster success",
		zap.String("request_id", rid),
		zap.Int64("account_id", req.AccountID),
	)
	return resp, nil
}

func (s *service) Get(ctx context.Context, actor Actor, accountID int64) (EmployeeResponse, error) {
	if !actor.canAccess(accountID) {
		return EmployeeResponse{}, employeeerrors.ErrNotOwnProfile
	}

	profile, err := s.repo.FindByAccount(ctx, accountID)
	if err != nil {
		s.logger.Error("get profile failed", zap.Int64("account_id", accountID), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if profile == nil {
		return EmployeeResponse{}, employeeerrors.ErrProfileNotFound
	}

	resp := mapToResponse(*profile, s.now())
	resp.Active = s.roster.Snapshot().Contains(accountID)
	return resp, nil
}

func (s *service) UpdateProfile(
	ctx context.Context,
	actor Actor,
	accountID int64,
	req UpdateProfileRequest,
) (EmployeeResponse, error) {
	if !actor.canAccess(accountID) {
		return EmployeeResponse{}, employeeerrors.ErrNotOwnProfile
	}
	if !actor.IsHR && req.touchesHROnlyFields() {
		return EmployeeResponse{}, employeeerrors.ErrHROnlyField
	}
	if req.Email != nil {
		return EmployeeResponse{}, employeeerrors.ErrEmailNotEditable
	}

	var hireDate *time.Time
	if req.HireDate != nil {
		parsed, ok := parseHireDate(*req.HireDate)
		if !ok {
			return EmployeeResponse{}, employeeerrors.ErrInvalidHireDate
		}
		hireDate = parsed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update profile begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	profile, err := qtx.FindByAccount(ctx, accountID)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if profile == nil {
		return EmployeeResponse{}, employeeerrors.ErrProfileNotFound
	}

	applyUpdate(profile, req, hireDate)
	now := s.now()
	profile.UpdatedAt = now

	if err := qtx.Upsert(ctx, profile); err != nil {
		s.logger.Error("update profile persist failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	mutation := roster.FieldsMutation(accountID, profile.DisplayFields(), now)
	if err := s.roster.Stage(ctx, tx, mutation); err != nil {
		return EmployeeResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("update profile commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	s.cache.Invalidate(ctx)

	resp := mapToResponse(*profile, now)
	resp.Active = s.roster.Snapshot().Contains(accountID)
	resp.RosterSynced = s.bestEffort(ctx, "update display fields", accountID, s.roster.Push(ctx, mutation))

	s.logger.Info("update profile success",
		zap.Int64("account_id", accountID),
		zap.Int64("actor_id", actor.AccountID),
	)
	return resp, nil
}

func applyUpdate(p *Profile, req UpdateProfileRequest, hireDate *time.Time) {
	if req.FirstName != nil {
		p.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		p.LastName = *req.LastName
	}
	if req.Phone != nil {
		p.Phone = *req.Phone
	}
	if req.AvatarRef != nil {
		p.AvatarRef = *req.AvatarRef
	}
	if req.Position != nil {
		p.Position = *req.Position
	}
	if req.OnVacation != nil {
		p.OnVacation = *req.OnVacation
	}
	if req.HireDate != nil {
		p.HireDate = hireDate
	}
}

func (s *service) Remove(ctx context.Context, accountID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("remove begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	profile, err := s.repo.WithTx(tx).FindByAccount(ctx, accountID)
	if err != nil {
		return mapRepositoryError(err)
	}
	if profile == nil {
		return employeeerrors.ErrProfileNotFound
	}

	mutation := roster.RemoveMutation(accountID, s.now())
	if err := s.roster.Stage(ctx, tx, mutation); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("remove commit failed", zap.Error(err))
		return err
	}

	if err := s.roster.Push(ctx, mutation); err != nil {
		s.logger.Warn("remove from roster failed, staged for replay", zap.Int64("account_id", accountID), zap.Error(err))
		return err
	}
	s.logger.Info("removed from roster", zap.Int64("account_id", accountID))
	return nil
}

func (s *service) Purge(ctx context.Context, accountID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("purge begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, accountID); err != nil && !errors.Is(err, employeeerrors.ErrProfileNotFound) {
		s.logger.Error("purge profile failed", zap.Int64("account_id", accountID), zap.Error(err))
		return err
	}
	if err := s.accounts.WithTx(tx).Delete(ctx, accountID); err != nil {
		s.logger.Error("purge account failed", zap.Int64("account_id", accountID), zap.Error(err))
		return err
	}
	mutation := roster.RemoveMutation(accountID, s.now())
	if err := s.roster.Stage(ctx, tx, mutation); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("purge commit failed", zap.Error(err))
		return err
	}
	s.cache.Invalidate(ctx)
	s.bestEffort(ctx, "purge roster entry", accountID, s.roster.Push(ctx, mutation))

	s.logger.Info("account purged", zap.Int64("account_id", accountID))
	return nil
}

// Directory serves the HR employee list from Redis, loading it once per miss.
func (s *service) Directory(ctx context.Context) ([]EmployeeResponse, error) {
	list, err := s.cachedDirectory(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := s.roster.Snapshot()
	res := make([]EmployeeResponse, len(list))
	for i, e := range list {
		e.Active = snapshot.Contains(e.AccountID)
		res[i] = e
	}
	return res, nil
}

func (s *service) cachedDirectory(ctx context.Context) ([]EmployeeResponse, error) {
	if cached, ok := s.cache.get(ctx); ok {
		return cached, nil
	}

	v, err, _ := s.sf.Do(DirectoryCacheKey, func() (any, error) {
		rows, err := s.repo.ListWithNames(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}
		resp := mapToListResponse(rows, s.now())
		s.cache.store(ctx, resp)
		return resp, nil
	})
	if err != nil {
		s.logger.Error("load directory failed", zap.Error(err))
		return nil, err
	}
	return v.([]EmployeeResponse), nil
}

// Candidates merges accounts that never got a profile with profiled accounts that are not
// active in the live roster, such as fresh registrations and removed employees.
func (s *service) Candidates(ctx context.Context) ([]CandidateResponse, error) {
	bare, err := s.accounts.ListWithoutProfile(ctx)
	if err != nil {
		s.logger.Error("list candidates failed", zap.Error(err))
		return nil, err
	}
	profiled, err := s.repo.ListWithNames(ctx)
	if err != nil {
		s.logger.Error("list candidates failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	snapshot := s.roster.Snapshot()
	res := make([]CandidateResponse, 0, len(bare)+len(profiled))
	for _, a := range bare {
		res = append(res, CandidateResponse{AccountID: a.ID, Email: a.Email, CreatedAt: a.CreatedAt})
	}
	for _, row := range profiled {
		if snapshot.Contains(row.AccountID) {
			continue
		}
		res = append(res, CandidateResponse{AccountID: row.AccountID, Email: row.AccountEmail, CreatedAt: row.CreatedAt})
	}
	sort.SliceStable(res, func(i, j int) bool {
		return strings.ToLower(res[i].Email) < strings.ToLower(res[j].Email)
	})
	return res, nil
}

func (s *service) ResyncRoster(ctx context.Context) (int, error) {
	profiles, err := s.repo.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	var (
		pushed int
		errs   []error
	)
	for _, p := range profiles {
		if err := ctx.Err(); err != nil {
			return pushed, err
		}
		if err := s.roster.Push(ctx, roster.FieldsMutation(p.AccountID, p.DisplayFields(), s.now())); err != nil {
			errs = append(errs, err)
			continue
		}
		pushed++
	}

	s.logger.Info("roster resync finished",
		zap.Int("profiles", len(profiles)),
		zap.Int("pushed", pushed),
		zap.Int("failed", len(errs)),
	)
	return pushed, errors.Join(errs...)
}

// bestEffort logs a failed roster push; the local write already committed.
func (s *service) bestEffort(ctx context.Context, op string, accountID int64, err error) *bool {
	synced := err == nil
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Warn(op+" push failed",
			zap.Int64("account_id", accountID),
			zap.Error(err),
		)
	}
	return &synced
}
