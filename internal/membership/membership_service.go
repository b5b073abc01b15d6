package membership

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"go-userhub/internal/audit"
	"go-userhub/internal/events"
	membershiperrors "go-userhub/internal/membership/errors"
	"go-userhub/internal/messaging/kafka"
	"go-userhub/internal/shared/contextutil"
	"go-userhub/internal/user"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const HierarchyTreeKeyPrefix = "membership:tree:"

func GetHierarchyTreeKey(organizationID string) string {
	return HierarchyTreeKeyPrefix + organizationID
}

// OrganizationDirectory adalah pandangan minimal atas modul organization
// yang dibutuhkan lifecycle keanggotaan.
type OrganizationDirectory interface {
	HasReachedUserLimit(ctx context.Context, organizationID string) (bool, error)
	DefaultTimezone(ctx context.Context, organizationID string) (string, error)
}

//go:generate mockgen -source=membership_service.go -destination=mock/membership_service_mock.go -package=mock
type Service interface {
	Join(ctx context.Context, organizationID string, req JoinRequest) (MemberResponse, error)
	GetMember(ctx context.Context, organizationID, userID string) (MemberResponse, error)
	GetMembers(ctx context.Context, organizationID string, filter user.MemberFilter) ([]MemberResponse, error)
	UpdateMember(ctx context.Context, organizationID, userID string, req UpdateMemberRequest) (MemberResponse, error)
	UpdatePosition(ctx context.Context, organizationID, userID string, req UpdatePositionRequest) (MemberResponse, error)
	Transfer(ctx context.Context, organizationID, userID string, req TransferRequest) (MemberResponse, error)
	Leave(ctx context.Context, organizationID, userID string) error
	HierarchyPath(ctx context.Context, organizationID, userID string) ([]PathNode, error)
	Subordinates(ctx context.Context, organizationID, userID string) ([]MemberResponse, error)
	HierarchyTree(ctx context.Context, organizationID string) ([]TreeNode, error)
}

type service struct {
	db     *sql.DB
	repo   user.Repository
	engine *Engine
	orgs   OrganizationDirectory
	outbox kafka.OutboxRepository
	audit  audit.Recorder
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(
	db *sql.DB,
	repo user.Repository,
	engine *Engine,
	orgs OrganizationDirectory,
	outboxRepo kafka.OutboxRepository,
	auditor audit.Recorder,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("membership.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("membership.service")
	}
	if auditor == nil {
		auditor = audit.NopRecorder{}
	}
	return &service{
		db:     db,
		repo:   repo,
		engine: engine,
		orgs:   orgs,
		outbox: outboxRepo,
		audit:  auditor,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Join(
	ctx context.Context,
	organizationID string,
	req JoinRequest,
) (MemberResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("join organization requested",
		zap.String("request_id", rid),
		zap.String("organization_id", organizationID),
		zap.String("user_id", req.UserID),
		zap.String("position", req.Position),
	)

	if s.orgs != nil {
		full, err := s.orgs.HasReachedUserLimit(ctx, organizationID)
		if err != nil {
			s.logger.Error("join capacity check failed", zap.Error(err))
			return MemberResponse{}, err
		}
		if full {
			return MemberResponse{}, membershiperrors.ErrOrganizationLimitReached
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("join begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return MemberResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	u, err := qtx.FindByID(ctx, req.UserID)
	if err != nil {
		return MemberResponse{}, mapRepositoryError(err)
	}
	if u.OrganizationID != nil {
		return MemberResponse{}, membershiperrors.ErrAlreadyMember
	}

	if req.ReportsToUserID != "" {
		engine := s.engine.WithStore(qtx)
		if err := engine.ValidateManagerAssignment(ctx, u, req.ReportsToUserID, organizationID); err != nil {
			return MemberResponse{}, err
		}
	}

	now := time.Now().UTC()
	orgID := uuid.MustParse(organizationID)

	u.OrganizationID = &orgID
	u.IsOrganizationAdmin = req.IsAdmin
	u.IsOrganizationOwner = req.IsOwner
	u.OrganizationJoinedAt = &now
	u.OrganizationLeftAt = nil
	u.OrganizationPermissions = ResolvePermissions(req.Position)

	if req.Position != "" {
		u.OrganizationPosition = &req.Position
	} else {
		u.OrganizationPosition = nil
	}
	if req.ReportsToUserID != "" {
		mid := uuid.MustParse(req.ReportsToUserID)
		u.ReportsToUserID = &mid
		u.PrimaryManagerID = &mid
	}
	if req.SecondaryManagerID != "" {
		sid := uuid.MustParse(req.SecondaryManagerID)
		u.SecondaryManagerID = &sid
	}

	u.WorkLocation = req.WorkLocation
	if u.WorkLocation == "" {
		u.WorkLocation = "office"
	}
	u.OfficeLocation = req.OfficeLocation

	settings := user.JSONMap{}
	for k, v := range req.Settings {
		settings[k] = v
	}
	if req.EffectiveDate != "" {
		// Metadata saja; keanggotaan berlaku sejak request diproses.
		settings["position_effective_date"] = req.EffectiveDate
	}
	if len(settings) > 0 {
		u.OrganizationSettings = settings
	}

	if u.WorkSchedule == nil {
		u.WorkSchedule = s.defaultWorkSchedule(ctx, organizationID)
	}

	if err := qtx.Update(ctx, u); err != nil {
		s.logger.Error("join persist failed", zap.Error(err))
		return MemberResponse{}, mapRepositoryError(err)
	}

	event := events.MemberJoinedEvent{
		EventType:      "member_joined",
		RequestID:      rid,
		UserID:         u.ID.String(),
		OrganizationID: organizationID,
		Position:       req.Position,
		Roles:          ResolveRoles(req.Position, req.IsAdmin, req.IsOwner),
		OccurredAt:     now,
	}
	if err := s.queueEvent(ctx, tx, u.ID.String(), event.EventType, event); err != nil {
		return MemberResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("join commit failed", zap.String("request_id", rid), zap.Error(err))
		return MemberResponse{}, err
	}

	s.invalidateTreeCache(ctx, organizationID)
	s.audit.Record(ctx, contextutil.GetUserID(ctx), u.ID.String(), "membership.join", nil, mapToMemberResponse(*u))

	s.logger.Info("join organization success",
		zap.String("request_id", rid),
		zap.String("organization_id", organizationID),
		zap.String("user_id", u.ID.String()),
	)

	return mapToMemberResponse(*u), nil
}

func (s *service) GetMember(ctx context.Context, organizationID, userID string) (MemberResponse, error) {
	u, err := s.repo.FindByIDInOrganization(ctx, organizationID, userID)
	if err != nil {
		return MemberResponse{}, mapRepositoryError(err)
	}
	return mapToMemberResponse(*u), nil
}

func (s *service) GetMembers(
	ctx context.Context,
	organizationID string,
	filter user.MemberFilter,
) ([]MemberResponse, error) {
	members, err := s.repo.FindAllByOrganization(ctx, organizationID, filter)
	if err != nil {
		s.logger.Error("list members failed",
			zap.String("organization_id", organizationID),
			zap.Error(err),
		)
		return nil, mapRepositoryError(err)
	}
	return mapToMemberListResponse(members), nil
}

func (s *service) UpdateMember(
	ctx context.Context,
	organizationID, userID string,
	req UpdateMemberRequest,
) (MemberResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update member begin tx failed", zap.Error(err))
		return MemberResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	u, err := qtx.FindByIDInOrganization(ctx, organizationID, userID)
	if err != nil {
		return MemberResponse{}, mapRepositoryError(err)
	}
	before := mapToMemberResponse(*u)

	if req.SecondaryManagerID != nil {
		if *req.SecondaryManagerID == "" {
			u.SecondaryManagerID = nil
		} else {
			engine := s.engine.WithStore(qtx)
			if err := engine.ValidateManagerAssignment(ctx, u, *req.SecondaryManagerID, organizationID); err != nil {
				return MemberResponse{}, err
			}
			sid := uuid.MustParse(*req.SecondaryManagerID)
			u.SecondaryManagerID = &sid
		}
	}
	if req.IsAdmin != nil {
		u.IsOrganizationAdmin = *req.IsAdmin
	}
	if req.WorkLocation != nil {
		u.WorkLocation = *req.WorkLocation
	}
	if req.OfficeLocation != nil {
		u.OfficeLocation = *req.OfficeLocation
	}
	if req.Settings != nil {
		merged := user.JSONMap{}
		for k, v := range u.OrganizationSettings {
			merged[k] = v
		}
		for k, v := range req.Settings {
			merged[k] = v
		}
		u.OrganizationSettings = merged
	}

	if err := qtx.Update(ctx, u); err != nil {
		s.logger.Error("update member persist failed", zap.Error(err))
		return MemberResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update member commit failed", zap.String("request_id", rid), zap.Error(err))
		return MemberResponse{}, err
	}

	s.invalidateTreeCache(ctx, organizationID)
	s.audit.Record(ctx, contextutil.GetUserID(ctx), userID, "membership.update", before, mapToMemberResponse(*u))

	s.logger.Info("update member success", zap.String("user_id", userID))
	return mapToMemberResponse(*u), nil
}

func (s *service) UpdatePosition(
	ctx context.Context,
	organizationID, userID string,
	req UpdatePositionRequest,
) (MemberResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update position requested",
		zap.String("request_id", rid),
		zap.String("user_id", userID),
		zap.String("position", req.Position),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update position begin tx failed", zap.Error(err))
		return MemberResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	u, err := qtx.FindByIDInOrganization(ctx, organizationID, userID)
	if err != nil {
		return MemberResponse{}, mapRepositoryError(err)
	}

	oldPosition := ""
	if u.OrganizationPosition != nil {
		oldPosition = *u.OrganizationPosition
	}
	before := mapToMemberResponse(*u)

	u.OrganizationPosition = &req.Position
	// Permission diturunkan ulang dari posisi baru; grant manual tidak
	// dipertahankan lintas perubahan posisi.
	u.OrganizationPermissions = ResolvePermissions(req.Position)

	if req.EffectiveDate != "" {
		settings := user.JSONMap{}
		for k, v := range u.OrganizationSettings {
			settings[k] = v
		}
		settings["position_effective_date"] = req.EffectiveDate
		u.OrganizationSettings = settings
	}

	if err := qtx.Update(ctx, u); err != nil {
		s.logger.Error("update position persist failed", zap.Error(err))
		return MemberResponse{}, mapRepositoryError(err)
	}

	event := events.MemberRoleChangedEvent{
		EventType:      "member_role_changed",
		RequestID:      rid,
		UserID:         userID,
		OrganizationID: organizationID,
		OldPosition:    oldPosition,
		NewPosition:    req.Position,
		Roles:          ResolveRoles(req.Position, u.IsOrganizationAdmin, u.IsOrganizationOwner),
		OccurredAt:     time.Now().UTC(),
	}
	if err := s.queueEvent(ctx, tx, userID, event.EventType, event); err != nil {
		return MemberResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update position commit failed", zap.String("request_id", rid), zap.Error(err))
		return MemberResponse{}, err
	}

	s.invalidateTreeCache(ctx, organizationID)
	s.audit.Record(ctx, contextutil.GetUserID(ctx), userID, "membership.position_change", before, mapToMemberResponse(*u))

	s.logger.Info("update position success",
		zap.String("user_id", userID),
		zap.String("old_position", oldPosition),
		zap.String("new_position", req.Position),
	)

	return mapToMemberResponse(*u), nil
}

func (s *service) Transfer(
	ctx context.Context,
	organizationID, userID string,
	req TransferRequest,
) (MemberResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("transfer requested",
		zap.String("request_id", rid),
		zap.String("user_id", userID),
		zap.String("new_manager_id", req.NewManagerID),
		zap.Bool("transfer_reports", req.TransferReports),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("transfer begin tx failed", zap.Error(err))
		return MemberResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	u, err := qtx.FindByIDInOrganization(ctx, organizationID, userID)
	if err != nil {
		return MemberResponse{}, mapRepositoryError(err)
	}
	before := mapToMemberResponse(*u)

	engine := s.engine.WithStore(qtx)
	if err := engine.Transfer(ctx, u, req.NewManagerID, req.TransferReports); err != nil {
		return MemberResponse{}, err
	}

	event := events.MemberTransferredEvent{
		EventType:       "member_transferred",
		RequestID:       rid,
		UserID:          userID,
		OrganizationID:  organizationID,
		NewManagerID:    req.NewManagerID,
		ReportsFollowed: req.TransferReports,
		OccurredAt:      time.Now().UTC(),
	}
	if err := s.queueEvent(ctx, tx, userID, event.EventType, event); err != nil {
		return MemberResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("transfer commit failed", zap.String("request_id", rid), zap.Error(err))
		return MemberResponse{}, err
	}

	s.invalidateTreeCache(ctx, organizationID)

	updated, err := s.repo.FindByIDInOrganization(ctx, organizationID, userID)
	if err != nil {
		return MemberResponse{}, mapRepositoryError(err)
	}
	s.audit.Record(ctx, contextutil.GetUserID(ctx), userID, "membership.transfer", before, mapToMemberResponse(*updated))

	s.logger.Info("transfer success",
		zap.String("user_id", userID),
		zap.String("new_manager_id", req.NewManagerID),
	)

	return mapToMemberResponse(*updated), nil
}

func (s *service) Leave(ctx context.Context, organizationID, userID string) error {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("leave organization requested",
		zap.String("request_id", rid),
		zap.String("organization_id", organizationID),
		zap.String("user_id", userID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("leave begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	u, err := qtx.FindByIDInOrganization(ctx, organizationID, userID)
	if err != nil {
		return mapRepositoryError(err)
	}
	if u.IsOrganizationOwner {
		return membershiperrors.ErrCannotRemoveOwner
	}
	before := mapToMemberResponse(*u)

	engine := s.engine.WithStore(qtx)
	if err := engine.ReassignOnDeparture(ctx, u); err != nil {
		s.logger.Error("leave reassignment failed", zap.Error(err))
		return err
	}

	now := time.Now().UTC()
	if err := qtx.UpdateFields(ctx, userID, map[string]any{
		"organization_id":          nil,
		"organization_position":    nil,
		"is_organization_admin":    false,
		"is_organization_owner":    false,
		"reports_to_user_id":       nil,
		"primary_manager_id":       nil,
		"secondary_manager_id":     nil,
		"organization_permissions": nil,
		"organization_settings":    nil,
		"organization_joined_at":   nil,
		"organization_left_at":     now,
		"work_location":            "",
		"office_location":          "",
		"work_schedule":            nil,
	}); err != nil {
		s.logger.Error("leave persist failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	event := events.MemberLeftEvent{
		EventType:      "member_left",
		RequestID:      rid,
		UserID:         userID,
		OrganizationID: organizationID,
		OccurredAt:     now,
	}
	if err := s.queueEvent(ctx, tx, userID, event.EventType, event); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("leave commit failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	s.invalidateTreeCache(ctx, organizationID)
	s.audit.Record(ctx, contextutil.GetUserID(ctx), userID, "membership.leave", before, nil)

	s.logger.Info("leave organization success",
		zap.String("organization_id", organizationID),
		zap.String("user_id", userID),
	)

	return nil
}

func (s *service) HierarchyPath(ctx context.Context, organizationID, userID string) ([]PathNode, error) {
	if _, err := s.repo.FindByIDInOrganization(ctx, organizationID, userID); err != nil {
		return nil, mapRepositoryError(err)
	}
	return s.engine.HierarchyPath(ctx, userID)
}

func (s *service) Subordinates(ctx context.Context, organizationID, userID string) ([]MemberResponse, error) {
	if _, err := s.repo.FindByIDInOrganization(ctx, organizationID, userID); err != nil {
		return nil, mapRepositoryError(err)
	}
	subs, err := s.engine.AllSubordinates(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapToMemberListResponse(subs), nil
}

func (s *service) HierarchyTree(ctx context.Context, organizationID string) ([]TreeNode, error) {
	cacheKey := GetHierarchyTreeKey(organizationID)

	// 1. Cek Redis
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var tree []TreeNode
			if json.Unmarshal([]byte(cached), &tree) == nil {
				return tree, nil
			}
		}
	}

	// 2. Singleflight supaya satu org hanya membangun pohon sekali
	//    saat cache kosong
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		members, err := s.repo.FindAllByOrganization(ctx, organizationID, user.MemberFilter{})
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		tree := buildTree(members)

		// 3. TTL pendek; mutasi keanggotaan juga aktif menghapus key
		if s.rdb != nil {
			if jsonData, err := json.Marshal(tree); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 5*time.Minute)
			}
		}

		return tree, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]TreeNode), nil
}

// buildTree menyusun forest dari daftar anggota. Anggota yang manager-nya
// tidak ada dalam daftar diperlakukan sebagai root.
func buildTree(members []user.User) []TreeNode {
	byID := make(map[string]user.User, len(members))
	childIDs := make(map[string][]string, len(members))

	for _, m := range members {
		byID[m.ID.String()] = m
	}
	for _, m := range members {
		if m.ReportsToUserID == nil {
			continue
		}
		parent := m.ReportsToUserID.String()
		if _, ok := byID[parent]; ok {
			childIDs[parent] = append(childIDs[parent], m.ID.String())
		}
	}

	visited := map[string]struct{}{}
	var build func(id string) TreeNode
	build = func(id string) TreeNode {
		m := byID[id]
		position := ""
		if m.OrganizationPosition != nil {
			position = *m.OrganizationPosition
		}
		node := TreeNode{
			ID:       id,
			Name:     m.Name,
			Position: position,
			Role:     ResolveRole(position),
		}
		for _, cid := range childIDs[id] {
			if _, seen := visited[cid]; seen {
				continue
			}
			visited[cid] = struct{}{}
			node.Children = append(node.Children, build(cid))
		}
		return node
	}

	var roots []TreeNode
	for _, m := range members {
		id := m.ID.String()
		isRoot := m.ReportsToUserID == nil
		if !isRoot {
			_, parentPresent := byID[m.ReportsToUserID.String()]
			isRoot = !parentPresent
		}
		if !isRoot {
			continue
		}
		if _, seen := visited[id]; seen {
			continue
		}
		visited[id] = struct{}{}
		roots = append(roots, build(id))
	}

	return roots
}

func (s *service) queueEvent(ctx context.Context, tx *sql.Tx, userID, eventType string, event any) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal event failed", zap.String("event_type", eventType), zap.Error(err))
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "membership",
		AggregateID:   userID,
		EventType:     eventType,
		Topic:         events.MembershipLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("outbox persist failed",
			zap.String("event_type", eventType),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) invalidateTreeCache(ctx context.Context, organizationID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetHierarchyTreeKey(organizationID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate hierarchy tree cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func (s *service) defaultWorkSchedule(ctx context.Context, organizationID string) *user.WorkSchedule {
	timezone := "UTC"
	if s.orgs != nil {
		if tz, err := s.orgs.DefaultTimezone(ctx, organizationID); err == nil && tz != "" {
			timezone = tz
		}
	}
	return &user.WorkSchedule{
		Timezone:    timezone,
		WorkingDays: []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
		WorkingHours: user.WorkingHours{
			Start: "09:00",
			End:   "17:00",
		},
	}
}
