package rbac

import (
	"encoding/json"
	"log"
	"sync"

	"go-userhub/internal/domain"
	"go-userhub/internal/membership"

	"github.com/casbin/casbin/v2"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadOrganizationPolicy(organizationID string) error
	Enforce(req domain.EnforceRequest) (bool, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

func NewService(repo Repository, enforcer *casbin.Enforcer) Service {
	return &service{
		repo:     repo,
		enforcer: enforcer,
	}
}

func (s *service) LoadOrganizationPolicy(organizationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadOrganizationPolicyUnlocked(organizationID)
}

func (s *service) loadOrganizationPolicyUnlocked(organizationID string) error {
	s.enforcer.ClearPolicy()

	grants, err := s.repo.GetMemberGrants(organizationID)
	if err != nil {
		return err
	}
	log.Printf("rbac load policy: organization_id=%s members=%d", organizationID, len(grants))

	rolesSeen := map[string]struct{}{}
	for _, grant := range grants {
		roles := membership.ResolveRoles(grant.Position, grant.IsAdmin, grant.IsOwner)
		for _, role := range roles {
			if _, err := s.enforcer.AddGroupingPolicy(grant.UserID, role, organizationID); err != nil {
				return err
			}
			rolesSeen[role] = struct{}{}
		}

		// Grant eksplisit per user berlaku di samping role posisi.
		var perms []string
		if len(grant.Permissions) > 0 {
			if err := json.Unmarshal(grant.Permissions, &perms); err != nil {
				log.Printf("rbac load policy: bad permission payload user_id=%s err=%v", grant.UserID, err)
			}
		}
		for _, pair := range policiesForPermissions(perms) {
			if _, err := s.enforcer.AddPolicy(grant.UserID, organizationID, pair[0], pair[1]); err != nil {
				return err
			}
		}
	}

	for role := range rolesSeen {
		for _, pair := range policiesForRole(role) {
			if _, err := s.enforcer.AddPolicy(role, organizationID, pair[0], pair[1]); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadOrganizationPolicyUnlocked(req.OrganizationID); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(
		req.UserID,
		req.OrganizationID,
		req.Resource,
		req.Action,
	)
	if err != nil {
		log.Printf("rbac enforce result: user_id=%s organization_id=%s resource=%s action=%s err=%v",
			req.UserID, req.OrganizationID, req.Resource, req.Action, err)
		return false, err
	}

	log.Printf("rbac enforce result: user_id=%s organization_id=%s resource=%s action=%s allowed=%t",
		req.UserID, req.OrganizationID, req.Resource, req.Action, allowed)

	return allowed, nil
}
